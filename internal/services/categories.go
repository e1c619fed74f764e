package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tracker/internal/core"
)

// CategoryService manages category lifecycle. Categories are also created
// lazily through the resolver; this service is the explicit surface.
type CategoryService struct {
	store Store
}

func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

// Create adds a category with the given name and multiplier. A duplicate
// name surfaces as a conflict.
func (s *CategoryService) Create(ctx context.Context, name string, multiplier core.Multiplier) (int64, error) {
	candidate := core.Category{Name: strings.TrimSpace(name), Multiplier: multiplier}
	if err := candidate.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateCategory(ctx, candidate.Name, candidate.Multiplier)
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", candidate.Name, err)
	}
	slog.InfoContext(ctx, "Category created", "id", id, "name", candidate.Name, "multiplier", int(multiplier))
	return id, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (core.Category, error) {
	category, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return category, nil
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyCategoryName
	}
	category, err := s.store.CategoryByName(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %q: %w", name, err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Update applies rename and re-multiplier independently; a zero multiplier
// means "leave unchanged". Transactions of this category reflect the new
// multiplier on their next read.
func (s *CategoryService) Update(ctx context.Context, id int64, name string, multiplier core.Multiplier) error {
	if _, err := s.store.CategoryByID(ctx, id); err != nil {
		return fmt.Errorf("get category %d: %w", id, err)
	}

	if name = strings.TrimSpace(name); name != "" {
		if err := s.store.RenameCategory(ctx, id, name); err != nil {
			return fmt.Errorf("rename category %d: %w", id, err)
		}
	}
	if multiplier != 0 {
		if err := multiplier.Validate(); err != nil {
			return err
		}
		if err := s.store.SetCategoryMultiplier(ctx, id, multiplier); err != nil {
			return fmt.Errorf("update category %d multiplier: %w", id, err)
		}
	}

	slog.InfoContext(ctx, "Category updated", "id", id)
	return nil
}

// Delete removes a category according to the given policy. Orphaning
// clears the category reference on dependent merchants, which is legal
// because a merchant's category is nullable until assigned.
func (s *CategoryService) Delete(ctx context.Context, id int64, policy core.DeletePolicy) error {
	if _, err := s.store.CategoryByID(ctx, id); err != nil {
		return fmt.Errorf("get category %d: %w", id, err)
	}

	switch policy {
	case core.PolicyReject:
		merchants, err := s.store.MerchantsByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("list merchants for category %d: %w", id, err)
		}
		if len(merchants) > 0 {
			return fmt.Errorf("%w: category %d has %d merchants", core.ErrConflict, id, len(merchants))
		}
		if err := s.store.DeleteCategory(ctx, id); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
	case core.PolicyCascade:
		if err := s.store.DeleteCategoryCascade(ctx, id); err != nil {
			return fmt.Errorf("cascade delete category %d: %w", id, err)
		}
	case core.PolicyOrphan:
		if err := s.store.OrphanCategoryMerchants(ctx, id); err != nil {
			return fmt.Errorf("orphan merchants of category %d: %w", id, err)
		}
		if err := s.store.DeleteCategory(ctx, id); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
	default:
		return fmt.Errorf("%w: unknown delete policy %q", core.ErrInvalidInput, policy)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id, "policy", string(policy))
	return nil
}
