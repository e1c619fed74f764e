package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tracker/internal/core"
)

// MerchantService manages merchant lifecycle. Merchants may also be
// created implicitly through the resolver when a transaction first names
// them.
type MerchantService struct {
	store    Store
	resolver *Resolver
}

func NewMerchantService(store Store, resolver *Resolver) *MerchantService {
	return &MerchantService{store: store, resolver: resolver}
}

// Create adds a merchant explicitly. Category context is optional: a
// merchant may exist unassigned until a category is set. When a category
// name is given the usual resolution rules apply — an existing category is
// reused with its stored multiplier, a new one requires a valid multiplier.
func (s *MerchantService) Create(ctx context.Context, name, categoryName string, multiplier core.Multiplier) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, core.ErrEmptyMerchantName
	}

	var categoryID int64
	if strings.TrimSpace(categoryName) != "" {
		id, err := s.resolveCategoryContext(ctx, categoryName, multiplier)
		if err != nil {
			return 0, err
		}
		categoryID = id
	}

	id, err := s.store.CreateMerchant(ctx, name, categoryID)
	if err != nil {
		return 0, fmt.Errorf("create merchant %q: %w", name, err)
	}
	slog.InfoContext(ctx, "Merchant created", "id", id, "name", name, "category_id", categoryID)
	return id, nil
}

func (s *MerchantService) GetByID(ctx context.Context, id int64) (core.Merchant, error) {
	merchant, err := s.store.MerchantByID(ctx, id)
	if err != nil {
		return core.Merchant{}, fmt.Errorf("get merchant %d: %w", id, err)
	}
	return merchant, nil
}

func (s *MerchantService) GetByName(ctx context.Context, name string) (core.Merchant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Merchant{}, core.ErrEmptyMerchantName
	}
	merchant, err := s.store.MerchantByName(ctx, name)
	if err != nil {
		return core.Merchant{}, fmt.Errorf("get merchant %q: %w", name, err)
	}
	return merchant, nil
}

func (s *MerchantService) List(ctx context.Context) ([]core.Merchant, error) {
	merchants, err := s.store.Merchants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	return merchants, nil
}

// Update applies rename and category reassignment independently. This is
// the only way to move an existing merchant to a different category; the
// resolver deliberately ignores category hints for known merchants.
func (s *MerchantService) Update(ctx context.Context, id int64, name, categoryName string, multiplier core.Multiplier) error {
	if _, err := s.store.MerchantByID(ctx, id); err != nil {
		return fmt.Errorf("get merchant %d: %w", id, err)
	}

	if name = strings.TrimSpace(name); name != "" {
		if err := s.store.RenameMerchant(ctx, id, name); err != nil {
			return fmt.Errorf("rename merchant %d: %w", id, err)
		}
	}
	if strings.TrimSpace(categoryName) != "" {
		categoryID, err := s.resolveCategoryContext(ctx, categoryName, multiplier)
		if err != nil {
			return err
		}
		if err := s.store.SetMerchantCategory(ctx, id, categoryID); err != nil {
			return fmt.Errorf("reassign merchant %d category: %w", id, err)
		}
	}

	slog.InfoContext(ctx, "Merchant updated", "id", id)
	return nil
}

// Delete removes a merchant according to the given policy. Orphaning is
// not available: transactions cannot exist without a merchant.
func (s *MerchantService) Delete(ctx context.Context, id int64, policy core.DeletePolicy) error {
	if _, err := s.store.MerchantByID(ctx, id); err != nil {
		return fmt.Errorf("get merchant %d: %w", id, err)
	}

	switch policy {
	case core.PolicyReject:
		count, err := s.store.TransactionCountByMerchant(ctx, id)
		if err != nil {
			return fmt.Errorf("count transactions for merchant %d: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: merchant %d has %d transactions", core.ErrConflict, id, count)
		}
		if err := s.store.DeleteMerchant(ctx, id); err != nil {
			return fmt.Errorf("delete merchant %d: %w", id, err)
		}
	case core.PolicyCascade:
		if err := s.store.DeleteMerchantCascade(ctx, id); err != nil {
			return fmt.Errorf("cascade delete merchant %d: %w", id, err)
		}
	case core.PolicyOrphan:
		return fmt.Errorf("%w: transactions cannot be orphaned, use reject or cascade", core.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown delete policy %q", core.ErrInvalidInput, policy)
	}

	slog.InfoContext(ctx, "Merchant deleted", "id", id, "policy", string(policy))
	return nil
}

// resolveCategoryContext resolves an optional category argument pair: an
// existing category is used as-is, a new one needs a valid multiplier.
func (s *MerchantService) resolveCategoryContext(ctx context.Context, categoryName string, multiplier core.Multiplier) (int64, error) {
	categoryName = strings.TrimSpace(categoryName)
	category, err := s.store.CategoryByName(ctx, categoryName)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("look up category %q: %w", categoryName, err)
	}
	if err := multiplier.Validate(); err != nil {
		return 0, fmt.Errorf("%w: new category %q requires a multiplier of -1 or 1",
			core.ErrInvalidInput, categoryName)
	}
	return s.resolver.ResolveCategory(ctx, categoryName, multiplier)
}
