package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tracker/internal/core"
)

// Resolver maps human-supplied merchant and category names to stable ids,
// creating rows lazily on first use. Creation relies on the store's UNIQUE
// constraints: when an insert loses a race against a concurrent request the
// resolver re-reads the winner instead of failing.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveMerchant returns the id of the merchant with the given name,
// creating the merchant (and, if needed, the category) when absent.
//
// An existing merchant is returned as-is: the category arguments are only
// consulted on a miss, so moving a merchant to a different category takes
// an explicit merchant update, not a second resolve. On a miss both
// categoryName and a valid multiplier are required. When the category
// already exists its stored multiplier wins over the caller's hint.
func (r *Resolver) ResolveMerchant(ctx context.Context, merchantName, categoryName string, multiplier core.Multiplier) (int64, error) {
	merchantName = strings.TrimSpace(merchantName)
	if merchantName == "" {
		return 0, core.ErrEmptyMerchantName
	}

	merchant, err := r.store.MerchantByName(ctx, merchantName)
	if err == nil {
		return merchant.ID, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("look up merchant %q: %w", merchantName, err)
	}

	categoryName = strings.TrimSpace(categoryName)
	var missing []string
	if categoryName == "" {
		missing = append(missing, "categoryName")
	}
	if multiplier == 0 {
		missing = append(missing, "categoryMultiplier")
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: new merchant %q requires %s", core.ErrInvalidInput,
			merchantName, strings.Join(missing, " and "))
	}
	if err := multiplier.Validate(); err != nil {
		return 0, err
	}

	categoryID, err := r.ResolveCategory(ctx, categoryName, multiplier)
	if err != nil {
		return 0, err
	}

	id, err := r.store.CreateMerchant(ctx, merchantName, categoryID)
	if errors.Is(err, core.ErrConflict) {
		// Lost a create race: another request inserted the name first.
		winner, lookupErr := r.store.MerchantByName(ctx, merchantName)
		if lookupErr != nil {
			return 0, fmt.Errorf("re-read merchant %q after conflict: %w", merchantName, lookupErr)
		}
		return winner.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create merchant %q: %w", merchantName, err)
	}

	slog.InfoContext(ctx, "Merchant created", "id", id, "name", merchantName, "category_id", categoryID)
	return id, nil
}

// ResolveCategory returns the id for the named category, creating it with
// the supplied multiplier only when it does not exist yet.
func (r *Resolver) ResolveCategory(ctx context.Context, name string, multiplier core.Multiplier) (int64, error) {
	category, err := r.store.CategoryByName(ctx, name)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("look up category %q: %w", name, err)
	}

	id, err := r.store.CreateCategory(ctx, name, multiplier)
	if errors.Is(err, core.ErrConflict) {
		winner, lookupErr := r.store.CategoryByName(ctx, name)
		if lookupErr != nil {
			return 0, fmt.Errorf("re-read category %q after conflict: %w", name, lookupErr)
		}
		return winner.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", name, err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", name, "multiplier", int(multiplier))
	return id, nil
}
