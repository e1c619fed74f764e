package services

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/core"
	"tracker/internal/storage/memory"
)

func TestResolveMerchantCreatesChain(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)
	ctx := context.Background()

	id, err := resolver.ResolveMerchant(ctx, "Esselunga", "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("ResolveMerchant() error = %v", err)
	}

	merchant, err := store.MerchantByID(ctx, id)
	if err != nil {
		t.Fatalf("MerchantByID() error = %v", err)
	}
	if merchant.Name != "Esselunga" {
		t.Errorf("merchant name = %s, want Esselunga", merchant.Name)
	}
	category, err := store.CategoryByID(ctx, merchant.CategoryID)
	if err != nil {
		t.Fatalf("CategoryByID() error = %v", err)
	}
	if category.Name != "Groceries" || category.Multiplier != core.Expense {
		t.Errorf("category = %+v, want Groceries/-1", category)
	}
}

func TestResolveMerchantIdempotent(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)
	ctx := context.Background()

	first, err := resolver.ResolveMerchant(ctx, "Esselunga", "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("first ResolveMerchant() error = %v", err)
	}
	second, err := resolver.ResolveMerchant(ctx, "Esselunga", "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("second ResolveMerchant() error = %v", err)
	}
	if first != second {
		t.Errorf("resolution not idempotent: %d then %d", first, second)
	}

	categories, err := store.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("created %d categories, want 1", len(categories))
	}
}

// A known merchant keeps its stored category; hints in the request are
// ignored rather than causing drift.
func TestResolveMerchantExistingCategoryWins(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)
	ctx := context.Background()

	id, err := resolver.ResolveMerchant(ctx, "Esselunga", "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("ResolveMerchant() error = %v", err)
	}

	again, err := resolver.ResolveMerchant(ctx, "Esselunga", "Entertainment", core.Income)
	if err != nil {
		t.Fatalf("ResolveMerchant() with different hint error = %v", err)
	}
	if again != id {
		t.Errorf("resolved to %d, want existing %d", again, id)
	}

	merchant, err := store.MerchantByID(ctx, id)
	if err != nil {
		t.Fatalf("MerchantByID() error = %v", err)
	}
	category, err := store.CategoryByID(ctx, merchant.CategoryID)
	if err != nil {
		t.Fatalf("CategoryByID() error = %v", err)
	}
	if category.Name != "Groceries" {
		t.Errorf("category = %s, want unchanged Groceries", category.Name)
	}
	if _, err := store.CategoryByName(ctx, "Entertainment"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("hint category was created, want none")
	}
}

func TestResolveMerchantNewRequiresCategoryContext(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)
	ctx := context.Background()

	tests := []struct {
		name         string
		categoryName string
		multiplier   core.Multiplier
	}{
		{"no category name", "", core.Expense},
		{"no multiplier", "Groceries", 0},
		{"bad multiplier", "Groceries", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.ResolveMerchant(ctx, "Brand New", tt.categoryName, tt.multiplier)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("ResolveMerchant() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestResolveMerchantEmptyName(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)

	_, err := resolver.ResolveMerchant(context.Background(), "   ", "Groceries", core.Expense)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("ResolveMerchant() error = %v, want ErrInvalidInput", err)
	}
}

func TestResolveCategoryReusesExistingMultiplier(t *testing.T) {
	store := memory.New()
	resolver := NewResolver(store)
	ctx := context.Background()

	id, err := resolver.ResolveCategory(ctx, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("ResolveCategory() error = %v", err)
	}

	// A different multiplier hint does not rewrite the stored category.
	again, err := resolver.ResolveCategory(ctx, "Groceries", core.Income)
	if err != nil {
		t.Fatalf("ResolveCategory() error = %v", err)
	}
	if again != id {
		t.Errorf("resolved to %d, want existing %d", again, id)
	}
	category, err := store.CategoryByID(ctx, id)
	if err != nil {
		t.Fatalf("CategoryByID() error = %v", err)
	}
	if category.Multiplier != core.Expense {
		t.Errorf("multiplier = %d, want unchanged -1", category.Multiplier)
	}
}
