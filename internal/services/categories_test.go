package services

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/core"
	"tracker/internal/storage/memory"
)

func TestCategoryCreateValidation(t *testing.T) {
	svc := NewCategoryService(memory.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", core.Expense); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("Create() empty name error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(ctx, "Groceries", 0); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("Create() zero multiplier error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(ctx, "Groceries", core.Expense); err != nil {
		t.Errorf("Create() error = %v, want nil", err)
	}
}

func TestCategoryUpdate(t *testing.T) {
	store := memory.New()
	svc := NewCategoryService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Update(ctx, id, "Food", core.Income); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	category, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if category.Name != "Food" || category.Multiplier != core.Income {
		t.Errorf("category = %+v, want Food/1", category)
	}

	// Empty name and zero multiplier leave fields unchanged.
	if err := svc.Update(ctx, id, "", 0); err != nil {
		t.Fatalf("Update() no-op error = %v", err)
	}
	category, err = svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if category.Name != "Food" || category.Multiplier != core.Income {
		t.Errorf("category after no-op = %+v, want unchanged", category)
	}

	if err := svc.Update(ctx, id, "", 5); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("Update() bad multiplier error = %v, want ErrInvalidInput", err)
	}
}

func TestCategoryDeletePolicies(t *testing.T) {
	store := memory.New()
	svc := NewCategoryService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	mid, err := store.CreateMerchant(ctx, "Esselunga", id)
	if err != nil {
		t.Fatalf("CreateMerchant() error = %v", err)
	}

	if err := svc.Delete(ctx, id, core.PolicyReject); !errors.Is(err, core.ErrConflict) {
		t.Errorf("Delete(reject) with merchants error = %v, want ErrConflict", err)
	}

	if err := svc.Delete(ctx, id, core.PolicyOrphan); err != nil {
		t.Fatalf("Delete(orphan) error = %v", err)
	}
	merchant, err := store.MerchantByID(ctx, mid)
	if err != nil {
		t.Fatalf("MerchantByID() error = %v", err)
	}
	if merchant.CategoryID != 0 {
		t.Errorf("merchant CategoryID = %d, want 0 after orphaning", merchant.CategoryID)
	}
	if _, err := svc.GetByID(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestCategoryDeleteCascade(t *testing.T) {
	store := memory.New()
	svc := NewCategoryService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	mid, err := store.CreateMerchant(ctx, "Esselunga", id)
	if err != nil {
		t.Fatalf("CreateMerchant() error = %v", err)
	}
	d, err := core.ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if _, err := store.CreateTransaction(ctx, mid, core.Money{Cents: 100}, d); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := svc.Delete(ctx, id, core.PolicyCascade); err != nil {
		t.Fatalf("Delete(cascade) error = %v", err)
	}

	if _, err := store.MerchantByID(ctx, mid); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("MerchantByID() after cascade error = %v, want ErrNotFound", err)
	}
	rows, err := store.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("transactions after cascade = %d, want 0", len(rows))
	}
}
