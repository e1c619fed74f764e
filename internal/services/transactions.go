package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"tracker/internal/core"
)

// TransactionReport pairs a denormalized transaction list with the metrics
// computed over it. Metrics is nil when there are no transactions.
type TransactionReport struct {
	Transactions []core.TransactionView   `json:"transactions"`
	Metrics      *core.TransactionMetrics `json:"metrics"`
}

// TransactionUpdate carries the optional per-field changes for a stored
// transaction. Empty and nil fields are left untouched; reassigning the
// merchant runs through the resolver with creation semantics.
type TransactionUpdate struct {
	MerchantName       string
	CategoryName       string
	CategoryMultiplier core.Multiplier
	Amount             *core.Money
	Date               *core.Date
}

// TransactionService is the read/write façade over stored transactions.
// Every read re-expands raw rows through the merchant→category relation
// and recomputes metrics; nothing derived is ever cached.
type TransactionService struct {
	store    Store
	resolver *Resolver
}

func NewTransactionService(store Store, resolver *Resolver) *TransactionService {
	return &TransactionService{store: store, resolver: resolver}
}

// Add validates the draft, resolves the merchant (creating merchant and
// category rows as needed) and inserts the transaction. Returns the new
// transaction id.
func (s *TransactionService) Add(ctx context.Context, draft core.TransactionDraft) (int64, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}

	merchantID, err := s.resolver.ResolveMerchant(ctx, draft.MerchantName, draft.CategoryName, draft.CategoryMultiplier)
	if err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, merchantID, draft.Amount, draft.Date)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", id,
		"merchant_id", merchantID,
		"amount_cents", draft.Amount.Cents,
		"date", draft.Date.String())
	return id, nil
}

// GetByID returns the denormalized view of a single transaction.
func (s *TransactionService) GetByID(ctx context.Context, id int64) (core.TransactionView, error) {
	tx, err := s.store.TransactionByID(ctx, id)
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return s.expand(ctx, tx)
}

// ListAll reports every stored transaction, ascending by date.
func (s *TransactionService) ListAll(ctx context.Context) (TransactionReport, error) {
	rows, err := s.store.Transactions(ctx)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("list transactions: %w", err)
	}
	return s.report(ctx, rows)
}

// ListByMerchantID reports the transactions of one merchant.
func (s *TransactionService) ListByMerchantID(ctx context.Context, merchantID int64) (TransactionReport, error) {
	if _, err := s.store.MerchantByID(ctx, merchantID); err != nil {
		return TransactionReport{}, fmt.Errorf("get merchant %d: %w", merchantID, err)
	}
	rows, err := s.store.TransactionsByMerchant(ctx, merchantID)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("list transactions for merchant %d: %w", merchantID, err)
	}
	return s.report(ctx, rows)
}

// ListByMerchantName reports the transactions of the merchant with the
// given name, which must already exist.
func (s *TransactionService) ListByMerchantName(ctx context.Context, name string) (TransactionReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TransactionReport{}, core.ErrEmptyMerchantName
	}
	merchant, err := s.store.MerchantByName(ctx, name)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("get merchant %q: %w", name, err)
	}
	return s.ListByMerchantID(ctx, merchant.ID)
}

// ListByCategoryName reports the transactions of every merchant in the
// named category. Per-merchant listings come back individually ordered but
// their interleaving is not, so the concatenation is re-sorted by date
// before metrics are computed.
func (s *TransactionService) ListByCategoryName(ctx context.Context, name string) (TransactionReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TransactionReport{}, core.ErrEmptyCategoryName
	}
	category, err := s.store.CategoryByName(ctx, name)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("get category %q: %w", name, err)
	}
	merchants, err := s.store.MerchantsByCategory(ctx, category.ID)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("list merchants for category %q: %w", name, err)
	}

	views := make([]core.TransactionView, 0)
	for _, merchant := range merchants {
		rows, err := s.store.TransactionsByMerchant(ctx, merchant.ID)
		if err != nil {
			return TransactionReport{}, fmt.Errorf("list transactions for merchant %d: %w", merchant.ID, err)
		}
		for _, tx := range rows {
			view, err := s.expand(ctx, tx)
			if err != nil {
				return TransactionReport{}, err
			}
			views = append(views, view)
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date.Before(views[j].Date.Time)
	})

	return TransactionReport{Transactions: views, Metrics: core.ComputeMetrics(views)}, nil
}

// ListByDateRange reports transactions with from <= date <= to.
func (s *TransactionService) ListByDateRange(ctx context.Context, from, to core.Date) (TransactionReport, error) {
	if err := from.Validate(); err != nil {
		return TransactionReport{}, err
	}
	if err := to.Validate(); err != nil {
		return TransactionReport{}, err
	}
	if to.Before(from.Time) {
		return TransactionReport{}, fmt.Errorf("%w: date range end %s precedes start %s",
			core.ErrInvalidInput, to, from)
	}
	rows, err := s.store.TransactionsByDateRange(ctx, from, to)
	if err != nil {
		return TransactionReport{}, fmt.Errorf("list transactions %s..%s: %w", from, to, err)
	}
	return s.report(ctx, rows)
}

// Update applies the supplied fields independently. The transaction must
// exist; each field is written with its own statement, matching the
// per-field update semantics of the entity operations.
func (s *TransactionService) Update(ctx context.Context, id int64, upd TransactionUpdate) error {
	if _, err := s.store.TransactionByID(ctx, id); err != nil {
		return fmt.Errorf("get transaction %d: %w", id, err)
	}

	if strings.TrimSpace(upd.MerchantName) != "" {
		merchantID, err := s.resolver.ResolveMerchant(ctx, upd.MerchantName, upd.CategoryName, upd.CategoryMultiplier)
		if err != nil {
			return err
		}
		if err := s.store.SetTransactionMerchant(ctx, id, merchantID); err != nil {
			return fmt.Errorf("update transaction %d merchant: %w", id, err)
		}
	}
	if upd.Amount != nil {
		if err := upd.Amount.Validate(); err != nil {
			return err
		}
		if err := s.store.SetTransactionAmount(ctx, id, *upd.Amount); err != nil {
			return fmt.Errorf("update transaction %d amount: %w", id, err)
		}
	}
	if upd.Date != nil {
		if err := upd.Date.Validate(); err != nil {
			return err
		}
		if err := s.store.SetTransactionDate(ctx, id, *upd.Date); err != nil {
			return fmt.Errorf("update transaction %d date: %w", id, err)
		}
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id)
	return nil
}

// Delete removes a transaction by id.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.TransactionByID(ctx, id); err != nil {
		return fmt.Errorf("get transaction %d: %w", id, err)
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// expand joins a stored transaction with its merchant and category. A
// dangling reference means the store is corrupted and is surfaced, never
// skipped.
func (s *TransactionService) expand(ctx context.Context, tx core.Transaction) (core.TransactionView, error) {
	merchant, err := s.store.MerchantByID(ctx, tx.MerchantID)
	if errors.Is(err, core.ErrNotFound) {
		return core.TransactionView{}, fmt.Errorf("%w: transaction %d references missing merchant %d",
			core.ErrIntegrity, tx.ID, tx.MerchantID)
	}
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("expand transaction %d: %w", tx.ID, err)
	}

	if merchant.CategoryID == 0 {
		return core.TransactionView{}, fmt.Errorf("%w: merchant %d has no category assigned",
			core.ErrIntegrity, merchant.ID)
	}
	category, err := s.store.CategoryByID(ctx, merchant.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		return core.TransactionView{}, fmt.Errorf("%w: merchant %d references missing category %d",
			core.ErrIntegrity, merchant.ID, merchant.CategoryID)
	}
	if err != nil {
		return core.TransactionView{}, fmt.Errorf("expand transaction %d: %w", tx.ID, err)
	}

	return core.TransactionView{
		ID:                 tx.ID,
		MerchantName:       merchant.Name,
		CategoryName:       category.Name,
		CategoryMultiplier: category.Multiplier,
		Amount:             tx.Amount,
		Date:               tx.Date,
	}, nil
}

// report expands a date-ordered row set and computes its metrics.
func (s *TransactionService) report(ctx context.Context, rows []core.Transaction) (TransactionReport, error) {
	views := make([]core.TransactionView, 0, len(rows))
	for _, tx := range rows {
		view, err := s.expand(ctx, tx)
		if err != nil {
			return TransactionReport{}, err
		}
		views = append(views, view)
	}
	return TransactionReport{Transactions: views, Metrics: core.ComputeMetrics(views)}, nil
}
