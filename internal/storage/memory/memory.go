// Package memory provides an in-memory entity store. It backs tests and
// the memory data backend, and mirrors the SQLite repository's error
// mapping: missing rows are core.ErrNotFound, duplicate names are
// core.ErrConflict.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tracker/internal/core"
)

type Store struct {
	mu sync.Mutex

	categories   map[int64]core.Category
	merchants    map[int64]core.Merchant
	transactions map[int64]core.Transaction

	nextCategoryID    int64
	nextMerchantID    int64
	nextTransactionID int64
}

func New() *Store {
	return &Store{
		categories:        make(map[int64]core.Category),
		merchants:         make(map[int64]core.Merchant),
		transactions:      make(map[int64]core.Transaction),
		nextCategoryID:    1,
		nextMerchantID:    1,
		nextTransactionID: 1,
	}
}

func (s *Store) CreateCategory(_ context.Context, name string, multiplier core.Multiplier) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return 0, fmt.Errorf("category %q: %w", name, core.ErrConflict)
		}
	}
	id := s.nextCategoryID
	s.nextCategoryID++
	s.categories[id] = core.Category{ID: id, Name: name, Multiplier: multiplier}
	return id, nil
}

func (s *Store) CategoryByID(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CategoryByName(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RenameCategory(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	for _, other := range s.categories {
		if other.ID != id && other.Name == name {
			return fmt.Errorf("category %q: %w", name, core.ErrConflict)
		}
	}
	c.Name = name
	s.categories[id] = c
	return nil
}

func (s *Store) SetCategoryMultiplier(_ context.Context, id int64, multiplier core.Multiplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	c.Multiplier = multiplier
	s.categories[id] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) DeleteCategoryCascade(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	for mid, m := range s.merchants {
		if m.CategoryID != id {
			continue
		}
		for tid, t := range s.transactions {
			if t.MerchantID == mid {
				delete(s.transactions, tid)
			}
		}
		delete(s.merchants, mid)
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) OrphanCategoryMerchants(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for mid, m := range s.merchants {
		if m.CategoryID == id {
			m.CategoryID = 0
			s.merchants[mid] = m
		}
	}
	return nil
}

func (s *Store) CreateMerchant(_ context.Context, name string, categoryID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.merchants {
		if m.Name == name {
			return 0, fmt.Errorf("merchant %q: %w", name, core.ErrConflict)
		}
	}
	id := s.nextMerchantID
	s.nextMerchantID++
	s.merchants[id] = core.Merchant{ID: id, Name: name, CategoryID: categoryID}
	return id, nil
}

func (s *Store) MerchantByID(_ context.Context, id int64) (core.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants[id]
	if !ok {
		return core.Merchant{}, fmt.Errorf("merchant %d: %w", id, core.ErrNotFound)
	}
	return m, nil
}

func (s *Store) MerchantByName(_ context.Context, name string) (core.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.merchants {
		if m.Name == name {
			return m, nil
		}
	}
	return core.Merchant{}, fmt.Errorf("merchant %q: %w", name, core.ErrNotFound)
}

func (s *Store) Merchants(_ context.Context) ([]core.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Merchant, 0, len(s.merchants))
	for _, m := range s.merchants {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) MerchantsByCategory(_ context.Context, categoryID int64) ([]core.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Merchant, 0)
	for _, m := range s.merchants {
		if m.CategoryID == categoryID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RenameMerchant(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants[id]
	if !ok {
		return fmt.Errorf("merchant %d: %w", id, core.ErrNotFound)
	}
	for _, other := range s.merchants {
		if other.ID != id && other.Name == name {
			return fmt.Errorf("merchant %q: %w", name, core.ErrConflict)
		}
	}
	m.Name = name
	s.merchants[id] = m
	return nil
}

func (s *Store) SetMerchantCategory(_ context.Context, id, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants[id]
	if !ok {
		return fmt.Errorf("merchant %d: %w", id, core.ErrNotFound)
	}
	m.CategoryID = categoryID
	s.merchants[id] = m
	return nil
}

func (s *Store) DeleteMerchant(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.merchants[id]; !ok {
		return fmt.Errorf("merchant %d: %w", id, core.ErrNotFound)
	}
	delete(s.merchants, id)
	return nil
}

func (s *Store) DeleteMerchantCascade(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.merchants[id]; !ok {
		return fmt.Errorf("merchant %d: %w", id, core.ErrNotFound)
	}
	for tid, t := range s.transactions {
		if t.MerchantID == id {
			delete(s.transactions, tid)
		}
	}
	delete(s.merchants, id)
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, merchantID int64, amount core.Money, date core.Date) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTransactionID
	s.nextTransactionID++
	s.transactions[id] = core.Transaction{ID: id, MerchantID: merchantID, Amount: amount, Date: date}
	return id, nil
}

func (s *Store) TransactionByID(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(core.Transaction) bool { return true }), nil
}

func (s *Store) TransactionsByMerchant(_ context.Context, merchantID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(t core.Transaction) bool { return t.MerchantID == merchantID }), nil
}

func (s *Store) TransactionsByDateRange(_ context.Context, from, to core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(t core.Transaction) bool {
		return !t.Date.Before(from.Time) && !t.Date.After(to.Time)
	}), nil
}

func (s *Store) TransactionCountByMerchant(_ context.Context, merchantID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, t := range s.transactions {
		if t.MerchantID == merchantID {
			count++
		}
	}
	return count, nil
}

func (s *Store) SetTransactionMerchant(_ context.Context, id, merchantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	t.MerchantID = merchantID
	s.transactions[id] = t
	return nil
}

func (s *Store) SetTransactionAmount(_ context.Context, id int64, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	t.Amount = amount
	s.transactions[id] = t
	return nil
}

func (s *Store) SetTransactionDate(_ context.Context, id int64, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	t.Date = date
	s.transactions[id] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

// collect returns matching transactions ordered ascending by date, then
// id, the same ordering the SQLite repository produces. Callers must hold
// the lock.
func (s *Store) collect(match func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
