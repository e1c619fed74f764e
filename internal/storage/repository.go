// Package storage implements the SQLite entity store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tracker/internal/core"

	sqlite3 "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// SQLiteRepository is the entity store over a single shared *sql.DB. It
// maps sql.ErrNoRows to core.ErrNotFound and unique-constraint violations
// to core.ErrConflict so the services can rely on the failure taxonomy.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string, multiplier core.Multiplier) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, multiplier) VALUES (?, ?)", name, int(multiplier))
	if err != nil {
		return 0, mapConstraint(fmt.Sprintf("category %q", name), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CategoryByID(ctx context.Context, id int64) (core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		"SELECT id, name, multiplier FROM categories WHERE id = ?", id),
		fmt.Sprintf("category %d", id))
}

func (r *SQLiteRepository) CategoryByName(ctx context.Context, name string) (core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		"SELECT id, name, multiplier FROM categories WHERE name = ?", name),
		fmt.Sprintf("category %q", name))
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, multiplier FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		var mult int
		if err := rows.Scan(&c.ID, &c.Name, &mult); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Multiplier = core.Multiplier(mult)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return mapConstraint(fmt.Sprintf("category %q", name), err)
	}
	return nil
}

func (r *SQLiteRepository) SetCategoryMultiplier(ctx context.Context, id int64, multiplier core.Multiplier) error {
	_, err := r.db.ExecContext(ctx, "UPDATE categories SET multiplier = ? WHERE id = ?", int(multiplier), id)
	if err != nil {
		return fmt.Errorf("update category %d multiplier: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategoryCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM transactions WHERE merchant_id IN (SELECT id FROM merchants WHERE category_id = ?)", id); err != nil {
		return fmt.Errorf("delete category %d transactions: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM merchants WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("delete category %d merchants: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return tx.Commit()
}

func (r *SQLiteRepository) OrphanCategoryMerchants(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE merchants SET category_id = NULL WHERE category_id = ?", id)
	if err != nil {
		return fmt.Errorf("orphan merchants of category %d: %w", id, err)
	}
	return nil
}

// --- merchants ---

func (r *SQLiteRepository) CreateMerchant(ctx context.Context, name string, categoryID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO merchants (name, category_id) VALUES (?, ?)", name, nullableID(categoryID))
	if err != nil {
		return 0, mapConstraint(fmt.Sprintf("merchant %q", name), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("merchant insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) MerchantByID(ctx context.Context, id int64) (core.Merchant, error) {
	return r.scanMerchant(r.db.QueryRowContext(ctx,
		"SELECT id, name, category_id FROM merchants WHERE id = ?", id),
		fmt.Sprintf("merchant %d", id))
}

func (r *SQLiteRepository) MerchantByName(ctx context.Context, name string) (core.Merchant, error) {
	return r.scanMerchant(r.db.QueryRowContext(ctx,
		"SELECT id, name, category_id FROM merchants WHERE name = ?", name),
		fmt.Sprintf("merchant %q", name))
}

func (r *SQLiteRepository) Merchants(ctx context.Context) ([]core.Merchant, error) {
	return r.queryMerchants(ctx, "SELECT id, name, category_id FROM merchants ORDER BY id")
}

func (r *SQLiteRepository) MerchantsByCategory(ctx context.Context, categoryID int64) ([]core.Merchant, error) {
	return r.queryMerchants(ctx,
		"SELECT id, name, category_id FROM merchants WHERE category_id = ? ORDER BY id", categoryID)
}

func (r *SQLiteRepository) RenameMerchant(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE merchants SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return mapConstraint(fmt.Sprintf("merchant %q", name), err)
	}
	return nil
}

func (r *SQLiteRepository) SetMerchantCategory(ctx context.Context, id, categoryID int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE merchants SET category_id = ? WHERE id = ?", nullableID(categoryID), id)
	if err != nil {
		return fmt.Errorf("update merchant %d category: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMerchant(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM merchants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete merchant %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMerchantCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE merchant_id = ?", id); err != nil {
		return fmt.Errorf("delete merchant %d transactions: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM merchants WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete merchant %d: %w", id, err)
	}
	return tx.Commit()
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, merchantID int64, amount core.Money, date core.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (merchant_id, amount_cents, date) VALUES (?, ?, ?)",
		merchantID, amount.Cents, date.String())
	if err != nil {
		return 0, mapConstraint("transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, merchant_id, amount_cents, date FROM transactions WHERE id = ?", id)

	var t core.Transaction
	var dateStr string
	if err := row.Scan(&t.ID, &t.MerchantID, &t.Amount.Cents, &dateStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("scan transaction %d: %w", id, err)
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: transaction %d has malformed date %q", core.ErrIntegrity, id, dateStr)
	}
	t.Date = date
	return t, nil
}

// Listings are ordered ascending by date, then id. Dates are stored as
// YYYY-MM-DD text, so the lexicographic index order is chronological.
func (r *SQLiteRepository) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT id, merchant_id, amount_cents, date FROM transactions ORDER BY date, id")
}

func (r *SQLiteRepository) TransactionsByMerchant(ctx context.Context, merchantID int64) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT id, merchant_id, amount_cents, date FROM transactions WHERE merchant_id = ? ORDER BY date, id",
		merchantID)
}

func (r *SQLiteRepository) TransactionsByDateRange(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT id, merchant_id, amount_cents, date FROM transactions WHERE date BETWEEN ? AND ? ORDER BY date, id",
		from.String(), to.String())
}

func (r *SQLiteRepository) TransactionCountByMerchant(ctx context.Context, merchantID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE merchant_id = ?", merchantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions for merchant %d: %w", merchantID, err)
	}
	return count, nil
}

func (r *SQLiteRepository) SetTransactionMerchant(ctx context.Context, id, merchantID int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE transactions SET merchant_id = ? WHERE id = ?", merchantID, id)
	if err != nil {
		return fmt.Errorf("update transaction %d merchant: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetTransactionAmount(ctx context.Context, id int64, amount core.Money) error {
	_, err := r.db.ExecContext(ctx, "UPDATE transactions SET amount_cents = ? WHERE id = ?", amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update transaction %d amount: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SetTransactionDate(ctx context.Context, id int64, date core.Date) error {
	_, err := r.db.ExecContext(ctx, "UPDATE transactions SET date = ? WHERE id = ?", date.String(), id)
	if err != nil {
		return fmt.Errorf("update transaction %d date: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// --- helpers ---

func (r *SQLiteRepository) scanCategory(row *sql.Row, what string) (core.Category, error) {
	var c core.Category
	var mult int
	if err := row.Scan(&c.ID, &c.Name, &mult); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, fmt.Errorf("%s: %w", what, core.ErrNotFound)
		}
		return core.Category{}, fmt.Errorf("scan %s: %w", what, err)
	}
	c.Multiplier = core.Multiplier(mult)
	return c, nil
}

func (r *SQLiteRepository) scanMerchant(row *sql.Row, what string) (core.Merchant, error) {
	var m core.Merchant
	var categoryID sql.NullInt64
	if err := row.Scan(&m.ID, &m.Name, &categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Merchant{}, fmt.Errorf("%s: %w", what, core.ErrNotFound)
		}
		return core.Merchant{}, fmt.Errorf("scan %s: %w", what, err)
	}
	m.CategoryID = categoryID.Int64
	return m, nil
}

func (r *SQLiteRepository) queryMerchants(ctx context.Context, query string, args ...any) ([]core.Merchant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query merchants: %w", err)
	}
	defer rows.Close()

	out := make([]core.Merchant, 0)
	for rows.Next() {
		var m core.Merchant
		var categoryID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &categoryID); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		m.CategoryID = categoryID.Int64
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		var dateStr string
		if err := rows.Scan(&t.ID, &t.MerchantID, &t.Amount.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d has malformed date %q", core.ErrIntegrity, t.ID, dateStr)
		}
		t.Date = date
		out = append(out, t)
	}
	return out, rows.Err()
}

// nullableID converts the zero id convention to a SQL NULL.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// mapConstraint translates unique-constraint violations into
// core.ErrConflict; other errors pass through wrapped.
func mapConstraint(what string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlitelib.SQLITE_CONSTRAINT_UNIQUE || code == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
