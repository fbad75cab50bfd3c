package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/store"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

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

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := r.db.QueryRowContext(ctx, `SELECT revision FROM store_meta WHERE id = 1`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

// mutate runs fn in a transaction and bumps the store revision on success.
func (r *SQLiteRepository) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE store_meta SET revision = revision + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	return tx.Commit()
}

// execOne executes a single-row statement and maps constraint violations
// and missing rows to store errors.
func execOne(ctx context.Context, tx *sql.Tx, id, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%q: %w", id, store.ErrDuplicate)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", id, store.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

func notFound(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%q: %w", id, store.ErrNotFound)
	}
	return err
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

// Transactions

const transactionColumns = `id, amount, category, description, date`

func scanTransaction(row scanner) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.Amount, &t.Category, &t.Description, &t.Date)
	return t, err
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", notFound(id, err))
	}
	return t, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t core.Transaction) error {
	return execOne(ctx, tx, t.ID,
		`INSERT INTO transactions (id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Amount.String(), string(t.Category), t.Description, t.Date.String())
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error { return insertTransaction(ctx, tx, t) })
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", t.ID, "category", t.Category, "date", t.Date.String())
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, t.ID,
			`UPDATE transactions SET amount = ?, category = ?, description = ?, date = ? WHERE id = ?`,
			t.Amount.String(), string(t.Category), t.Description, t.Date.String(), t.ID)
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, `DELETE FROM transactions WHERE id = ?`, id)
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearTransactions(ctx context.Context) error {
	return r.clear(ctx, "transactions")
}

// Budgets

const budgetColumns = `id, category, limit_amount, period, created_at`

func scanBudget(row scanner) (core.Budget, error) {
	var (
		b       core.Budget
		created string
	)
	if err := row.Scan(&b.ID, &b.Category, &b.Limit, &b.Period, &created); err != nil {
		return b, err
	}
	var err error
	b.CreatedAt, err = parseTimestamp(created)
	return b, err
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id))
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", notFound(id, err))
	}
	return b, nil
}

func insertBudget(ctx context.Context, tx *sql.Tx, b core.Budget) error {
	return execOne(ctx, tx, b.ID,
		`INSERT INTO budgets (id, category, limit_amount, period, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, string(b.Category), b.Limit.String(), string(b.Period), formatTimestamp(b.CreatedAt))
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := r.mutate(ctx, func(tx *sql.Tx) error { return insertBudget(ctx, tx, b) }); err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, b.ID,
			`UPDATE budgets SET category = ?, limit_amount = ?, period = ? WHERE id = ?`,
			string(b.Category), b.Limit.String(), string(b.Period), b.ID)
	})
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, `DELETE FROM budgets WHERE id = ?`, id)
	})
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearBudgets(ctx context.Context) error {
	return r.clear(ctx, "budgets")
}

// Recurring expenses

const recurringColumns = `id, amount, category, description, frequency, next_due, is_active, created_at`

func scanRecurring(row scanner) (core.RecurringExpense, error) {
	var (
		re      core.RecurringExpense
		created string
	)
	if err := row.Scan(&re.ID, &re.Amount, &re.Category, &re.Description, &re.Frequency, &re.NextDue, &re.IsActive, &created); err != nil {
		return re, err
	}
	var err error
	re.CreatedAt, err = parseTimestamp(created)
	return re, err
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recurringColumns+` FROM recurring_expenses ORDER BY next_due, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	out := []core.RecurringExpense{}
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error) {
	re, err := scanRecurring(r.db.QueryRowContext(ctx, `SELECT `+recurringColumns+` FROM recurring_expenses WHERE id = ?`, id))
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", notFound(id, err))
	}
	return re, nil
}

func insertRecurring(ctx context.Context, tx *sql.Tx, re core.RecurringExpense) error {
	return execOne(ctx, tx, re.ID,
		`INSERT INTO recurring_expenses (id, amount, category, description, frequency, next_due, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		re.ID, re.Amount.String(), string(re.Category), re.Description, string(re.Frequency), re.NextDue.String(), boolInt(re.IsActive), formatTimestamp(re.CreatedAt))
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, re core.RecurringExpense) error {
	if err := r.mutate(ctx, func(tx *sql.Tx) error { return insertRecurring(ctx, tx, re) }); err != nil {
		return fmt.Errorf("create recurring expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, re core.RecurringExpense) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, re.ID,
			`UPDATE recurring_expenses
			 SET amount = ?, category = ?, description = ?, frequency = ?, next_due = ?, is_active = ?
			 WHERE id = ?`,
			re.Amount.String(), string(re.Category), re.Description, string(re.Frequency), re.NextDue.String(), boolInt(re.IsActive), re.ID)
	})
	if err != nil {
		return fmt.Errorf("update recurring expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, `DELETE FROM recurring_expenses WHERE id = ?`, id)
	})
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearRecurring(ctx context.Context) error {
	return r.clear(ctx, "recurring_expenses")
}

// Quick-add options

const quickAddColumns = `id, icon, label, amount, category, description, sort_order, created_at`

func scanQuickAdd(row scanner) (core.QuickAddOption, error) {
	var (
		q       core.QuickAddOption
		created string
	)
	if err := row.Scan(&q.ID, &q.Icon, &q.Label, &q.Amount, &q.Category, &q.Description, &q.Order, &created); err != nil {
		return q, err
	}
	var err error
	q.CreatedAt, err = parseTimestamp(created)
	return q, err
}

func (r *SQLiteRepository) ListQuickAdd(ctx context.Context) ([]core.QuickAddOption, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quickAddColumns+` FROM quick_add_options ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list quick-add options: %w", err)
	}
	defer rows.Close()

	out := []core.QuickAddOption{}
	for rows.Next() {
		q, err := scanQuickAdd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quick-add option: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetQuickAdd(ctx context.Context, id string) (core.QuickAddOption, error) {
	q, err := scanQuickAdd(r.db.QueryRowContext(ctx, `SELECT `+quickAddColumns+` FROM quick_add_options WHERE id = ?`, id))
	if err != nil {
		return core.QuickAddOption{}, fmt.Errorf("get quick-add option: %w", notFound(id, err))
	}
	return q, nil
}

func insertQuickAdd(ctx context.Context, tx *sql.Tx, q core.QuickAddOption) error {
	return execOne(ctx, tx, q.ID,
		`INSERT INTO quick_add_options (id, icon, label, amount, category, description, sort_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Icon, q.Label, q.Amount.String(), string(q.Category), q.Description, q.Order, formatTimestamp(q.CreatedAt))
}

func (r *SQLiteRepository) CreateQuickAdd(ctx context.Context, q core.QuickAddOption) error {
	if err := r.mutate(ctx, func(tx *sql.Tx) error { return insertQuickAdd(ctx, tx, q) }); err != nil {
		return fmt.Errorf("create quick-add option: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateQuickAdd(ctx context.Context, q core.QuickAddOption) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, q.ID,
			`UPDATE quick_add_options
			 SET icon = ?, label = ?, amount = ?, category = ?, description = ?, sort_order = ?
			 WHERE id = ?`,
			q.Icon, q.Label, q.Amount.String(), string(q.Category), q.Description, q.Order, q.ID)
	})
	if err != nil {
		return fmt.Errorf("update quick-add option: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteQuickAdd(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		return execOne(ctx, tx, id, `DELETE FROM quick_add_options WHERE id = ?`, id)
	})
	if err != nil {
		return fmt.Errorf("delete quick-add option: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearQuickAdd(ctx context.Context) error {
	return r.clear(ctx, "quick_add_options")
}

// Settings

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	err := r.db.QueryRowContext(ctx, `SELECT quick_add_cleared FROM settings WHERE id = 1`).Scan(&s.QuickAddCleared)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func saveSettings(ctx context.Context, tx *sql.Tx, s core.Settings) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO settings (id, quick_add_cleared) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET quick_add_cleared = excluded.quick_add_cleared`,
		boolInt(s.QuickAddCleared))
	return err
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	if err := r.mutate(ctx, func(tx *sql.Tx) error { return saveSettings(ctx, tx, s) }); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Bulk operations

// clearable lists the tables clear may touch.
var clearable = map[string]bool{
	"transactions":       true,
	"budgets":            true,
	"recurring_expenses": true,
	"quick_add_options":  true,
}

func (r *SQLiteRepository) clear(ctx context.Context, table string) error {
	if !clearable[table] {
		return fmt.Errorf("clear: unknown table %q", table)
	}
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM `+table)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	slog.InfoContext(ctx, "Cleared table", "table", table)
	return nil
}

// Replace swaps every collection for the snapshot contents in one
// transaction.
func (r *SQLiteRepository) Replace(ctx context.Context, snap store.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		for table := range clearable {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, t := range snap.Transactions {
			if err := insertTransaction(ctx, tx, t); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
		}
		for _, b := range snap.Budgets {
			if err := insertBudget(ctx, tx, b); err != nil {
				return fmt.Errorf("insert budget: %w", err)
			}
		}
		for _, re := range snap.Recurring {
			if err := insertRecurring(ctx, tx, re); err != nil {
				return fmt.Errorf("insert recurring expense: %w", err)
			}
		}
		for _, q := range snap.QuickAdd {
			if err := insertQuickAdd(ctx, tx, q); err != nil {
				return fmt.Errorf("insert quick-add option: %w", err)
			}
		}
		return saveSettings(ctx, tx, snap.Settings)
	})
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	slog.InfoContext(ctx, "Store replaced from snapshot",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets),
		"recurring", len(snap.Recurring),
		"quick_add", len(snap.QuickAdd))
	return nil
}
