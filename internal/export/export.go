// Package export writes the data in portable formats: CSV sheets per
// collection and the JSON backup document read back by import.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/store"
)

// Format names an export the HTTP layer and the CLI can ask for.
type Format string

const (
	FormatBackup       Format = "json"
	FormatTransactions Format = "transactions.csv"
	FormatBudgets      Format = "budgets.csv"
	FormatRecurring    Format = "recurring.csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatBackup, FormatTransactions, FormatBudgets, FormatRecurring:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatBackup {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Filename is the suggested download name for an export taken on day.
func (f Format) Filename(day core.Date) string {
	switch f {
	case FormatBackup:
		return fmt.Sprintf("spendwise-backup-%s.json", day)
	default:
		return fmt.Sprintf("%s-%s", day, f)
	}
}

// Write renders snap in format f.
func Write(w io.Writer, f Format, snap store.Snapshot) error {
	switch f {
	case FormatBackup:
		return WriteBackup(w, snap)
	case FormatTransactions:
		return WriteTransactionsCSV(w, snap.Transactions)
	case FormatBudgets:
		return WriteBudgetsCSV(w, snap.Budgets)
	case FormatRecurring:
		return WriteRecurringCSV(w, snap.Recurring)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteTransactionsCSV writes Date, Description, Amount, Category rows.
func WriteTransactionsCSV(w io.Writer, txns []core.Transaction) error {
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []string{t.Date.String(), t.Description, t.Amount.String(), string(t.Category)})
	}
	return writeCSV(w, []string{"Date", "Description", "Amount", "Category"}, rows)
}

// WriteBudgetsCSV writes Category, Amount, Period, Created Date rows.
func WriteBudgetsCSV(w io.Writer, budgets []core.Budget) error {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{string(b.Category), b.Limit.String(), string(b.Period), b.CreatedAt.UTC().Format(time.RFC3339)})
	}
	return writeCSV(w, []string{"Category", "Amount", "Period", "Created Date"}, rows)
}

// WriteRecurringCSV writes Description, Amount, Category, Frequency,
// Next Due, Active rows.
func WriteRecurringCSV(w io.Writer, recurring []core.RecurringExpense) error {
	rows := make([][]string, 0, len(recurring))
	for _, r := range recurring {
		rows = append(rows, []string{
			r.Description,
			r.Amount.String(),
			string(r.Category),
			string(r.Frequency),
			r.NextDue.String(),
			strconv.FormatBool(r.IsActive),
		})
	}
	return writeCSV(w, []string{"Description", "Amount", "Category", "Frequency", "Next Due", "Active"}, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteBackup writes snap as an indented JSON backup document.
func WriteBackup(w io.Writer, snap store.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(snap)); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup decodes and validates a backup document. Missing
// collections read as empty.
func ReadBackup(r io.Reader) (store.Snapshot, error) {
	var snap store.Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	snap = normalize(snap)
	if err := snap.Validate(); err != nil {
		return store.Snapshot{}, fmt.Errorf("invalid backup: %w", err)
	}
	return snap, nil
}

// normalize replaces nil collections so the document never holds null.
func normalize(snap store.Snapshot) store.Snapshot {
	if snap.Transactions == nil {
		snap.Transactions = []core.Transaction{}
	}
	if snap.Budgets == nil {
		snap.Budgets = []core.Budget{}
	}
	if snap.Recurring == nil {
		snap.Recurring = []core.RecurringExpense{}
	}
	if snap.QuickAdd == nil {
		snap.QuickAdd = []core.QuickAddOption{}
	}
	return snap
}
