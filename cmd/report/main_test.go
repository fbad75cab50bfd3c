package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// setupEnv points the command at a fresh SQLite database under a temp dir.
func setupEnv(t *testing.T) (dir, dbPath string) {
	t.Helper()
	dir = t.TempDir()
	dbPath = filepath.Join(dir, "spendwise.db")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", dbPath)
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	return dir, dbPath
}

func seedOverspend(t *testing.T, dbPath string) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	if err := repo.CreateBudget(ctx, core.Budget{
		ID: "food", Category: core.FoodAndDining, Limit: decimal.NewFromInt(10), Period: core.Monthly, CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}
	if err := repo.CreateTransaction(ctx, core.Transaction{
		ID: "dinner", Amount: decimal.NewFromInt(50), Category: core.FoodAndDining, Description: "Dinner", Date: core.DateOf(now),
	}); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		seed     bool
		args     func(dir string) []string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "empty store skips charts",
			args:     func(dir string) []string { return []string{"-o", filepath.Join(dir, "charts")} },
			wantCode: exitOK,
			wantOut:  []string{"Spending report generated", "Skipped weekly: no data"},
		},
		{
			name:     "single category writes charts",
			seed:     true,
			args:     func(dir string) []string { return []string{"-o", filepath.Join(dir, "charts")} },
			wantCode: exitOK,
			wantOut:  []string{"Food & Dining", "Wrote", "spending_categories.png"},
		},
		{
			name:     "exceeded budget with alerts",
			seed:     true,
			args:     func(string) []string { return []string{"-o", "", "-alerts"} },
			wantCode: exitAlert,
			wantOut:  []string{"exceeded"},
		},
		{
			name: "output dir is a file",
			args: func(dir string) []string {
				path := filepath.Join(dir, "not-a-dir")
				if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
					t.Fatalf("WriteFile() error = %v", err)
				}
				return []string{"-o", path}
			},
			wantCode: exitError,
		},
		{
			name:     "unknown flag",
			args:     func(string) []string { return []string{"-nope"} },
			wantCode: exitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, dbPath := setupEnv(t)
			if tt.seed {
				seedOverspend(t, dbPath)
			}

			var out bytes.Buffer
			if code := run(tt.args(dir), &out); code != tt.wantCode {
				t.Fatalf("run() = %d, want %d\n%s", code, tt.wantCode, out.String())
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q\n%s", want, out.String())
				}
			}
		})
	}
}
