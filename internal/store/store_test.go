package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
)

func tempDB(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "agent.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTable(name string) func(tx *sql.Tx) error {
	return func(tx *sql.Tx) error {
		_, err := tx.Exec("CREATE TABLE " + name + " (id INTEGER PRIMARY KEY)")
		return err
	}
}

func TestNew_CreatesParentDir(t *testing.T) {
	s := tempDB(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestTx_RollbackOnError(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()
	if _, err := s.DB().ExecContext(ctx, "CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatal(err)
	}

	wantErr := errors.New("abort")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES ('x')"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Tx error = %v, want %v", err, wantErr)
	}

	var n int
	_ = s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n)
	if n != 0 {
		t.Errorf("rows after rollback = %d, want 0", n)
	}
}

func TestMigrate_AppliesOnceAndIsolatesModules(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	calls := 0
	migrations := []plugin.Migration{
		{Version: 1, Description: "create turns", Up: func(tx *sql.Tx) error {
			calls++
			return createTable("turns")(tx)
		}},
	}
	if err := s.Migrate(ctx, "assistant", migrations); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := s.Migrate(ctx, "assistant", migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if calls != 1 {
		t.Errorf("migration ran %d times, want 1", calls)
	}

	other := []plugin.Migration{{Version: 1, Description: "create deliveries", Up: createTable("deliveries")}}
	if err := s.Migrate(ctx, "webhook", other); err != nil {
		t.Fatalf("Migrate webhook: %v", err)
	}
}

func TestMigrate_FailureKeepsEarlierSteps(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	err := s.Migrate(ctx, "assistant", []plugin.Migration{
		{Version: 1, Description: "ok", Up: createTable("a")},
		{Version: 2, Description: "broken", Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("NOT SQL")
			return err
		}},
	})
	if err == nil {
		t.Fatal("expected migration error")
	}

	var n int
	_ = s.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _migrations WHERE plugin_name = 'assistant'").Scan(&n)
	if n != 1 {
		t.Errorf("applied migrations = %d, want 1", n)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		current string
		wantErr error
	}{
		{name: "same", stored: "1.2.0", current: "1.2.0"},
		{name: "upgrade", stored: "1.2.0", current: "1.3.0"},
		{name: "downgrade rejected", stored: "1.3.0", current: "1.2.0", wantErr: ErrNewerSchema},
		{name: "dev binary", stored: "2.0.0", current: "dev"},
		{name: "dev database", stored: "dev", current: "0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempDB(t)
			ctx := context.Background()
			if err := s.CheckVersion(ctx, tt.stored); err != nil {
				t.Fatalf("first CheckVersion: %v", err)
			}
			err := s.CheckVersion(ctx, tt.current)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckVersion: %v", err)
			}
		})
	}
}
