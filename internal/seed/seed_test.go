package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"shipquote/internal/db"
	"shipquote/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		AdminEmail:    "admin@shipquote.dev",
		AdminPassword: "12345",
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			// One admin plus the demo competitor book.
			if stats.Inserts != 1+len(defaultCompetitors) {
				t.Fatalf("expected %d inserts in first run, got %d", 1+len(defaultCompetitors), stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, 1, "admin@shipquote.dev")
	assertCount(t, database, `SELECT COUNT(*) FROM competitor_prices WHERE market = ?`, 2, "TH")
	assertCount(t, database, `SELECT COUNT(*) FROM competitor_prices`, len(defaultCompetitors))

	var hash string
	if err := database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@shipquote.dev").Scan(&hash); err != nil {
		t.Fatalf("query admin hash: %v", err)
	}
	if hash != HashPassword("12345") {
		t.Fatalf("stored hash does not match HashPassword output")
	}
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-nocreds.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	stats, err := Run(database, Config{})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != len(defaultCompetitors) {
		t.Fatalf("expected %d inserts, got %d", len(defaultCompetitors), stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM users`, 0)
}

func assertCount(t *testing.T, database *sql.DB, query string, want int, args ...any) {
	t.Helper()

	var got int
	if err := database.QueryRow(query, args...).Scan(&got); err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	if got != want {
		t.Fatalf("count %q = %d, want %d", query, got, want)
	}
}
