// Package seed runs the idempotent startup seed: the admin user and a
// small demo competitor price book so the comparator has data before the
// merchant records real observations.
package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type competitorSeed struct {
	market string
	label  string
	price  string
}

var defaultCompetitors = []competitorSeed{
	{"TH", "Shopee bestseller", "199"},
	{"TH", "Lazada median", "225"},
	{"MY", "Shopee bestseller", "29.9"},
	{"VN", "Shopee bestseller", "152000"},
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedCompetitorBook(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, HashPassword(password)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func seedCompetitorBook(tx *sql.Tx, stats *Stats) error {
	for _, c := range defaultCompetitors {
		var exists bool
		err := tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1
				FROM competitor_prices
				WHERE market = ? AND label = ?
				LIMIT 1
			)
		`, c.market, c.label).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check competitor price existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO competitor_prices (market, label, local_price, active)
			VALUES (?, ?, ?, TRUE)
		`, c.market, c.label, c.price); err != nil {
			return fmt.Errorf("insert competitor price: %w", err)
		}
		stats.Inserts++
	}
	return nil
}

// HashPassword returns the hex sha256 digest used for stored credentials.
// Must stay in sync with the server's login check.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
