// Package store persists quote snapshots and the competitor price book.
// Quotes are stored as JSON snapshots of the inputs and the computed
// result, so history reads never re-run the calculation against tariffs
// that may have changed since.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shipquote/internal/calc"
	"shipquote/internal/market"
)

// ErrNotFound is returned when a quote id does not exist.
var ErrNotFound = errors.New("quote not found")

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// New returns a Store over db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// QuoteListItem is one row of the history listing.
type QuoteListItem struct {
	ID           int64           `json:"id"`
	CreatedAt    string          `json:"created_at"`
	Title        string          `json:"title"`
	Market       string          `json:"market"`
	Currency     string          `json:"currency"`
	SellingLocal decimal.Decimal `json:"selling_local"`
}

// QuoteDetail is a full stored snapshot.
type QuoteDetail struct {
	ID        int64       `json:"id"`
	CreatedAt string      `json:"created_at"`
	Title     string      `json:"title"`
	Notes     string      `json:"notes"`
	Inputs    calc.Inputs `json:"inputs"`
	Result    calc.Result `json:"result"`
}

// SaveQuote stores a computed quote and returns its id.
func (s *Store) SaveQuote(title, notes string, in calc.Inputs, res calc.Result) (int64, error) {
	inputsJSON, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("marshal quote inputs: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal quote result: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO quotes (title, notes, market, inputs_json, result_json)
		VALUES (?, ?, ?, ?, ?)
	`, title, notes, string(in.Market), string(inputsJSON), string(resultJSON))
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quote insert id: %w", err)
	}
	return id, nil
}

// ListQuotes returns saved quotes newest first, optionally filtered by a
// substring match on title or notes.
func (s *Store) ListQuotes(query string) ([]QuoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			market,
			result_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteListItem, 0)
	for rows.Next() {
		var item QuoteListItem
		var resultJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.Market, &resultJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Currency, item.SellingLocal = sellingFromSnapshot(resultJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func sellingFromSnapshot(resultJSON string) (string, decimal.Decimal) {
	var snapshot struct {
		Currency     string          `json:"currency"`
		SellingLocal decimal.Decimal `json:"selling_local"`
	}
	if err := json.Unmarshal([]byte(resultJSON), &snapshot); err != nil {
		return "", decimal.Zero
	}
	return snapshot.Currency, snapshot.SellingLocal
}

// GetQuote reads one stored snapshot without recalculating anything.
func (s *Store) GetQuote(id int64) (QuoteDetail, error) {
	var (
		detail     QuoteDetail
		inputsJSON string
		resultJSON string
	)
	err := s.db.QueryRow(`
		SELECT id, created_at, COALESCE(title, ''), COALESCE(notes, ''), inputs_json, result_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&detail.ID, &detail.CreatedAt, &detail.Title, &detail.Notes, &inputsJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return QuoteDetail{}, ErrNotFound
	}
	if err != nil {
		return QuoteDetail{}, fmt.Errorf("query quote %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(inputsJSON), &detail.Inputs); err != nil {
		return QuoteDetail{}, fmt.Errorf("decode quote %d inputs: %w", id, err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &detail.Result); err != nil {
		return QuoteDetail{}, fmt.Errorf("decode quote %d result: %w", id, err)
	}
	return detail, nil
}

// ListCompetitors returns the active competitor price book for a market.
func (s *Store) ListCompetitors(code market.Code) ([]calc.CompetitorPrice, error) {
	rows, err := s.db.Query(`
		SELECT label, local_price
		FROM competitor_prices
		WHERE market = ? AND active
		ORDER BY id
	`, string(code))
	if err != nil {
		return nil, fmt.Errorf("query competitor prices: %w", err)
	}
	defer rows.Close()

	prices := make([]calc.CompetitorPrice, 0)
	for rows.Next() {
		var p calc.CompetitorPrice
		if err := rows.Scan(&p.Label, &p.LocalPrice); err != nil {
			return nil, fmt.Errorf("scan competitor price: %w", err)
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate competitor prices: %w", err)
	}

	return prices, nil
}

// AddCompetitor stores an observed competitor price and returns its id.
func (s *Store) AddCompetitor(code market.Code, label string, localPrice decimal.Decimal) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO competitor_prices (market, label, local_price, active)
		VALUES (?, ?, ?, TRUE)
	`, string(code), label, localPrice.String())
	if err != nil {
		return 0, fmt.Errorf("insert competitor price: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("competitor price insert id: %w", err)
	}
	return id, nil
}
