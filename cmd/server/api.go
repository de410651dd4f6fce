package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shipquote/internal/calc"
	"shipquote/internal/market"
	"shipquote/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeComputeError maps rate-book lookup failures to 400s; anything else
// is an internal error.
func (s *server) writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, market.ErrUnknownMarket),
		errors.Is(err, market.ErrUnknownZone),
		errors.Is(err, market.ErrUnknownChannel):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("quote computation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "quote computation failed")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := s.auth.validateCredentials(req.Email, req.Password)
	if err != nil {
		s.logger.Error("credential check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.auth.setSessionCookie(w, req.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type marketSummary struct {
	Code         market.Code      `json:"code"`
	Currency     string           `json:"currency"`
	ExchangeRate decimal.Decimal  `json:"exchange_rate"`
	Zones        []market.Zone    `json:"zones"`
	Channels     []market.Channel `json:"channels"`
}

func (s *server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	book := s.calc.Book()
	summaries := make([]marketSummary, 0)
	for _, code := range book.Codes() {
		t, err := book.Tariff(code)
		if err != nil {
			s.logger.Error("tariff listing failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list markets")
			return
		}
		summaries = append(summaries, marketSummary{
			Code:         t.Code,
			Currency:     t.Currency,
			ExchangeRate: t.ExchangeRate,
			Zones:        t.ZoneList(),
			Channels:     t.ChannelList(),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

type quoteRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
	calc.Inputs
}

// resolveInputs fills missing competitor data from the stored price book.
func (s *server) resolveInputs(req *quoteRequest) error {
	if len(req.Competitors) > 0 {
		return nil
	}
	saved, err := s.store.ListCompetitors(req.Market)
	if err != nil {
		return err
	}
	req.Competitors = saved
	return nil
}

func (s *server) handleQuotePreview(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.resolveInputs(&req); err != nil {
		s.logger.Error("load competitor prices", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load competitor prices")
		return
	}

	res, err := s.calc.Compute(req.Inputs)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type quoteCreateResponse struct {
	ID     int64       `json:"id"`
	Result calc.Result `json:"result"`
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.resolveInputs(&req); err != nil {
		s.logger.Error("load competitor prices", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load competitor prices")
		return
	}

	res, err := s.calc.Compute(req.Inputs)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	id, err := s.store.SaveQuote(strings.TrimSpace(req.Title), strings.TrimSpace(req.Notes), req.Inputs, res)
	if err != nil {
		s.logger.Error("save quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	writeJSON(w, http.StatusCreated, quoteCreateResponse{ID: id, Result: res})
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.ListQuotes(query)
	if err != nil {
		s.logger.Error("list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	detail, err := s.store.GetQuote(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		s.logger.Error("load quote", zap.Error(err), zap.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *server) handleCompetitorsList(w http.ResponseWriter, r *http.Request) {
	code := market.Code(strings.TrimSpace(r.URL.Query().Get("market")))
	if _, err := s.calc.Book().Tariff(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prices, err := s.store.ListCompetitors(code)
	if err != nil {
		s.logger.Error("list competitor prices", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load competitor prices")
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

type competitorCreateRequest struct {
	Market     market.Code     `json:"market"`
	Label      string          `json:"label"`
	LocalPrice decimal.Decimal `json:"local_price"`
}

func (s *server) handleCompetitorCreate(w http.ResponseWriter, r *http.Request) {
	var req competitorCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.calc.Book().Tariff(req.Market); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}
	if req.LocalPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "local_price must not be negative")
		return
	}

	id, err := s.store.AddCompetitor(req.Market, strings.TrimSpace(req.Label), req.LocalPrice)
	if err != nil {
		s.logger.Error("save competitor price", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save competitor price")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}
