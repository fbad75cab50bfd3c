package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
	"spendwise/internal/services"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 10 << 20
)

// errBadRequest marks malformed requests, as opposed to well-formed
// requests carrying invalid values.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decodeJSON reads a single JSON object into dst. Field values the domain
// types reject are reported as invalid input; anything else is a bad
// request.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if isFieldError(err) {
			return fmt.Errorf("%w: %w", services.ErrInvalidInput, err)
		}
		if errors.Is(err, io.EOF) {
			return badRequest("empty request body")
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

func isFieldError(err error) bool {
	return errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount)
}

// Amount accepts a positive amount as a JSON number or a string using
// either decimal separator.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, string(b))
	}
	a.Decimal = d
	return nil
}

type transactionRequest struct {
	Amount      Amount        `json:"amount"`
	Category    core.Category `json:"category"`
	Description string        `json:"description"`
	// Date defaults to today.
	Date core.Date `json:"date"`
}

func (req transactionRequest) transaction(id string, today core.Date) core.Transaction {
	date := req.Date
	if date.IsZero() {
		date = today
	}
	return core.Transaction{
		ID:          id,
		Amount:      req.Amount.Decimal,
		Category:    req.Category,
		Description: sanitizeInput(req.Description),
		Date:        date,
	}
}

type budgetRequest struct {
	Category core.Category     `json:"category"`
	Limit    Amount            `json:"limit"`
	Period   core.BudgetPeriod `json:"period"`
}

func (req budgetRequest) budget(id string) core.Budget {
	return core.Budget{
		ID:       id,
		Category: req.Category,
		Limit:    req.Limit.Decimal,
		Period:   req.Period,
	}
}

type recurringRequest struct {
	Amount      Amount         `json:"amount"`
	Category    core.Category  `json:"category"`
	Description string         `json:"description"`
	Frequency   core.Frequency `json:"frequency"`
	// NextDue defaults to today.
	NextDue core.Date `json:"nextDue"`
	// IsActive defaults to true.
	IsActive *bool `json:"isActive"`
}

func (req recurringRequest) recurring(id string, today core.Date) core.RecurringExpense {
	next := req.NextDue
	if next.IsZero() {
		next = today
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return core.RecurringExpense{
		ID:          id,
		Amount:      req.Amount.Decimal,
		Category:    req.Category,
		Description: sanitizeInput(req.Description),
		Frequency:   req.Frequency,
		NextDue:     next,
		IsActive:    active,
	}
}

type quickAddRequest struct {
	Icon        string        `json:"icon"`
	Label       string        `json:"label"`
	Amount      Amount        `json:"amount"`
	Category    core.Category `json:"category"`
	Description string        `json:"description"`
}

func (req quickAddRequest) option(id string) core.QuickAddOption {
	desc := sanitizeInput(req.Description)
	label := sanitizeInput(req.Label)
	if desc == "" {
		desc = label
	}
	return core.QuickAddOption{
		ID:          id,
		Icon:        sanitizeInput(req.Icon),
		Label:       label,
		Amount:      req.Amount.Decimal,
		Category:    req.Category,
		Description: desc,
	}
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// ListQuery is the parsed query string of a transaction listing.
type ListQuery struct {
	Filter     core.Filter
	SortBy     core.SortField
	Descending bool
}

// ParseListQuery reads search, category, from, to, min, max, sort and
// order. Listings default to newest first.
func ParseListQuery(q url.Values) (ListQuery, error) {
	lq := ListQuery{SortBy: core.SortByDate, Descending: true}
	lq.Filter.Search = sanitizeInput(q.Get("search"))

	if v := strings.TrimSpace(q.Get("category")); v != "" {
		c, err := core.ParseCategory(v)
		if err != nil {
			return ListQuery{}, badRequest("category: %v", err)
		}
		lq.Filter.Category = c
	}

	dates := []struct {
		key string
		dst *core.Date
	}{{"from", &lq.Filter.From}, {"to", &lq.Filter.To}}
	for _, d := range dates {
		if v := q.Get(d.key); v != "" {
			parsed, err := core.ParseDate(v)
			if err != nil {
				return ListQuery{}, badRequest("%s: %v", d.key, err)
			}
			*d.dst = parsed
		}
	}

	bounds := []struct {
		key string
		dst *decimal.NullDecimal
	}{{"min", &lq.Filter.Min}, {"max", &lq.Filter.Max}}
	for _, b := range bounds {
		if v := strings.TrimSpace(q.Get(b.key)); v != "" {
			parsed, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
			if err != nil {
				return ListQuery{}, badRequest("%s: not a number", b.key)
			}
			*b.dst = decimal.NewNullDecimal(parsed)
		}
	}

	switch by := core.SortField(q.Get("sort")); by {
	case "":
	case core.SortByDate, core.SortByAmount, core.SortByCategory:
		lq.SortBy = by
	default:
		return ListQuery{}, badRequest("sort: unknown field %q", string(by))
	}

	switch order := q.Get("order"); order {
	case "", "desc":
	case "asc":
		lq.Descending = false
	default:
		return ListQuery{}, badRequest("order: want asc or desc, got %q", order)
	}
	return lq, nil
}

// sanitizeInput removes control characters except tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
