// Package http provides HTTP server and handler implementations.
//
// This file turns form and query values into domain values. Parsing
// failures are returned as errors the handlers map to 4xx responses.

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

	"expenses/internal/core"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidID   = errors.New("invalid expense id")
)

// maxBodyBytes bounds request bodies read by RequestBodyParser
const maxBodyBytes = 64 << 10

// ParseExpenseForm builds an expense from the add-expense form. An empty
// date means today. The result is validated.
func ParseExpenseForm(form url.Values, today core.Date) (core.Expense, error) {
	date := today
	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: %v", errInvalidDate, err)
		}
		date = d
	}

	amount, err := core.ParseMoney(form.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:        date,
		Category:    sanitizeInput(form.Get("category")),
		Description: sanitizeInput(form.Get("description")),
		Amount:      amount,
		PaymentMode: sanitizeInput(form.Get("payment")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// ParseFilter reads the repeated category and payment query values.
// Blank values are ignored.
func ParseFilter(query url.Values) core.Filter {
	return core.Filter{
		Categories:   nonBlank(query["category"]),
		PaymentModes: nonBlank(query["payment"]),
	}
}

// ParseBudget reads the budget query value, falling back to def when absent
func ParseBudget(query url.Values, def core.Money) (core.Money, error) {
	v := strings.TrimSpace(query.Get("budget"))
	if v == "" {
		return def, nil
	}
	return core.ParseMoney(v)
}

// ParseID parses a positive expense id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, s)
	}
	return id, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RequestBodyParser reads a body that is either JSON or form-encoded,
// both of which htmx can send.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like JSON, otherwise as a form
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns the sanitized value of key
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
