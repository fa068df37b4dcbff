package validation

import "github.com/goccy/go-json"

// Result is the verdict for one phone number. The zero value is the result
// for blank input: valid, nothing normalized, no errors.
type Result struct {
	phone      string
	country    string
	normalized string
	extension  string
	problems   []Problem
}

// Valid reports whether no problem was found.
func (r Result) Valid() bool {
	return len(r.problems) == 0
}

// Normalized returns the canonical form, present only for valid non-blank input.
func (r Result) Normalized() (string, bool) {
	if !r.Valid() || r.normalized == "" {
		return "", false
	}
	return r.normalized, true
}

// Extension returns the stripped extension digits, if any were accepted.
func (r Result) Extension() string {
	if !r.Valid() {
		return ""
	}
	return r.extension
}

// Country is the resolved upper-case country code.
func (r Result) Country() string {
	return r.country
}

// Errors returns the error messages in detection order.
func (r Result) Errors() []string {
	msgs := make([]string, len(r.problems))
	for i, p := range r.problems {
		msgs[i] = p.Message
	}
	return msgs
}

// Problems returns a copy of the coded problems in detection order.
func (r Result) Problems() []Problem {
	return append([]Problem(nil), r.problems...)
}

// Has reports whether the result carries the given code.
func (r Result) Has(c Code) bool {
	for _, p := range r.problems {
		if p.Code == c {
			return true
		}
	}
	return false
}

// Message joins the errors into one user-facing string.
func (r Result) Message() string {
	return joinProblems(r.problems)
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{
		Phone:    r.phone,
		Country:  r.country,
		Problems: r.Problems(),
	}
}

type resultJSON struct {
	IsValid    bool     `json:"is_valid"`
	Normalized *string  `json:"normalized"`
	Extension  string   `json:"extension,omitempty"`
	Errors     []string `json:"errors"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		IsValid:   r.Valid(),
		Extension: r.Extension(),
		Errors:    r.Errors(),
	}
	if n, ok := r.Normalized(); ok {
		out.Normalized = &n
	}
	return json.Marshal(out)
}
