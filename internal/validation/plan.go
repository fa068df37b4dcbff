package validation

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultCountry is used when the caller does not name a country.
const DefaultCountry = "TR"

// Plan describes the numbering rules of one country. Digit counts refer to
// the national significant number: no calling code, no trunk prefix.
type Plan struct {
	Country         string   `yaml:"country" validate:"required,len=2,alpha"`
	CallingCode     string   `yaml:"calling_code" validate:"required,numeric,max=3"`
	TrunkPrefix     string   `yaml:"trunk_prefix,omitempty" validate:"omitempty,numeric"`
	MinDigits       int      `yaml:"min_digits" validate:"required,min=1,max=15"`
	MaxDigits       int      `yaml:"max_digits" validate:"required,gtefield=MinDigits,max=15"`
	CanonicalLength int      `yaml:"canonical_length" validate:"required,gtefield=MinDigits,ltefield=MaxDigits"`
	MobilePrefixes  []string `yaml:"mobile_prefixes,omitempty" validate:"dive,numeric"`
	Defaults        Options  `yaml:"defaults,omitempty"`
}

// IsMobile reports whether the national number starts with a mobile prefix.
// Plans without mobile prefixes cannot tell mobile numbers apart and accept
// everything.
func (p Plan) IsMobile(national string) bool {
	if len(p.MobilePrefixes) == 0 {
		return true
	}
	for _, prefix := range p.MobilePrefixes {
		if strings.HasPrefix(national, prefix) {
			return true
		}
	}
	return false
}

var builtinPlans = []Plan{
	{Country: "TR", CallingCode: "90", TrunkPrefix: "0", MinDigits: 10, MaxDigits: 10, CanonicalLength: 10, MobilePrefixes: []string{"5"}},
	{Country: "GB", CallingCode: "44", TrunkPrefix: "0", MinDigits: 9, MaxDigits: 10, CanonicalLength: 10, MobilePrefixes: []string{"7"}},
	{Country: "DE", CallingCode: "49", TrunkPrefix: "0", MinDigits: 6, MaxDigits: 11, CanonicalLength: 11, MobilePrefixes: []string{"15", "16", "17"}},
	{Country: "NL", CallingCode: "31", TrunkPrefix: "0", MinDigits: 9, MaxDigits: 9, CanonicalLength: 9, MobilePrefixes: []string{"6"}},
	{Country: "RU", CallingCode: "7", TrunkPrefix: "8", MinDigits: 10, MaxDigits: 10, CanonicalLength: 10, MobilePrefixes: []string{"9"}},
	{Country: "UZ", CallingCode: "998", MinDigits: 9, MaxDigits: 9, CanonicalLength: 9, MobilePrefixes: []string{"20", "33", "50", "77", "88", "90", "91", "93", "94", "95", "97", "98", "99"}},
	{Country: "US", CallingCode: "1", TrunkPrefix: "1", MinDigits: 10, MaxDigits: 10, CanonicalLength: 10},
}

// Table maps upper-case country codes to their numbering plans.
type Table map[string]Plan

// DefaultTable returns a fresh copy of the built-in plans.
func DefaultTable() Table {
	t := make(Table, len(builtinPlans))
	for _, p := range builtinPlans {
		p.MobilePrefixes = append([]string(nil), p.MobilePrefixes...)
		t[p.Country] = p
	}
	return t
}

// Lookup resolves a country code case-insensitively. An empty code selects
// DefaultCountry.
func (t Table) Lookup(country string) (Plan, bool) {
	p, ok := t[countryKey(country)]
	return p, ok
}

// Merge returns a new table holding t overridden by other.
func (t Table) Merge(other Table) Table {
	merged := make(Table, len(t)+len(other))
	for k, p := range t {
		merged[k] = p
	}
	for k, p := range other {
		merged[k] = p
	}
	return merged
}

// Countries returns the table keys in sorted order.
func (t Table) Countries() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type planFile struct {
	Plans []Plan `yaml:"plans" validate:"dive"`
}

var planValidate = validator.New(validator.WithRequiredStructEnabled())

// LoadTable decodes plans from YAML of the form
//
//	plans:
//	  - country: AZ
//	    calling_code: "994"
//	    ...
//
// Every plan is checked before it is accepted.
func LoadTable(r io.Reader) (Table, error) {
	var f planFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return Table{}, nil
		}
		return nil, fmt.Errorf("ошибка разбора планов нумерации: %w", err)
	}

	t := make(Table, len(f.Plans))
	for i := range f.Plans {
		p := f.Plans[i]
		p.Country = strings.ToUpper(strings.TrimSpace(p.Country))
		if err := planValidate.Struct(p); err != nil {
			return nil, fmt.Errorf("план %d (%s) некорректен: %w", i, p.Country, err)
		}
		if _, dup := t[p.Country]; dup {
			return nil, fmt.Errorf("план %s указан дважды", p.Country)
		}
		t[p.Country] = p
	}
	return t, nil
}

// LoadTableFile reads plans from a YAML file.
func LoadTableFile(filename string) (Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadTable(f)
}

// WriteTable encodes the table as YAML in the format LoadTable accepts.
func WriteTable(w io.Writer, t Table) error {
	f := planFile{Plans: make([]Plan, 0, len(t))}
	for _, k := range t.Countries() {
		f.Plans = append(f.Plans, t[k])
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

func countryKey(country string) string {
	c := strings.ToUpper(strings.TrimSpace(country))
	if c == "" {
		return DefaultCountry
	}
	return c
}
