// Package entity defines the derived data produced for the dashboard.
package entity

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
)

// IndicatorKind identifies a technical indicator.
type IndicatorKind string

const (
	SMA IndicatorKind = "SMA"
	EMA IndicatorKind = "EMA"
	RSI IndicatorKind = "RSI"
)

// DefaultRSIWindow is used when RSI is requested without a window.
const DefaultRSIWindow = 14

var kindOrder = map[IndicatorKind]int{SMA: 0, EMA: 1, RSI: 2}

// IndicatorSpec is a single indicator request.
type IndicatorSpec struct {
	Kind   IndicatorKind
	Window int
}

// Name is the column name, e.g. "SMA_20".
func (s IndicatorSpec) Name() string {
	return fmt.Sprintf("%s_%d", s.Kind, s.Window)
}

func (s IndicatorSpec) String() string { return s.Name() }

// Validate checks the kind and window.
func (s IndicatorSpec) Validate() error {
	if _, ok := kindOrder[s.Kind]; !ok {
		return fmt.Errorf("%w: unknown indicator %q", domain.ErrMalformedInput, s.Kind)
	}
	if s.Window <= 0 {
		return fmt.Errorf("%w: %s window must be positive", domain.ErrMalformedInput, s.Kind)
	}
	if s.Kind == RSI && s.Window < 2 {
		return fmt.Errorf("%w: RSI window must be at least 2", domain.ErrMalformedInput)
	}
	return nil
}

// CompareSpecs orders specs by kind (SMA, EMA, RSI) and then by window.
func CompareSpecs(a, b IndicatorSpec) int {
	if c := cmp.Compare(kindOrder[a.Kind], kindOrder[b.Kind]); c != 0 {
		return c
	}
	return cmp.Compare(a.Window, b.Window)
}

// ParseSpec accepts "SMA_20", "sma20", "SMA 20", "ema:50" and a bare "RSI".
func ParseSpec(s string) (IndicatorSpec, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if len(raw) < 3 {
		return IndicatorSpec{}, fmt.Errorf("%w: indicator %q", domain.ErrMalformedInput, s)
	}
	spec := IndicatorSpec{Kind: IndicatorKind(raw[:3])}
	rest := strings.TrimLeft(raw[3:], "_: ")
	switch {
	case rest == "" && spec.Kind == RSI:
		spec.Window = DefaultRSIWindow
	case rest == "":
		return IndicatorSpec{}, fmt.Errorf("%w: indicator %q has no window", domain.ErrMalformedInput, s)
	default:
		w, err := strconv.Atoi(rest)
		if err != nil {
			return IndicatorSpec{}, fmt.Errorf("%w: indicator %q: %v", domain.ErrMalformedInput, s, err)
		}
		spec.Window = w
	}
	if err := spec.Validate(); err != nil {
		return IndicatorSpec{}, err
	}
	return spec, nil
}

// ParseSpecs parses a comma separated list and drops duplicates.
func ParseSpecs(list string) ([]IndicatorSpec, error) {
	var out []IndicatorSpec
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		spec, err := ParseSpec(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, spec) {
			out = append(out, spec)
		}
	}
	return out, nil
}

// IndicatorColumn holds one indicator value per table row.
// Values are null during the warm-up prefix.
type IndicatorColumn struct {
	Spec   IndicatorSpec
	Values []null.Float
}

// Name is the column name.
func (c IndicatorColumn) Name() string { return c.Spec.Name() }

// NamedValue is one indicator value of a row.
type NamedValue struct {
	Name  string
	Value null.Float
}

// EnrichedTable is a canonical table with indicator columns attached.
type EnrichedTable struct {
	candle.CanonicalTable
	Columns []IndicatorColumn
}

// NewEnrichedTable attaches columns to table in canonical order.
// Columns must have one value per row.
func NewEnrichedTable(table candle.CanonicalTable, cols []IndicatorColumn) (EnrichedTable, error) {
	sorted := slices.Clone(cols)
	slices.SortFunc(sorted, func(a, b IndicatorColumn) int { return CompareSpecs(a.Spec, b.Spec) })
	for i, c := range sorted {
		if len(c.Values) != table.Len() {
			return EnrichedTable{}, fmt.Errorf("%w: column %s has %d values for %d rows",
				domain.ErrMalformedInput, c.Name(), len(c.Values), table.Len())
		}
		if i > 0 && sorted[i-1].Spec == c.Spec {
			return EnrichedTable{}, fmt.Errorf("%w: duplicate column %s", domain.ErrMalformedInput, c.Name())
		}
	}
	return EnrichedTable{CanonicalTable: table, Columns: sorted}, nil
}

// Column returns the column with the given name.
func (t EnrichedTable) Column(name string) (IndicatorColumn, bool) {
	for _, c := range t.Columns {
		if c.Name() == name {
			return c, true
		}
	}
	return IndicatorColumn{}, false
}

// Indicators enumerates the indicator values of row i.
func (t EnrichedTable) Indicators(i int) []NamedValue {
	out := make([]NamedValue, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = NamedValue{Name: c.Name(), Value: c.Values[i]}
	}
	return out
}
