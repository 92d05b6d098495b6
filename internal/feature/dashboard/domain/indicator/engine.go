// Package indicator computes technical indicator columns over canonical tables.
//
// Every indicator is computed from the close series alone and never changes
// the rows of the table it is applied to. Values before an indicator has
// enough history are null.
package indicator

import (
	"fmt"
	"math"
	"slices"

	"github.com/guregu/null/v6"

	"stock_dashboard/internal/feature/candles/domain"
	candle "stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

// Apply computes every spec and returns the enriched table.
// Duplicate specs produce a single column. The first failing spec aborts the call.
func Apply(table candle.CanonicalTable, specs []entity.IndicatorSpec) (entity.EnrichedTable, error) {
	if err := Validate(table); err != nil {
		return entity.EnrichedTable{}, err
	}

	unique := make([]entity.IndicatorSpec, 0, len(specs))
	for _, s := range specs {
		if !slices.Contains(unique, s) {
			unique = append(unique, s)
		}
	}

	cols := make([]entity.IndicatorColumn, 0, len(unique))
	for _, s := range unique {
		c, err := compute(table, s)
		if err != nil {
			return entity.EnrichedTable{}, err
		}
		cols = append(cols, c)
	}
	return entity.NewEnrichedTable(table, cols)
}

// Column computes a single indicator column.
func Column(table candle.CanonicalTable, spec entity.IndicatorSpec) (entity.IndicatorColumn, error) {
	if err := Validate(table); err != nil {
		return entity.IndicatorColumn{}, err
	}
	return compute(table, spec)
}

// Validate checks that closes are finite and timestamps strictly ascending.
func Validate(table candle.CanonicalTable) error {
	if table.Len() == 0 {
		return fmt.Errorf("%w: table has no rows", domain.ErrInsufficientData)
	}
	for i, r := range table.Rows {
		if math.IsNaN(r.Close) || math.IsInf(r.Close, 0) {
			return fmt.Errorf("%w: non-finite close at row %d", domain.ErrMalformedInput, i)
		}
		if i > 0 && !table.Rows[i-1].Time.Before(r.Time) {
			return fmt.Errorf("%w: timestamps not strictly ascending at row %d", domain.ErrMalformedInput, i)
		}
	}
	return nil
}

// MinRows is the number of rows spec needs before it yields a value.
func MinRows(spec entity.IndicatorSpec) int {
	if spec.Kind == entity.RSI {
		return spec.Window + 1
	}
	return spec.Window
}

func compute(table candle.CanonicalTable, spec entity.IndicatorSpec) (entity.IndicatorColumn, error) {
	if err := spec.Validate(); err != nil {
		return entity.IndicatorColumn{}, err
	}
	if n := table.Len(); n < MinRows(spec) {
		return entity.IndicatorColumn{}, fmt.Errorf("%w: %s needs %d rows, have %d",
			domain.ErrInsufficientData, spec.Name(), MinRows(spec), n)
	}

	closes := table.Closes()
	var values []null.Float
	switch spec.Kind {
	case entity.SMA:
		values = SMA(closes, spec.Window)
	case entity.EMA:
		values = EMA(closes, spec.Window)
	case entity.RSI:
		values = RSI(closes, spec.Window)
	}
	return entity.IndicatorColumn{Spec: spec, Values: values}, nil
}
