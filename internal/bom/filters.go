// Package bom is the domain model of the Bills of Mortality dashboard:
// filter state, tab selection and the rows returned by the data API.
package bom

import (
	"math"
	"slices"
	"strings"
)

const (
	MinYear = 1636
	MaxYear = 1754
	MinWeek = 1
	MaxWeek = 56

	DefaultPageSize = 100
	MinPageSize     = 10
	MaxPageSize     = 100
)

type BillType string

const (
	BillWeekly  BillType = "weekly"
	BillGeneral BillType = "general"
	BillTotal   BillType = "total"
)

// ParseBillType is case-insensitive, older links use "Weekly" and "General".
func ParseBillType(s string) (BillType, bool) {
	switch BillType(strings.ToLower(strings.TrimSpace(s))) {
	case BillWeekly:
		return BillWeekly, true
	case BillGeneral:
		return BillGeneral, true
	case BillTotal:
		return BillTotal, true
	}
	return "", false
}

// CountTypeAll is the count type that applies no filtering.
const CountTypeAll = "all"

// FilterState is the user's current filter selection. It is a value type,
// every With* method returns a copy that keeps StartYear <= EndYear and
// StartWeek <= EndWeek with all bounds clamped to the valid domain.
type FilterState struct {
	Parishes      []string
	BillType      BillType
	CountType     string
	StartYear     int
	EndYear       int
	StartWeek     int
	EndWeek       int
	CausesOfDeath []string
	Christenings  []string
}

func DefaultFilters() FilterState {
	return FilterState{
		BillType:  BillWeekly,
		StartYear: MinYear,
		EndYear:   MaxYear,
		StartWeek: MinWeek,
		EndWeek:   MaxWeek,
	}
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

func ClampYear(year int) int {
	return clamp(year, MinYear, MaxYear)
}

func ClampWeek(week int) int {
	return clamp(week, MinWeek, MaxWeek)
}

func ClampPageSize(size int) int {
	return clamp(size, MinPageSize, MaxPageSize)
}

// WithStartYear sets the start year, pulling the end year up when needed.
func (f FilterState) WithStartYear(year int) FilterState {
	f.StartYear = ClampYear(year)
	if f.EndYear < f.StartYear {
		f.EndYear = f.StartYear
	}
	return f
}

// WithEndYear sets the end year, pushing the start year down when needed.
func (f FilterState) WithEndYear(year int) FilterState {
	f.EndYear = ClampYear(year)
	if f.StartYear > f.EndYear {
		f.StartYear = f.EndYear
	}
	return f
}

func (f FilterState) WithYearRange(start, end int) FilterState {
	return f.WithStartYear(start).WithEndYear(end)
}

func (f FilterState) WithStartWeek(week int) FilterState {
	f.StartWeek = ClampWeek(week)
	if f.EndWeek < f.StartWeek {
		f.EndWeek = f.StartWeek
	}
	return f
}

func (f FilterState) WithEndWeek(week int) FilterState {
	f.EndWeek = ClampWeek(week)
	if f.StartWeek > f.EndWeek {
		f.StartWeek = f.EndWeek
	}
	return f
}

func (f FilterState) WithBillType(billType BillType) FilterState {
	f.BillType = billType
	return f
}

// WithCountType treats "all" as no filter.
func (f FilterState) WithCountType(countType string) FilterState {
	countType = strings.TrimSpace(countType)
	if strings.EqualFold(countType, CountTypeAll) {
		countType = ""
	}
	f.CountType = countType
	return f
}

// WithParishes replaces the parish selection, which is a set.
func (f FilterState) WithParishes(parishes ...string) FilterState {
	f.Parishes = normalizeSet(parishes)
	return f
}

func (f FilterState) WithCauses(ids ...string) FilterState {
	f.CausesOfDeath = normalizeList(ids)
	return f
}

func (f FilterState) WithChristenings(ids ...string) FilterState {
	f.Christenings = normalizeList(ids)
	return f
}

// Normalize re-establishes every invariant on a FilterState built by hand.
func (f FilterState) Normalize() FilterState {
	if billType, ok := ParseBillType(string(f.BillType)); ok {
		f.BillType = billType
	} else {
		f.BillType = BillWeekly
	}
	if f.StartYear == 0 {
		f.StartYear = MinYear
	}
	if f.EndYear == 0 {
		f.EndYear = MaxYear
	}
	if f.StartWeek == 0 {
		f.StartWeek = MinWeek
	}
	if f.EndWeek == 0 {
		f.EndWeek = MaxWeek
	}
	end, endWeek := f.EndYear, f.EndWeek
	f = f.WithStartYear(f.StartYear).WithEndYear(end)
	f = f.WithStartWeek(f.StartWeek).WithEndWeek(endWeek)
	f = f.WithCountType(f.CountType)
	f.Parishes = normalizeSet(f.Parishes)
	f.CausesOfDeath = normalizeList(f.CausesOfDeath)
	f.Christenings = normalizeList(f.Christenings)
	return f
}

// Equal compares two filter states field by field.
func (f FilterState) Equal(other FilterState) bool {
	return f.BillType == other.BillType &&
		f.CountType == other.CountType &&
		f.StartYear == other.StartYear &&
		f.EndYear == other.EndYear &&
		f.StartWeek == other.StartWeek &&
		f.EndWeek == other.EndWeek &&
		slices.Equal(f.Parishes, other.Parishes) &&
		slices.Equal(f.CausesOfDeath, other.CausesOfDeath) &&
		slices.Equal(f.Christenings, other.Christenings)
}

func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalizeSet(values []string) []string {
	out := normalizeList(values)
	slices.Sort(out)
	return out
}

type DragHandle int

const (
	DragStart DragHandle = iota
	DragEnd
)

// YearAt maps a position along the year slider, 0 at the left edge and 1 at
// the right, onto a year.
func YearAt(position float64) int {
	if math.IsNaN(position) {
		position = 0
	}
	position = math.Max(0, math.Min(position, 1))
	return MinYear + int(math.Round(position*float64(MaxYear-MinYear)))
}

// OnDragMove moves one handle of the year slider. The start handle cannot
// pass the end year and the end handle cannot pass the start year.
func (f FilterState) OnDragMove(handle DragHandle, position float64) FilterState {
	year := YearAt(position)
	switch handle {
	case DragStart:
		f.StartYear = min(year, f.EndYear)
	case DragEnd:
		f.EndYear = max(year, f.StartYear)
	}
	return f
}
