package bom

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortState is the column the table is ordered by.
type SortState struct {
	Column string
	Desc   bool
}

// Toggle selects column: the same column flips direction, a new column
// starts ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		s.Desc = !s.Desc
		return s
	}
	return SortState{Column: column}
}

// SortRows returns a stably sorted copy of rows. Strings use English
// collation, other values compare numerically and missing or null values
// go last ascending and first descending.
func SortRows(rows []Record, column string, desc bool) []Record {
	out := slices.Clone(rows)
	if column == "" {
		return out
	}

	collator := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b Record) int {
		av, bv := a[column], b[column]
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			if desc {
				return -1
			}
			return 1
		case bv == nil:
			if desc {
				return 1
			}
			return -1
		}

		c := compareValues(collator, av, bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func compareValues(collator *collate.Collator, a, b any) int {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return collator.CompareString(as, bs)
	}

	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if !aIsNum || !bIsNum {
		return 0
	}
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}
