package bom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func column(rows []Record, field string) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row[field]
	}
	return out
}

func TestSortRowsStrings(t *testing.T) {
	rows := []Record{
		{"name": "Cripplegate"},
		{"name": "aldgate"},
		{"name": "Bishopsgate"},
	}

	asc := SortRows(rows, "name", false)
	require.Equal(t, []any{"aldgate", "Bishopsgate", "Cripplegate"}, column(asc, "name"))

	desc := SortRows(rows, "name", true)
	require.Equal(t, []any{"Cripplegate", "Bishopsgate", "aldgate"}, column(desc, "name"))

	// the input is left untouched
	require.Equal(t, "Cripplegate", rows[0]["name"])
}

func TestSortRowsNumbersAndNulls(t *testing.T) {
	rows := []Record{
		{"count": float64(12)},
		{"count": nil},
		{"count": float64(3)},
		{},
		{"count": float64(40)},
	}

	asc := SortRows(rows, "count", false)
	require.Equal(t, []any{float64(3), float64(12), float64(40), nil, nil}, column(asc, "count"))

	desc := SortRows(rows, "count", true)
	require.Equal(t, []any{nil, nil, float64(40), float64(12), float64(3)}, column(desc, "count"))
}

func TestSortRowsStable(t *testing.T) {
	rows := []Record{
		{"id": float64(0), "year": float64(1665)},
		{"id": float64(1), "year": float64(1640)},
		{"id": float64(2), "year": float64(1665)},
		{"id": float64(3), "year": float64(1640)},
	}
	sorted := SortRows(rows, "year", false)
	require.Equal(t, []any{float64(1), float64(3), float64(0), float64(2)}, column(sorted, "id"))
}

func TestSortStateToggle(t *testing.T) {
	s := SortState{}.Toggle("year")
	require.Equal(t, SortState{Column: "year"}, s)

	s = s.Toggle("year")
	require.Equal(t, SortState{Column: "year", Desc: true}, s)

	s = s.Toggle("parish")
	require.Equal(t, SortState{Column: "parish"}, s)
}

func TestColumns(t *testing.T) {
	rows := []Record{
		{"year": 1, "id": 0, "parish": "a"},
		{"week": 2, "id": 1},
	}
	require.Equal(t, []string{"id", "parish", "week", "year"}, Columns(rows))
}
