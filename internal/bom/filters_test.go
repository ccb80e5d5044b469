package bom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestYearClamping(t *testing.T) {
	table := []struct {
		name        string
		apply       func(FilterState) FilterState
		expectStart int
		expectEnd   int
	}{
		{
			name:        "start below minimum",
			apply:       func(f FilterState) FilterState { return f.WithStartYear(1500) },
			expectStart: MinYear,
			expectEnd:   MaxYear,
		},
		{
			name:        "end above maximum",
			apply:       func(f FilterState) FilterState { return f.WithEndYear(1900) },
			expectStart: MinYear,
			expectEnd:   MaxYear,
		},
		{
			name: "start above end pulls end up",
			apply: func(f FilterState) FilterState {
				return f.WithEndYear(1650).WithStartYear(1700)
			},
			expectStart: 1700,
			expectEnd:   1700,
		},
		{
			name: "end below start pushes start down",
			apply: func(f FilterState) FilterState {
				return f.WithStartYear(1700).WithEndYear(1640)
			},
			expectStart: 1640,
			expectEnd:   1640,
		},
		{
			name:        "range",
			apply:       func(f FilterState) FilterState { return f.WithYearRange(1640, 1645) },
			expectStart: 1640,
			expectEnd:   1645,
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			f := test.apply(DefaultFilters())
			require.Equal(t, test.expectStart, f.StartYear)
			require.Equal(t, test.expectEnd, f.EndYear)
			require.LessOrEqual(t, f.StartYear, f.EndYear)
		})
	}
}

func TestWeekClamping(t *testing.T) {
	f := DefaultFilters().WithStartWeek(-3)
	require.Equal(t, MinWeek, f.StartWeek)

	f = f.WithEndWeek(80)
	require.Equal(t, MaxWeek, f.EndWeek)

	f = f.WithEndWeek(10).WithStartWeek(20)
	require.Equal(t, 20, f.StartWeek)
	require.Equal(t, 20, f.EndWeek)
}

func TestFilterMutatorsDoNotAlias(t *testing.T) {
	original := DefaultFilters()
	changed := original.WithStartYear(1700).WithParishes("St Olave Hart Street")
	require.Equal(t, MinYear, original.StartYear)
	require.Empty(t, original.Parishes)
	require.Equal(t, 1700, changed.StartYear)
}

func TestParishesAreASet(t *testing.T) {
	f := DefaultFilters().WithParishes("St Mary Le Bow", " Allhallows Barking", "St Mary Le Bow", "")
	require.Equal(t, []string{"Allhallows Barking", "St Mary Le Bow"}, f.Parishes)
}

func TestCountTypeAll(t *testing.T) {
	require.Equal(t, "", DefaultFilters().WithCountType("All").CountType)
	require.Equal(t, "buried", DefaultFilters().WithCountType("buried").CountType)
}

func TestNormalize(t *testing.T) {
	f := FilterState{
		BillType:  "General",
		StartYear: 1800,
		EndYear:   1600,
		CountType: "all",
		Parishes:  []string{"b", "a", "b"},
	}
	expected := FilterState{
		BillType:  BillGeneral,
		StartYear: MinYear,
		EndYear:   MinYear,
		StartWeek: MinWeek,
		EndWeek:   MaxWeek,
		Parishes:  []string{"a", "b"},
	}
	diff := cmp.Diff(expected, f.Normalize())
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseBillType(t *testing.T) {
	table := []struct {
		input    string
		expected BillType
		ok       bool
	}{
		{input: "weekly", expected: BillWeekly, ok: true},
		{input: "Weekly", expected: BillWeekly, ok: true},
		{input: " GENERAL ", expected: BillGeneral, ok: true},
		{input: "total", expected: BillTotal, ok: true},
		{input: "monthly", ok: false},
	}
	for _, test := range table {
		billType, ok := ParseBillType(test.input)
		require.Equal(t, test.ok, ok, test.input)
		require.Equal(t, test.expected, billType, test.input)
	}
}

func TestOnDragMove(t *testing.T) {
	f := DefaultFilters().WithYearRange(1650, 1700)

	moved := f.OnDragMove(DragStart, 0)
	require.Equal(t, MinYear, moved.StartYear)
	require.Equal(t, 1700, moved.EndYear)

	// the start handle stops at the end year
	moved = f.OnDragMove(DragStart, 1)
	require.Equal(t, 1700, moved.StartYear)

	// the end handle stops at the start year
	moved = f.OnDragMove(DragEnd, 0)
	require.Equal(t, 1650, moved.EndYear)

	moved = f.OnDragMove(DragEnd, 2)
	require.Equal(t, MaxYear, moved.EndYear)

	require.Equal(t, 1650, f.StartYear)
	require.Equal(t, 1700, f.EndYear)
}

func TestYearAt(t *testing.T) {
	require.Equal(t, MinYear, YearAt(-1))
	require.Equal(t, MaxYear, YearAt(1))
	require.Equal(t, 1695, YearAt(0.5))
}

func TestTabs(t *testing.T) {
	require.Equal(t, BillGeneral, PrimaryYearly.BillType())
	require.Equal(t, PrimaryBreadDeath, PrimaryTabForBillType(BillTotal))
	require.Equal(t, "causes", SecondaryDeaths.Endpoint())
	require.Equal(t, "statistics", SecondaryAges.Endpoint())
	require.True(t, SecondaryParishes.UsesCursor())
	require.False(t, SecondaryChristenings.UsesCursor())
	require.True(t, DefaultTabs().Valid())
	require.False(t, TabSelection{Primary: "annual", Secondary: "weather"}.Valid())
}
