// Package urlstate converts between query strings and dashboard state.
package urlstate

import (
	"net/url"
	"strconv"
	"strings"

	"bom-dashboard/internal/bom"
)

const (
	keyStartYear    = "start-year"
	keyEndYear      = "end-year"
	keyStartWeek    = "start-week"
	keyEndWeek      = "end-week"
	keyCountType    = "count-type"
	keyParish       = "parish"
	keyPage         = "page"
	keyBillType     = "bill-type"
	keyPrimaryTab   = "primary-tab"
	keySecondaryTab = "secondary-tab"
	keyLegacyTab    = "tab"
	keyCauses       = "causes"
	keyChristenings = "christenings"
)

// State is everything the address bar persists.
type State struct {
	Filters   bom.FilterState
	Page      int
	UseCursor bool
	Tabs      bom.TabSelection
}

func Default() State {
	return State{
		Filters:   bom.DefaultFilters(),
		Page:      1,
		UseCursor: true,
		Tabs:      bom.DefaultTabs(),
	}
}

func parseInt(q url.Values, key string) (int, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseList(q url.Values, key string) []string {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Parse reads a query string into State. It never fails, malformed values
// fall back to their defaults and out of range values are clamped.
func Parse(q url.Values) State {
	state := Default()
	f := state.Filters

	if billType, ok := bom.ParseBillType(q.Get(keyBillType)); ok {
		f = f.WithBillType(billType)
	}
	if year, ok := parseInt(q, keyStartYear); ok {
		f = f.WithStartYear(year)
	}
	if year, ok := parseInt(q, keyEndYear); ok {
		f = f.WithEndYear(year)
	}
	if week, ok := parseInt(q, keyStartWeek); ok {
		f = f.WithStartWeek(week)
	}
	if week, ok := parseInt(q, keyEndWeek); ok {
		f = f.WithEndWeek(week)
	}
	f = f.WithCountType(q.Get(keyCountType))
	f = f.WithParishes(parseList(q, keyParish)...)
	f = f.WithCauses(parseList(q, keyCauses)...)
	f = f.WithChristenings(parseList(q, keyChristenings)...)

	if page, ok := parseInt(q, keyPage); ok && page > 1 {
		state.Page = page
	}

	state.Tabs = parseTabs(q, f.BillType)
	// the primary tab decides which bills are shown
	f = f.WithBillType(state.Tabs.Primary.BillType())
	state.Filters = f
	return state
}

func parseTabs(q url.Values, billType bom.BillType) bom.TabSelection {
	tabs := bom.DefaultTabs()
	tabs.Primary = bom.PrimaryTabForBillType(billType)

	primary, hasPrimary := bom.ParsePrimaryTab(q.Get(keyPrimaryTab))
	secondary, hasSecondary := bom.ParseSecondaryTab(q.Get(keySecondaryTab))
	if hasPrimary || hasSecondary {
		if hasPrimary {
			tabs.Primary = primary
		}
		if hasSecondary {
			tabs.Secondary = secondary
		}
		return tabs
	}

	if index, ok := parseInt(q, keyLegacyTab); ok {
		if legacy, ok := FromLegacyIndex(index); ok {
			// only the first two legacy tabs carried a bill type of their own
			if legacy.Secondary != bom.SecondaryParishes {
				legacy.Primary = tabs.Primary
			}
			return legacy
		}
	}
	return tabs
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

// Encode writes State as query parameters, leaving out defaults.
func Encode(s State) url.Values {
	q := url.Values{}
	f := s.Filters
	defaults := bom.DefaultFilters()

	if f.StartYear != defaults.StartYear {
		q.Set(keyStartYear, strconv.Itoa(f.StartYear))
	}
	if f.EndYear != defaults.EndYear {
		q.Set(keyEndYear, strconv.Itoa(f.EndYear))
	}
	if f.StartWeek != defaults.StartWeek {
		q.Set(keyStartWeek, strconv.Itoa(f.StartWeek))
	}
	if f.EndWeek != defaults.EndWeek {
		q.Set(keyEndWeek, strconv.Itoa(f.EndWeek))
	}
	if f.CountType != "" && f.CountType != bom.CountTypeAll {
		q.Set(keyCountType, f.CountType)
	}
	if len(f.Parishes) > 0 {
		q.Set(keyParish, joinList(f.Parishes))
	}
	if len(f.CausesOfDeath) > 0 {
		q.Set(keyCauses, joinList(f.CausesOfDeath))
	}
	if len(f.Christenings) > 0 {
		q.Set(keyChristenings, joinList(f.Christenings))
	}
	if s.Page > 1 || (s.Page == 1 && !s.UseCursor) {
		q.Set(keyPage, strconv.Itoa(s.Page))
	}
	if f.BillType != "" {
		q.Set(keyBillType, string(f.BillType))
	}

	q.Set(keyPrimaryTab, string(s.Tabs.Primary))
	q.Set(keySecondaryTab, string(s.Tabs.Secondary))
	q.Set(keyLegacyTab, strconv.Itoa(LegacyIndex(s.Tabs)))
	return q
}
