package urlstate

import "bom-dashboard/internal/bom"

// Older links address tabs by a single number:
//
//	1 weekly bills, 2 general bills, 3 causes of death,
//	4 christenings, 5 foodstuffs
var legacyTabs = []bom.TabSelection{
	{Primary: bom.PrimaryAnnual, Secondary: bom.SecondaryParishes},
	{Primary: bom.PrimaryYearly, Secondary: bom.SecondaryParishes},
	{Primary: bom.PrimaryAnnual, Secondary: bom.SecondaryDeaths},
	{Primary: bom.PrimaryAnnual, Secondary: bom.SecondaryChristenings},
	{Primary: bom.PrimaryAnnual, Secondary: bom.SecondaryFoodstuffs},
}

func FromLegacyIndex(index int) (bom.TabSelection, bool) {
	if index < 1 || index > len(legacyTabs) {
		return bom.TabSelection{}, false
	}
	return legacyTabs[index-1], true
}

// LegacyIndex is the closest numeric tab for a selection.
func LegacyIndex(tabs bom.TabSelection) int {
	switch tabs.Secondary {
	case bom.SecondaryDeaths:
		return 3
	case bom.SecondaryChristenings:
		return 4
	case bom.SecondaryFoodstuffs, bom.SecondaryAges:
		return 5
	}
	if tabs.Primary == bom.PrimaryYearly {
		return 2
	}
	return 1
}
