package bom

type PrimaryTab string

const (
	PrimaryAnnual     PrimaryTab = "annual"
	PrimaryYearly     PrimaryTab = "yearly"
	PrimaryBreadDeath PrimaryTab = "bread-death"
)

var PrimaryTabs = []PrimaryTab{PrimaryAnnual, PrimaryYearly, PrimaryBreadDeath}

func ParsePrimaryTab(s string) (PrimaryTab, bool) {
	for _, tab := range PrimaryTabs {
		if string(tab) == s {
			return tab, true
		}
	}
	return "", false
}

// BillType is the kind of bill the tab's data is drawn from.
func (t PrimaryTab) BillType() BillType {
	switch t {
	case PrimaryYearly:
		return BillGeneral
	case PrimaryBreadDeath:
		return BillTotal
	default:
		return BillWeekly
	}
}

func (t PrimaryTab) Label() string {
	switch t {
	case PrimaryYearly:
		return "Yearly bills"
	case PrimaryBreadDeath:
		return "Bread & deaths"
	default:
		return "Weekly bills"
	}
}

func PrimaryTabForBillType(billType BillType) PrimaryTab {
	switch billType {
	case BillGeneral:
		return PrimaryYearly
	case BillTotal:
		return PrimaryBreadDeath
	default:
		return PrimaryAnnual
	}
}

type SecondaryTab string

const (
	SecondaryParishes     SecondaryTab = "parishes"
	SecondaryDeaths       SecondaryTab = "deaths"
	SecondaryChristenings SecondaryTab = "christenings"
	SecondaryFoodstuffs   SecondaryTab = "foodstuffs"
	SecondaryAges         SecondaryTab = "ages"
)

var SecondaryTabs = []SecondaryTab{
	SecondaryParishes,
	SecondaryDeaths,
	SecondaryChristenings,
	SecondaryFoodstuffs,
	SecondaryAges,
}

func ParseSecondaryTab(s string) (SecondaryTab, bool) {
	for _, tab := range SecondaryTabs {
		if string(tab) == s {
			return tab, true
		}
	}
	return "", false
}

// Endpoint is the API endpoint that serves the tab's rows.
func (t SecondaryTab) Endpoint() string {
	switch t {
	case SecondaryDeaths:
		return "causes"
	case SecondaryChristenings:
		return "christenings"
	case SecondaryFoodstuffs, SecondaryAges:
		return "statistics"
	default:
		return "bills"
	}
}

// UsesCursor reports whether the endpoint serves cursor-paginated envelopes.
func (t SecondaryTab) UsesCursor() bool {
	return t == SecondaryParishes
}

func (t SecondaryTab) Label() string {
	switch t {
	case SecondaryDeaths:
		return "Causes of death"
	case SecondaryChristenings:
		return "Christenings"
	case SecondaryFoodstuffs:
		return "Foodstuffs"
	case SecondaryAges:
		return "Ages"
	default:
		return "Parishes"
	}
}

// TabSelection is the active pair of tabs, changing either one reloads data.
type TabSelection struct {
	Primary   PrimaryTab
	Secondary SecondaryTab
}

func DefaultTabs() TabSelection {
	return TabSelection{Primary: PrimaryAnnual, Secondary: SecondaryParishes}
}

func (t TabSelection) Valid() bool {
	_, okPrimary := ParsePrimaryTab(string(t.Primary))
	_, okSecondary := ParseSecondaryTab(string(t.Secondary))
	return okPrimary && okSecondary
}
