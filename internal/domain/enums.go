package domain

// Role is the family role of a member. The label set differs between screens,
// so both "Parent" and "Adult" are accepted for grown-ups.
type Role string

const (
	RoleParent      Role = "Parent"
	RoleAdult       Role = "Adult"
	RoleGrandparent Role = "Grandparent"
	RoleChild       Role = "Child"
	RoleOther       Role = "Other"
)

// RoleCategory selects the shape of a member's preference subtree.
type RoleCategory string

const (
	RoleCategoryNone  RoleCategory = ""
	RoleCategoryAdult RoleCategory = "ADULT"
	RoleCategoryChild RoleCategory = "CHILD"
)

var knownRoles = []Role{RoleParent, RoleAdult, RoleGrandparent, RoleChild, RoleOther}

// Roles returns the closed set of member roles in display order.
func Roles() []Role { return append([]Role(nil), knownRoles...) }

func (r Role) Valid() bool { return oneOf(r, knownRoles) }

func (r Role) Category() RoleCategory {
	switch {
	case r == RoleChild:
		return RoleCategoryChild
	case r.Valid():
		return RoleCategoryAdult
	default:
		return RoleCategoryNone
	}
}

type ComfortLevel string

const (
	ComfortLevelRelaxed     ComfortLevel = "Relaxed"
	ComfortLevelModerate    ComfortLevel = "Moderate"
	ComfortLevelAdventurous ComfortLevel = "Adventurous"
)

var knownComfortLevels = []ComfortLevel{ComfortLevelRelaxed, ComfortLevelModerate, ComfortLevelAdventurous}

func ComfortLevels() []ComfortLevel { return append([]ComfortLevel(nil), knownComfortLevels...) }

func (c ComfortLevel) Valid() bool { return oneOf(c, knownComfortLevels) }

type PacePreference string

const (
	PaceSlow     PacePreference = "Slow"
	PaceBalanced PacePreference = "Balanced"
	PacePacked   PacePreference = "Packed"
)

var knownPaces = []PacePreference{PaceSlow, PaceBalanced, PacePacked}

func PacePreferences() []PacePreference { return append([]PacePreference(nil), knownPaces...) }

func (p PacePreference) Valid() bool { return oneOf(p, knownPaces) }

type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "Low"
	EnergyMedium EnergyLevel = "Medium"
	EnergyHigh   EnergyLevel = "High"
)

var knownEnergyLevels = []EnergyLevel{EnergyLow, EnergyMedium, EnergyHigh}

func EnergyLevels() []EnergyLevel { return append([]EnergyLevel(nil), knownEnergyLevels...) }

func (e EnergyLevel) Valid() bool { return oneOf(e, knownEnergyLevels) }

type TravelType string

const (
	TravelTypeBeach       TravelType = "Beach"
	TravelTypeMountain    TravelType = "Mountain"
	TravelTypeCity        TravelType = "City"
	TravelTypeCountryside TravelType = "Countryside"
	TravelTypeCruise      TravelType = "Cruise"
	TravelTypeRoadTrip    TravelType = "RoadTrip"
)

var knownTravelTypes = []TravelType{
	TravelTypeBeach,
	TravelTypeMountain,
	TravelTypeCity,
	TravelTypeCountryside,
	TravelTypeCruise,
	TravelTypeRoadTrip,
}

func TravelTypes() []TravelType { return append([]TravelType(nil), knownTravelTypes...) }

func (t TravelType) Valid() bool { return oneOf(t, knownTravelTypes) }

type Budget string

const (
	BudgetEconomy  Budget = "Economy"
	BudgetModerate Budget = "Moderate"
	BudgetComfort  Budget = "Comfort"
	BudgetLuxury   Budget = "Luxury"
)

var knownBudgets = []Budget{BudgetEconomy, BudgetModerate, BudgetComfort, BudgetLuxury}

func Budgets() []Budget { return append([]Budget(nil), knownBudgets...) }

func (b Budget) Valid() bool { return oneOf(b, knownBudgets) }

func oneOf[T comparable](v T, set []T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
