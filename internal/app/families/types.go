package families

// ProfileInput is an unvalidated family profile as received from a client.
// Enumerations are plain strings here; validation turns them into domain types.
type ProfileInput struct {
	BasicInfo          *BasicInfoInput
	DietaryPreferences *DietaryPreferencesInput
	Members            []MemberInput
	Activities         *ActivitiesInput
}

type BasicInfoInput struct {
	FamilyName string
	HomeCity   string
	TravelType string
	Budget     string
}

type DietaryPreferencesInput struct {
	Restrictions []string
	Allergies    []string
	Notes        string
}

type ActivitiesInput struct {
	Interests []string
	Notes     string
}

type MemberInput struct {
	// ID is optional; members without one are assigned a fresh ID.
	ID   string
	Name string
	Age  string
	Role string

	DietaryRestrictions []string

	// At most one of these may be set, and it must match Role.
	AdultPreferences *AdultPreferencesInput
	ChildPreferences *ChildPreferencesInput
}

type AdultPreferencesInput struct {
	TravelExperience   []string
	Interests          []string
	ComfortLevel       string
	PacePreference     string
	AccommodationStyle []string
}

type ChildPreferencesInput struct {
	Interests     []string
	EnergyLevel   string
	AttentionSpan []string
	ComfortItems  []string
	SpecialNeeds  []string
}
