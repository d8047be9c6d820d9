package domain

// Preferences is the role-specific preference subtree of a member.
// It is implemented only by *AdultPreferences and *ChildPreferences, so a
// member can never carry both shapes at once.
type Preferences interface {
	Category() RoleCategory
	clonePreferences() Preferences
}

// AdultPreferences is the subtree used by Parent, Adult, Grandparent and Other.
type AdultPreferences struct {
	TravelExperience   StringSet
	Interests          StringSet
	ComfortLevel       ComfortLevel
	PacePreference     PacePreference
	AccommodationStyle StringSet
}

func (*AdultPreferences) Category() RoleCategory { return RoleCategoryAdult }

func (p *AdultPreferences) clonePreferences() Preferences {
	if p == nil {
		return nil
	}
	out := *p
	out.TravelExperience = p.TravelExperience.Clone()
	out.Interests = p.Interests.Clone()
	out.AccommodationStyle = p.AccommodationStyle.Clone()
	return &out
}

// ChildPreferences is the subtree used by Child.
type ChildPreferences struct {
	Interests     StringSet
	EnergyLevel   EnergyLevel
	AttentionSpan StringSet
	ComfortItems  StringSet
	SpecialNeeds  StringSet
}

func (*ChildPreferences) Category() RoleCategory { return RoleCategoryChild }

func (p *ChildPreferences) clonePreferences() Preferences {
	if p == nil {
		return nil
	}
	out := *p
	out.Interests = p.Interests.Clone()
	out.AttentionSpan = p.AttentionSpan.Clone()
	out.ComfortItems = p.ComfortItems.Clone()
	out.SpecialNeeds = p.SpecialNeeds.Clone()
	return &out
}

// EmptyPreferences returns the empty default subtree for a role category,
// or nil when the category has no subtree.
func EmptyPreferences(c RoleCategory) Preferences {
	switch c {
	case RoleCategoryAdult:
		return &AdultPreferences{
			TravelExperience:   StringSet{},
			Interests:          StringSet{},
			AccommodationStyle: StringSet{},
		}
	case RoleCategoryChild:
		return &ChildPreferences{
			Interests:     StringSet{},
			AttentionSpan: StringSet{},
			ComfortItems:  StringSet{},
			SpecialNeeds:  StringSet{},
		}
	default:
		return nil
	}
}

// Member is one person in a family roster.
type Member struct {
	ID   MemberID
	Name string
	// Age is free-form ("7", "34", "18 months").
	Age  string
	Role Role

	DietaryRestrictions StringSet

	// Preferences is nil until a role is chosen.
	Preferences Preferences
}

// Adult returns the adult subtree, if that is the shape the member holds.
func (m Member) Adult() (*AdultPreferences, bool) {
	p, ok := m.Preferences.(*AdultPreferences)
	return p, ok && p != nil
}

// Child returns the child subtree, if that is the shape the member holds.
func (m Member) Child() (*ChildPreferences, bool) {
	p, ok := m.Preferences.(*ChildPreferences)
	return p, ok && p != nil
}

// ShapeMatchesRole reports whether the preference subtree agrees with the role.
// A member without a role must have no subtree.
func (m Member) ShapeMatchesRole() bool {
	want := m.Role.Category()
	if m.Preferences == nil {
		return want == RoleCategoryNone
	}
	return m.Preferences.Category() == want
}

// Clone returns a deep copy of m.
func (m Member) Clone() Member {
	out := m
	out.DietaryRestrictions = m.DietaryRestrictions.Clone()
	if m.Preferences != nil {
		out.Preferences = m.Preferences.clonePreferences()
	}
	return out
}

func CloneMembers(ms []Member) []Member {
	if ms == nil {
		return nil
	}
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Clone())
	}
	return out
}
