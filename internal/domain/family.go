package domain

import "time"

// StepKey names one field of a FamilyProfile and the wizard step that fills it.
type StepKey string

const (
	StepBasicInfo          StepKey = "basic-info"
	StepDietaryPreferences StepKey = "dietary-preferences"
	StepMembers            StepKey = "members"
	StepActivities         StepKey = "activities"
)

// StepKeys returns the profile keys in wizard order.
func StepKeys() []StepKey {
	return []StepKey{StepBasicInfo, StepDietaryPreferences, StepMembers, StepActivities}
}

type BasicInfo struct {
	FamilyName string
	HomeCity   string
	// TravelType and Budget are optional; empty means "not chosen".
	TravelType TravelType
	Budget     Budget
}

type DietaryPreferences struct {
	Restrictions StringSet
	Allergies    StringSet
	Notes        string
}

type Activities struct {
	Interests StringSet
	Notes     string
}

// FamilyProfile is the aggregate the onboarding wizard builds, one field per
// step. A nil field means its step has not been committed yet.
type FamilyProfile struct {
	BasicInfo          *BasicInfo
	DietaryPreferences *DietaryPreferences
	Members            []Member
	Activities         *Activities
}

// Has reports whether the field for key has been committed.
func (p FamilyProfile) Has(key StepKey) bool {
	switch key {
	case StepBasicInfo:
		return p.BasicInfo != nil
	case StepDietaryPreferences:
		return p.DietaryPreferences != nil
	case StepMembers:
		return p.Members != nil
	case StepActivities:
		return p.Activities != nil
	default:
		return false
	}
}

// Clone returns a deep copy of p.
func (p FamilyProfile) Clone() FamilyProfile {
	out := FamilyProfile{Members: CloneMembers(p.Members)}
	if p.BasicInfo != nil {
		bi := *p.BasicInfo
		out.BasicInfo = &bi
	}
	if p.DietaryPreferences != nil {
		dp := *p.DietaryPreferences
		dp.Restrictions = p.DietaryPreferences.Restrictions.Clone()
		dp.Allergies = p.DietaryPreferences.Allergies.Clone()
		out.DietaryPreferences = &dp
	}
	if p.Activities != nil {
		a := *p.Activities
		a.Interests = p.Activities.Interests.Clone()
		out.Activities = &a
	}
	return out
}

// ProfilePayload is what a step hands back when it commits. Applying it
// replaces exactly one FamilyProfile field, wholesale.
type ProfilePayload interface {
	StepKey() StepKey
	ApplyTo(p *FamilyProfile)
}

func (b BasicInfo) StepKey() StepKey { return StepBasicInfo }

func (b BasicInfo) ApplyTo(p *FamilyProfile) {
	v := b
	p.BasicInfo = &v
}

func (d DietaryPreferences) StepKey() StepKey { return StepDietaryPreferences }

func (d DietaryPreferences) ApplyTo(p *FamilyProfile) {
	v := d
	v.Restrictions = d.Restrictions.Clone()
	v.Allergies = d.Allergies.Clone()
	p.DietaryPreferences = &v
}

// MemberList is the payload of the members step.
type MemberList []Member

func (MemberList) StepKey() StepKey { return StepMembers }

func (l MemberList) ApplyTo(p *FamilyProfile) {
	ms := CloneMembers([]Member(l))
	if ms == nil {
		ms = []Member{}
	}
	p.Members = ms
}

func (a Activities) StepKey() StepKey { return StepActivities }

func (a Activities) ApplyTo(p *FamilyProfile) {
	v := a
	v.Interests = a.Interests.Clone()
	p.Activities = &v
}

// Family is a validated family record stored by the backend.
type Family struct {
	ID      FamilyID
	Profile FamilyProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name returns the family name, or "" if basic info is missing.
func (f Family) Name() string {
	if f.Profile.BasicInfo == nil {
		return ""
	}
	return f.Profile.BasicInfo.FamilyName
}
