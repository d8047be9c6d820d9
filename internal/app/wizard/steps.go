package wizard

import (
	"strings"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/roster"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

// NewFamilyWizard builds the onboarding sequence: basic info, dietary
// preferences, members, activities.
func NewFamilyWizard(r *roster.Roster, submitter Submitter) (*Sequencer, *FamilySteps, error) {
	fs := &FamilySteps{
		BasicInfo:  &BasicInfoStep{},
		Dietary:    &DietaryStep{},
		Members:    NewMembersStep(r),
		Activities: &ActivitiesStep{},
	}
	seq, err := NewSequencer(submitter, fs.BasicInfo, fs.Dietary, fs.Members, fs.Activities)
	if err != nil {
		return nil, nil, err
	}
	return seq, fs, nil
}

// FamilySteps gives typed access to the editors of the family wizard.
type FamilySteps struct {
	BasicInfo  *BasicInfoStep
	Dietary    *DietaryStep
	Members    *MembersStep
	Activities *ActivitiesStep
}

// Prefill seeds every editor from a previously saved profile. Nothing is
// committed; each step still has to be passed through.
func (fs *FamilySteps) Prefill(p domain.FamilyProfile) {
	p = p.Clone()
	if p.BasicInfo != nil {
		fs.BasicInfo.Load(*p.BasicInfo)
	}
	if p.DietaryPreferences != nil {
		fs.Dietary.Load(*p.DietaryPreferences)
	}
	if p.Members != nil {
		fs.Members.Roster().Load(p.Members)
	}
	if p.Activities != nil {
		fs.Activities.Load(*p.Activities)
	}
}

// BasicInfoStep edits the family's name, home city, travel type and budget.
type BasicInfoStep struct {
	draft domain.BasicInfo
}

func (*BasicInfoStep) Key() domain.StepKey { return domain.StepBasicInfo }
func (*BasicInfoStep) Title() string       { return "About your family" }

func (s *BasicInfoStep) Draft() domain.BasicInfo { return s.draft }

func (s *BasicInfoStep) SetFamilyName(v string)            { s.draft.FamilyName = v }
func (s *BasicInfoStep) SetHomeCity(v string)              { s.draft.HomeCity = v }
func (s *BasicInfoStep) SetTravelType(v domain.TravelType) { s.draft.TravelType = v }
func (s *BasicInfoStep) SetBudget(v domain.Budget)         { s.draft.Budget = v }
func (s *BasicInfoStep) Load(v domain.BasicInfo)           { s.draft = v }

func (s *BasicInfoStep) Commit() (domain.ProfilePayload, error) {
	out := domain.BasicInfo{
		FamilyName: domain.NormalizeHumanName(s.draft.FamilyName),
		HomeCity:   domain.NormalizeHumanName(s.draft.HomeCity),
		TravelType: s.draft.TravelType,
		Budget:     s.draft.Budget,
	}
	fields := map[string]string{}
	if out.FamilyName == "" {
		fields["familyName"] = "must be non-empty"
	}
	if out.TravelType != "" && !out.TravelType.Valid() {
		fields["travelType"] = "unknown travel type"
	}
	if out.Budget != "" && !out.Budget.Valid() {
		fields["budget"] = "unknown budget"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid basic info", fields)
	}
	return out, nil
}

// DietaryStep edits family-wide restrictions and allergies. Nothing is required.
type DietaryStep struct {
	draft domain.DietaryPreferences
}

func (*DietaryStep) Key() domain.StepKey { return domain.StepDietaryPreferences }
func (*DietaryStep) Title() string       { return "Dietary preferences" }

func (s *DietaryStep) Draft() domain.DietaryPreferences { return s.draft }
func (s *DietaryStep) Load(v domain.DietaryPreferences) { s.draft = v }

func (s *DietaryStep) ToggleRestriction(v string) { s.draft.Restrictions = toggle(s.draft.Restrictions, v) }
func (s *DietaryStep) ToggleAllergy(v string)     { s.draft.Allergies = toggle(s.draft.Allergies, v) }
func (s *DietaryStep) SetNotes(v string)          { s.draft.Notes = v }

func (s *DietaryStep) Commit() (domain.ProfilePayload, error) {
	return domain.DietaryPreferences{
		Restrictions: s.draft.Restrictions.Clone(),
		Allergies:    s.draft.Allergies.Clone(),
		Notes:        strings.TrimSpace(s.draft.Notes),
	}, nil
}

// MembersStep wraps a roster. It refuses to advance until at least one member
// has been committed.
type MembersStep struct {
	roster *roster.Roster
}

func NewMembersStep(r *roster.Roster) *MembersStep {
	if r == nil {
		r = roster.New(nil)
	}
	return &MembersStep{roster: r}
}

func (*MembersStep) Key() domain.StepKey { return domain.StepMembers }
func (*MembersStep) Title() string       { return "Who is travelling" }

func (s *MembersStep) Roster() *roster.Roster { return s.roster }

func (s *MembersStep) Commit() (domain.ProfilePayload, error) {
	if s.roster.Len() < 1 {
		return nil, apperr.Validation("invalid members", map[string]string{
			"members": "at least one member required",
		})
	}
	return domain.MemberList(s.roster.Members()), nil
}

// ActivitiesStep collects the activities the family wants. Nothing is required.
type ActivitiesStep struct {
	draft domain.Activities
}

func (*ActivitiesStep) Key() domain.StepKey { return domain.StepActivities }
func (*ActivitiesStep) Title() string       { return "Activities" }

func (s *ActivitiesStep) Draft() domain.Activities { return s.draft }
func (s *ActivitiesStep) Load(v domain.Activities) { s.draft = v }

func (s *ActivitiesStep) ToggleInterest(v string) { s.draft.Interests = toggle(s.draft.Interests, v) }
func (s *ActivitiesStep) SetNotes(v string)       { s.draft.Notes = v }

func (s *ActivitiesStep) Commit() (domain.ProfilePayload, error) {
	return domain.Activities{
		Interests: s.draft.Interests.Clone(),
		Notes:     strings.TrimSpace(s.draft.Notes),
	}, nil
}

func toggle(set domain.StringSet, v string) domain.StringSet {
	v = strings.TrimSpace(v)
	if v == "" {
		return set
	}
	return set.Toggle(v)
}
