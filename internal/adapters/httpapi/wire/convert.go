package wire

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/families"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

// ProfileFromDomain renders a profile for the wire.
func ProfileFromDomain(p domain.FamilyProfile) FamilyProfile {
	out := FamilyProfile{Members: make([]Member, 0, len(p.Members))}
	if bi := p.BasicInfo; bi != nil {
		out.BasicInfo = &BasicInfo{
			FamilyName: bi.FamilyName,
			HomeCity:   optionalString(bi.HomeCity),
			TravelType: optionalString(string(bi.TravelType)),
			Budget:     optionalString(string(bi.Budget)),
		}
	}
	if dp := p.DietaryPreferences; dp != nil {
		out.DietaryPreferences = &DietaryPreferences{
			Restrictions: nonNil(dp.Restrictions),
			Allergies:    nonNil(dp.Allergies),
			Notes:        optionalString(dp.Notes),
		}
	}
	if a := p.Activities; a != nil {
		out.Activities = &Activities{
			Interests: nonNil(a.Interests),
			Notes:     optionalString(a.Notes),
		}
	}
	for _, m := range p.Members {
		out.Members = append(out.Members, memberFromDomain(m))
	}
	return out
}

func memberFromDomain(m domain.Member) Member {
	out := Member{
		Name:                m.Name,
		Age:                 m.Age,
		Role:                string(m.Role),
		DietaryRestrictions: nonNil(m.DietaryRestrictions),
	}
	if m.ID != "" {
		id := string(m.ID)
		out.Id = &id
	}
	if a, ok := m.Adult(); ok {
		out.AdultPreferences = &AdultPreferences{
			TravelExperience:   nonNil(a.TravelExperience),
			Interests:          nonNil(a.Interests),
			ComfortLevel:       optionalString(string(a.ComfortLevel)),
			PacePreference:     optionalString(string(a.PacePreference)),
			AccommodationStyle: nonNil(a.AccommodationStyle),
		}
	}
	if c, ok := m.Child(); ok {
		out.ChildPreferences = &ChildPreferences{
			Interests:     nonNil(c.Interests),
			EnergyLevel:   optionalString(string(c.EnergyLevel)),
			AttentionSpan: nonNil(c.AttentionSpan),
			ComfortItems:  nonNil(c.ComfortItems),
			SpecialNeeds:  nonNil(c.SpecialNeeds),
		}
	}
	return out
}

// FamilyFromDomain renders a stored family. Family IDs are UUIDs.
func FamilyFromDomain(f domain.Family) (Family, error) {
	id, err := uuid.Parse(string(f.ID))
	if err != nil {
		return Family{}, fmt.Errorf("family id %q: %w", f.ID, err)
	}
	return Family{
		FamilyId:  id,
		Profile:   ProfileFromDomain(f.Profile),
		CreatedAt: f.CreatedAt.UTC(),
		UpdatedAt: f.UpdatedAt.UTC(),
	}, nil
}

// ToInput converts a request body into the families service input.
// Explicit nulls and absent optional fields both read as "".
func (p FamilyProfile) ToInput() families.ProfileInput {
	var in families.ProfileInput
	if bi := p.BasicInfo; bi != nil {
		in.BasicInfo = &families.BasicInfoInput{
			FamilyName: bi.FamilyName,
			HomeCity:   stringOrEmpty(bi.HomeCity),
			TravelType: stringOrEmpty(bi.TravelType),
			Budget:     stringOrEmpty(bi.Budget),
		}
	}
	if dp := p.DietaryPreferences; dp != nil {
		in.DietaryPreferences = &families.DietaryPreferencesInput{
			Restrictions: dp.Restrictions,
			Allergies:    dp.Allergies,
			Notes:        stringOrEmpty(dp.Notes),
		}
	}
	if a := p.Activities; a != nil {
		in.Activities = &families.ActivitiesInput{
			Interests: a.Interests,
			Notes:     stringOrEmpty(a.Notes),
		}
	}
	for _, m := range p.Members {
		mi := families.MemberInput{
			Name:                m.Name,
			Age:                 m.Age,
			Role:                m.Role,
			DietaryRestrictions: m.DietaryRestrictions,
		}
		if m.Id != nil {
			mi.ID = *m.Id
		}
		if a := m.AdultPreferences; a != nil {
			mi.AdultPreferences = &families.AdultPreferencesInput{
				TravelExperience:   a.TravelExperience,
				Interests:          a.Interests,
				ComfortLevel:       stringOrEmpty(a.ComfortLevel),
				PacePreference:     stringOrEmpty(a.PacePreference),
				AccommodationStyle: a.AccommodationStyle,
			}
		}
		if c := m.ChildPreferences; c != nil {
			mi.ChildPreferences = &families.ChildPreferencesInput{
				Interests:     c.Interests,
				EnergyLevel:   stringOrEmpty(c.EnergyLevel),
				AttentionSpan: c.AttentionSpan,
				ComfortItems:  c.ComfortItems,
				SpecialNeeds:  c.SpecialNeeds,
			}
		}
		in.Members = append(in.Members, mi)
	}
	return in
}

func optionalString(s string) nullable.Nullable[string] {
	if s == "" {
		return nil
	}
	return nullable.NewNullableWithValue(s)
}

func stringOrEmpty(n nullable.Nullable[string]) string {
	if !n.IsSpecified() || n.IsNull() {
		return ""
	}
	v, err := n.Get()
	if err != nil {
		return ""
	}
	return v
}

func nonNil(s domain.StringSet) []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}
