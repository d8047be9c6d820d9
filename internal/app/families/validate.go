package families

import (
	"fmt"
	"strings"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

// buildProfile validates in and returns the normalized profile. All field
// problems are reported together, keyed by JSON-style field path.
func buildProfile(in ProfileInput, newMemberID func() domain.MemberID) (domain.FamilyProfile, error) {
	v := fieldErrors{}
	var out domain.FamilyProfile

	if in.BasicInfo == nil {
		v.add("basicInfo", "is required")
	} else {
		bi := domain.BasicInfo{
			FamilyName: domain.NormalizeHumanName(in.BasicInfo.FamilyName),
			HomeCity:   domain.NormalizeHumanName(in.BasicInfo.HomeCity),
			TravelType: domain.TravelType(strings.TrimSpace(in.BasicInfo.TravelType)),
			Budget:     domain.Budget(strings.TrimSpace(in.BasicInfo.Budget)),
		}
		if bi.FamilyName == "" {
			v.add("basicInfo.familyName", "must be non-empty")
		}
		if bi.TravelType != "" && !bi.TravelType.Valid() {
			v.add("basicInfo.travelType", apperr.OneOf(domain.TravelTypes()))
		}
		if bi.Budget != "" && !bi.Budget.Valid() {
			v.add("basicInfo.budget", apperr.OneOf(domain.Budgets()))
		}
		out.BasicInfo = &bi
	}

	if in.DietaryPreferences != nil {
		out.DietaryPreferences = &domain.DietaryPreferences{
			Restrictions: domain.NewStringSet(in.DietaryPreferences.Restrictions...),
			Allergies:    domain.NewStringSet(in.DietaryPreferences.Allergies...),
			Notes:        strings.TrimSpace(in.DietaryPreferences.Notes),
		}
	}
	if in.Activities != nil {
		out.Activities = &domain.Activities{
			Interests: domain.NewStringSet(in.Activities.Interests...),
			Notes:     strings.TrimSpace(in.Activities.Notes),
		}
	}

	if len(in.Members) == 0 {
		v.add("members", "at least one member required")
	}
	seen := make(map[domain.MemberID]int, len(in.Members))
	out.Members = make([]domain.Member, 0, len(in.Members))
	for i, mi := range in.Members {
		prefix := fmt.Sprintf("members[%d]", i)
		m := buildMember(prefix, mi, v)
		if m.ID != "" {
			if j, dup := seen[m.ID]; dup {
				v.add(prefix+".id", fmt.Sprintf("duplicates members[%d].id", j))
			}
			seen[m.ID] = i
		}
		out.Members = append(out.Members, m)
	}

	if len(v) > 0 {
		return domain.FamilyProfile{}, apperr.Validation("invalid family", v)
	}

	for i := range out.Members {
		if out.Members[i].ID != "" {
			continue
		}
		for {
			id := newMemberID()
			if _, taken := seen[id]; !taken {
				seen[id] = i
				out.Members[i].ID = id
				break
			}
		}
	}
	return out, nil
}

func buildMember(prefix string, in MemberInput, v fieldErrors) domain.Member {
	m := domain.Member{
		ID:                  domain.MemberID(strings.TrimSpace(in.ID)),
		Name:                domain.NormalizeHumanName(in.Name),
		Age:                 strings.TrimSpace(in.Age),
		Role:                domain.Role(strings.TrimSpace(in.Role)),
		DietaryRestrictions: domain.NewStringSet(in.DietaryRestrictions...),
	}
	if m.Name == "" {
		v.add(prefix+".name", "must be non-empty")
	}
	if m.Age == "" {
		v.add(prefix+".age", "must be non-empty")
	}
	switch {
	case m.Role == "":
		v.add(prefix+".role", "must be non-empty")
	case !m.Role.Valid():
		v.add(prefix+".role", apperr.OneOf(domain.Roles()))
	}

	if in.AdultPreferences != nil && in.ChildPreferences != nil {
		v.add(prefix, "adultPreferences and childPreferences are mutually exclusive")
		return m
	}

	cat := m.Role.Category()
	switch {
	case in.AdultPreferences != nil:
		if cat != domain.RoleCategoryAdult {
			v.add(prefix+".adultPreferences", fmt.Sprintf("not allowed for role %q", m.Role))
			return m
		}
		m.Preferences = buildAdult(prefix+".adultPreferences", *in.AdultPreferences, v)
	case in.ChildPreferences != nil:
		if cat != domain.RoleCategoryChild {
			v.add(prefix+".childPreferences", fmt.Sprintf("not allowed for role %q", m.Role))
			return m
		}
		m.Preferences = buildChild(prefix+".childPreferences", *in.ChildPreferences, v)
	default:
		m.Preferences = domain.EmptyPreferences(cat)
	}
	return m
}

func buildAdult(prefix string, in AdultPreferencesInput, v fieldErrors) *domain.AdultPreferences {
	p := &domain.AdultPreferences{
		TravelExperience:   domain.NewStringSet(in.TravelExperience...),
		Interests:          domain.NewStringSet(in.Interests...),
		ComfortLevel:       domain.ComfortLevel(strings.TrimSpace(in.ComfortLevel)),
		PacePreference:     domain.PacePreference(strings.TrimSpace(in.PacePreference)),
		AccommodationStyle: domain.NewStringSet(in.AccommodationStyle...),
	}
	if p.ComfortLevel != "" && !p.ComfortLevel.Valid() {
		v.add(prefix+".comfortLevel", apperr.OneOf(domain.ComfortLevels()))
	}
	if p.PacePreference != "" && !p.PacePreference.Valid() {
		v.add(prefix+".pacePreference", apperr.OneOf(domain.PacePreferences()))
	}
	return p
}

func buildChild(prefix string, in ChildPreferencesInput, v fieldErrors) *domain.ChildPreferences {
	p := &domain.ChildPreferences{
		Interests:     domain.NewStringSet(in.Interests...),
		EnergyLevel:   domain.EnergyLevel(strings.TrimSpace(in.EnergyLevel)),
		AttentionSpan: domain.NewStringSet(in.AttentionSpan...),
		ComfortItems:  domain.NewStringSet(in.ComfortItems...),
		SpecialNeeds:  domain.NewStringSet(in.SpecialNeeds...),
	}
	if p.EnergyLevel != "" && !p.EnergyLevel.Valid() {
		v.add(prefix+".energyLevel", apperr.OneOf(domain.EnergyLevels()))
	}
	return p
}

type fieldErrors map[string]string

// add keeps the first message reported for a field.
func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}
