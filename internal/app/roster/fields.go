package roster

import (
	"strings"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

// FieldPath addresses an editable draft field, using the JSON field names.
type FieldPath string

const (
	FieldDietaryRestrictions FieldPath = "dietaryRestrictions"

	FieldAdultTravelExperience   FieldPath = "adultPreferences.travelExperience"
	FieldAdultInterests          FieldPath = "adultPreferences.interests"
	FieldAdultComfortLevel       FieldPath = "adultPreferences.comfortLevel"
	FieldAdultPacePreference     FieldPath = "adultPreferences.pacePreference"
	FieldAdultAccommodationStyle FieldPath = "adultPreferences.accommodationStyle"

	FieldChildInterests     FieldPath = "childPreferences.interests"
	FieldChildEnergyLevel   FieldPath = "childPreferences.energyLevel"
	FieldChildAttentionSpan FieldPath = "childPreferences.attentionSpan"
	FieldChildComfortItems  FieldPath = "childPreferences.comfortItems"
	FieldChildSpecialNeeds  FieldPath = "childPreferences.specialNeeds"
)

// ToggleSetField inserts value into the set at path if absent, or removes it
// if present.
func (r *Roster) ToggleSetField(path FieldPath, value string) error {
	d, err := r.requireDraft()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return apperr.Field(string(path), "value must be non-empty")
	}
	set, err := setFieldOf(d, path)
	if err != nil {
		return err
	}
	*set = set.Toggle(value)
	return nil
}

// SetEnumField overwrites a scalar preference. An empty value clears it.
func (r *Roster) SetEnumField(path FieldPath, value string) error {
	d, err := r.requireDraft()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch path {
	case FieldAdultComfortLevel, FieldAdultPacePreference:
		a, ok := d.Adult()
		if !ok {
			return unavailable(path)
		}
		if path == FieldAdultComfortLevel {
			v := domain.ComfortLevel(value)
			if v != "" && !v.Valid() {
				return oneOfError(path, domain.ComfortLevels())
			}
			a.ComfortLevel = v
			return nil
		}
		v := domain.PacePreference(value)
		if v != "" && !v.Valid() {
			return oneOfError(path, domain.PacePreferences())
		}
		a.PacePreference = v
		return nil
	case FieldChildEnergyLevel:
		c, ok := d.Child()
		if !ok {
			return unavailable(path)
		}
		v := domain.EnergyLevel(value)
		if v != "" && !v.Valid() {
			return oneOfError(path, domain.EnergyLevels())
		}
		c.EnergyLevel = v
		return nil
	default:
		return apperr.Field(string(path), "not a choice field")
	}
}

func setFieldOf(m *domain.Member, path FieldPath) (*domain.StringSet, error) {
	switch path {
	case FieldDietaryRestrictions:
		return &m.DietaryRestrictions, nil
	case FieldAdultTravelExperience, FieldAdultInterests, FieldAdultAccommodationStyle:
		a, ok := m.Adult()
		if !ok {
			return nil, unavailable(path)
		}
		switch path {
		case FieldAdultTravelExperience:
			return &a.TravelExperience, nil
		case FieldAdultInterests:
			return &a.Interests, nil
		default:
			return &a.AccommodationStyle, nil
		}
	case FieldChildInterests, FieldChildAttentionSpan, FieldChildComfortItems, FieldChildSpecialNeeds:
		c, ok := m.Child()
		if !ok {
			return nil, unavailable(path)
		}
		switch path {
		case FieldChildInterests:
			return &c.Interests, nil
		case FieldChildAttentionSpan:
			return &c.AttentionSpan, nil
		case FieldChildComfortItems:
			return &c.ComfortItems, nil
		default:
			return &c.SpecialNeeds, nil
		}
	default:
		return nil, apperr.Field(string(path), "not a multi-choice field")
	}
}

func unavailable(path FieldPath) error {
	return apperr.Field(string(path), "not available for the selected role")
}

func oneOfError[T ~string](path FieldPath, allowed []T) error {
	return apperr.Field(string(path), apperr.OneOf(allowed))
}
