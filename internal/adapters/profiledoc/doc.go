// Package profiledoc is the stored form of a family profile: JSON for the SQL
// adapters and YAML for profile files. It is not part of the HTTP API.
package profiledoc

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

type document struct {
	BasicInfo          *basicInfo          `json:"basicInfo,omitempty" yaml:"basicInfo,omitempty"`
	DietaryPreferences *dietaryPreferences `json:"dietaryPreferences,omitempty" yaml:"dietaryPreferences,omitempty"`
	Members            []member            `json:"members" yaml:"members"`
	Activities         *activities         `json:"activities,omitempty" yaml:"activities,omitempty"`
}

type basicInfo struct {
	FamilyName string `json:"familyName" yaml:"familyName"`
	HomeCity   string `json:"homeCity" yaml:"homeCity"`
	TravelType string `json:"travelType" yaml:"travelType"`
	Budget     string `json:"budget" yaml:"budget"`
}

type dietaryPreferences struct {
	Restrictions []string `json:"restrictions" yaml:"restrictions"`
	Allergies    []string `json:"allergies" yaml:"allergies"`
	Notes        string   `json:"notes" yaml:"notes"`
}

type activities struct {
	Interests []string `json:"interests" yaml:"interests"`
	Notes     string   `json:"notes" yaml:"notes"`
}

type member struct {
	ID                  string            `json:"id" yaml:"id"`
	Name                string            `json:"name" yaml:"name"`
	Age                 string            `json:"age" yaml:"age"`
	Role                string            `json:"role" yaml:"role"`
	DietaryRestrictions []string          `json:"dietaryRestrictions" yaml:"dietaryRestrictions"`
	Adult               *adultPreferences `json:"adultPreferences,omitempty" yaml:"adultPreferences,omitempty"`
	Child               *childPreferences `json:"childPreferences,omitempty" yaml:"childPreferences,omitempty"`
}

type adultPreferences struct {
	TravelExperience   []string `json:"travelExperience" yaml:"travelExperience"`
	Interests          []string `json:"interests" yaml:"interests"`
	ComfortLevel       string   `json:"comfortLevel" yaml:"comfortLevel"`
	PacePreference     string   `json:"pacePreference" yaml:"pacePreference"`
	AccommodationStyle []string `json:"accommodationStyle" yaml:"accommodationStyle"`
}

type childPreferences struct {
	Interests     []string `json:"interests" yaml:"interests"`
	EnergyLevel   string   `json:"energyLevel" yaml:"energyLevel"`
	AttentionSpan []string `json:"attentionSpan" yaml:"attentionSpan"`
	ComfortItems  []string `json:"comfortItems" yaml:"comfortItems"`
	SpecialNeeds  []string `json:"specialNeeds" yaml:"specialNeeds"`
}

// Marshal encodes p as JSON for storage.
func Marshal(p domain.FamilyProfile) ([]byte, error) {
	b, err := json.Marshal(toDocument(p))
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a stored JSON profile. Members always come back non-nil.
func Unmarshal(b []byte) (domain.FamilyProfile, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.FamilyProfile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return fromDocument(doc)
}

// MarshalYAML encodes p as a YAML profile file.
func MarshalYAML(p domain.FamilyProfile) ([]byte, error) {
	b, err := yaml.Marshal(toDocument(p))
	if err != nil {
		return nil, fmt.Errorf("marshal profile yaml: %w", err)
	}
	return b, nil
}

// UnmarshalYAML decodes a YAML profile file.
func UnmarshalYAML(b []byte) (domain.FamilyProfile, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return domain.FamilyProfile{}, fmt.Errorf("unmarshal profile yaml: %w", err)
	}
	return fromDocument(doc)
}

func toDocument(p domain.FamilyProfile) document {
	doc := document{Members: make([]member, 0, len(p.Members))}
	if p.BasicInfo != nil {
		doc.BasicInfo = &basicInfo{
			FamilyName: p.BasicInfo.FamilyName,
			HomeCity:   p.BasicInfo.HomeCity,
			TravelType: string(p.BasicInfo.TravelType),
			Budget:     string(p.BasicInfo.Budget),
		}
	}
	if p.DietaryPreferences != nil {
		doc.DietaryPreferences = &dietaryPreferences{
			Restrictions: p.DietaryPreferences.Restrictions,
			Allergies:    p.DietaryPreferences.Allergies,
			Notes:        p.DietaryPreferences.Notes,
		}
	}
	if p.Activities != nil {
		doc.Activities = &activities{Interests: p.Activities.Interests, Notes: p.Activities.Notes}
	}
	for _, m := range p.Members {
		dm := member{
			ID:                  string(m.ID),
			Name:                m.Name,
			Age:                 m.Age,
			Role:                string(m.Role),
			DietaryRestrictions: m.DietaryRestrictions,
		}
		if a, ok := m.Adult(); ok {
			dm.Adult = &adultPreferences{
				TravelExperience:   a.TravelExperience,
				Interests:          a.Interests,
				ComfortLevel:       string(a.ComfortLevel),
				PacePreference:     string(a.PacePreference),
				AccommodationStyle: a.AccommodationStyle,
			}
		}
		if c, ok := m.Child(); ok {
			dm.Child = &childPreferences{
				Interests:     c.Interests,
				EnergyLevel:   string(c.EnergyLevel),
				AttentionSpan: c.AttentionSpan,
				ComfortItems:  c.ComfortItems,
				SpecialNeeds:  c.SpecialNeeds,
			}
		}
		doc.Members = append(doc.Members, dm)
	}
	return doc
}

func fromDocument(doc document) (domain.FamilyProfile, error) {
	out := domain.FamilyProfile{Members: make([]domain.Member, 0, len(doc.Members))}
	if doc.BasicInfo != nil {
		out.BasicInfo = &domain.BasicInfo{
			FamilyName: doc.BasicInfo.FamilyName,
			HomeCity:   doc.BasicInfo.HomeCity,
			TravelType: domain.TravelType(doc.BasicInfo.TravelType),
			Budget:     domain.Budget(doc.BasicInfo.Budget),
		}
	}
	if doc.DietaryPreferences != nil {
		out.DietaryPreferences = &domain.DietaryPreferences{
			Restrictions: domain.StringSet(doc.DietaryPreferences.Restrictions),
			Allergies:    domain.StringSet(doc.DietaryPreferences.Allergies),
			Notes:        doc.DietaryPreferences.Notes,
		}
	}
	if doc.Activities != nil {
		out.Activities = &domain.Activities{
			Interests: domain.StringSet(doc.Activities.Interests),
			Notes:     doc.Activities.Notes,
		}
	}
	for i, dm := range doc.Members {
		m := domain.Member{
			ID:                  domain.MemberID(dm.ID),
			Name:                dm.Name,
			Age:                 dm.Age,
			Role:                domain.Role(dm.Role),
			DietaryRestrictions: domain.StringSet(dm.DietaryRestrictions),
		}
		switch {
		case dm.Adult != nil && dm.Child != nil:
			return domain.FamilyProfile{}, fmt.Errorf("unmarshal profile: member %d has both preference subtrees", i)
		case dm.Adult != nil:
			m.Preferences = &domain.AdultPreferences{
				TravelExperience:   domain.StringSet(dm.Adult.TravelExperience),
				Interests:          domain.StringSet(dm.Adult.Interests),
				ComfortLevel:       domain.ComfortLevel(dm.Adult.ComfortLevel),
				PacePreference:     domain.PacePreference(dm.Adult.PacePreference),
				AccommodationStyle: domain.StringSet(dm.Adult.AccommodationStyle),
			}
		case dm.Child != nil:
			m.Preferences = &domain.ChildPreferences{
				Interests:     domain.StringSet(dm.Child.Interests),
				EnergyLevel:   domain.EnergyLevel(dm.Child.EnergyLevel),
				AttentionSpan: domain.StringSet(dm.Child.AttentionSpan),
				ComfortItems:  domain.StringSet(dm.Child.ComfortItems),
				SpecialNeeds:  domain.StringSet(dm.Child.SpecialNeeds),
			}
		}
		out.Members = append(out.Members, m)
	}
	return out, nil
}
