// Package wire defines the JSON request and response bodies of the families
// API. Both the HTTP server and the HTTP submitter speak these shapes.
package wire

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

// FamilyProfile is the request body of create, replace and validate.
type FamilyProfile struct {
	BasicInfo          *BasicInfo          `json:"basicInfo,omitempty"`
	DietaryPreferences *DietaryPreferences `json:"dietaryPreferences,omitempty"`
	Members            []Member            `json:"members"`
	Activities         *Activities         `json:"activities,omitempty"`
}

type BasicInfo struct {
	FamilyName string                    `json:"familyName"`
	HomeCity   nullable.Nullable[string] `json:"homeCity,omitempty"`
	TravelType nullable.Nullable[string] `json:"travelType,omitempty"`
	Budget     nullable.Nullable[string] `json:"budget,omitempty"`
}

type DietaryPreferences struct {
	Restrictions []string                  `json:"restrictions"`
	Allergies    []string                  `json:"allergies"`
	Notes        nullable.Nullable[string] `json:"notes,omitempty"`
}

type Activities struct {
	Interests []string                  `json:"interests"`
	Notes     nullable.Nullable[string] `json:"notes,omitempty"`
}

type Member struct {
	// Id is omitted for members the client has not stored yet.
	Id                  *string           `json:"id,omitempty"`
	Name                string            `json:"name"`
	Age                 string            `json:"age"`
	Role                string            `json:"role"`
	DietaryRestrictions []string          `json:"dietaryRestrictions"`
	AdultPreferences    *AdultPreferences `json:"adultPreferences,omitempty"`
	ChildPreferences    *ChildPreferences `json:"childPreferences,omitempty"`
}

type AdultPreferences struct {
	TravelExperience   []string                  `json:"travelExperience"`
	Interests          []string                  `json:"interests"`
	ComfortLevel       nullable.Nullable[string] `json:"comfortLevel,omitempty"`
	PacePreference     nullable.Nullable[string] `json:"pacePreference,omitempty"`
	AccommodationStyle []string                  `json:"accommodationStyle"`
}

type ChildPreferences struct {
	Interests     []string                  `json:"interests"`
	EnergyLevel   nullable.Nullable[string] `json:"energyLevel,omitempty"`
	AttentionSpan []string                  `json:"attentionSpan"`
	ComfortItems  []string                  `json:"comfortItems"`
	SpecialNeeds  []string                  `json:"specialNeeds"`
}

// Family is a stored family record.
type Family struct {
	FamilyId  openapi_types.UUID `json:"familyId"`
	Profile   FamilyProfile      `json:"profile"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type FamilyResponse struct {
	Family Family `json:"family"`
}

type ListFamiliesResponse struct {
	Families []Family `json:"families"`
}

type ValidateFamilyResponse struct {
	Profile FamilyProfile `json:"profile"`
}
