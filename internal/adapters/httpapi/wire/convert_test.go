package wire

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/families"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

func TestProfileFromDomain_ExclusiveSubtrees(t *testing.T) {
	t.Parallel()

	p := ProfileFromDomain(contracttest.SampleProfile())
	if len(p.Members) != 2 {
		t.Fatalf("members=%d", len(p.Members))
	}
	if p.Members[0].AdultPreferences == nil || p.Members[0].ChildPreferences != nil {
		t.Fatalf("parent should carry only adult preferences: %+v", p.Members[0])
	}
	if p.Members[1].ChildPreferences == nil || p.Members[1].AdultPreferences != nil {
		t.Fatalf("child should carry only child preferences: %+v", p.Members[1])
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"activities":{"interests":["Zoo","Beach"]}`) {
		t.Fatalf("empty notes should be omitted: %s", b)
	}
}

func TestToInput_NullsReadAsEmpty(t *testing.T) {
	t.Parallel()

	body := `{
		"basicInfo": {"familyName": "Martin", "homeCity": null, "travelType": "Beach"},
		"members": [
			{"name": "Léa", "age": "7", "role": "Child", "dietaryRestrictions": [],
			 "childPreferences": {"interests": ["Zoo"], "energyLevel": null, "attentionSpan": [], "comfortItems": [], "specialNeeds": []}}
		]
	}`
	var p FamilyProfile
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := families.ProfileInput{
		BasicInfo: &families.BasicInfoInput{FamilyName: "Martin", TravelType: "Beach"},
		Members: []families.MemberInput{{
			Name:                "Léa",
			Age:                 "7",
			Role:                "Child",
			DietaryRestrictions: []string{},
			ChildPreferences: &families.ChildPreferencesInput{
				Interests:     []string{"Zoo"},
				AttentionSpan: []string{},
				ComfortItems:  []string{},
				SpecialNeeds:  []string{},
			},
		}},
	}
	if diff := cmp.Diff(want, p.ToInput()); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestFamilyFromDomain_RejectsNonUUID(t *testing.T) {
	t.Parallel()

	if _, err := FamilyFromDomain(domain.Family{ID: "not-a-uuid", CreatedAt: time.Unix(0, 0)}); err == nil {
		t.Fatalf("expected error")
	}
}
