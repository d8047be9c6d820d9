package roster

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

type scriptedConfirmer struct {
	answer   bool
	err      error
	messages []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	c.messages = append(c.messages, message)
	return c.answer, c.err
}

func newTestRoster(t *testing.T, c Confirmer) *Roster {
	t.Helper()
	r := New(c)
	n := 0
	r.SetNewMemberIDForTest(func() domain.MemberID {
		n++
		return domain.MemberID(fmt.Sprintf("m-%d", n))
	})
	return r
}

func addMember(t *testing.T, r *Roster, name, age string, role domain.Role) domain.Member {
	t.Helper()
	r.StartNew()
	if err := r.SetName(name); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if err := r.SetAge(age); err != nil {
		t.Fatalf("SetAge: %v", err)
	}
	if err := r.SetRole(role); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	m, err := r.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return m
}

func TestRoster_AddChild(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	m := addMember(t, r, "Léa", "7", domain.RoleChild)

	if r.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", r.Len())
	}
	if m.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	cp, ok := m.Child()
	if !ok {
		t.Fatalf("expected child preferences, got %#v", m.Preferences)
	}
	if cp.Interests == nil || len(cp.Interests) != 0 {
		t.Fatalf("childPreferences.interests=%#v, want empty", cp.Interests)
	}
	if _, ok := m.Adult(); ok {
		t.Fatalf("adult preferences must be absent")
	}
	if r.Editing() {
		t.Fatalf("draft should be cleared after commit")
	}
}

func TestRoster_SetRoleShapesExactlyOneSubtree(t *testing.T) {
	t.Parallel()

	for _, role := range domain.Roles() {
		role := role
		t.Run(string(role), func(t *testing.T) {
			t.Parallel()
			r := newTestRoster(t, nil)
			r.StartNew()
			if err := r.SetRole(role); err != nil {
				t.Fatalf("SetRole: %v", err)
			}
			d, _ := r.Draft()
			_, adult := d.Adult()
			_, child := d.Child()
			if adult == child {
				t.Fatalf("adult=%v child=%v, want exactly one", adult, child)
			}
			if child != (role.Category() == domain.RoleCategoryChild) {
				t.Fatalf("subtree does not match role category %q", role.Category())
			}
		})
	}
}

func TestRoster_SetRoleSwitchDiscardsPriorSubtree(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.StartNew()
	if err := r.SetRole(domain.RoleChild); err != nil {
		t.Fatalf("SetRole child: %v", err)
	}
	if err := r.ToggleSetField(FieldChildInterests, "Animaux"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := r.SetRole(domain.RoleAdult); err != nil {
		t.Fatalf("SetRole adult: %v", err)
	}
	d, _ := r.Draft()
	if _, ok := d.Child(); ok {
		t.Fatalf("childPreferences should be absent after switching to Adult")
	}
	ap, ok := d.Adult()
	if !ok || len(ap.Interests) != 0 {
		t.Fatalf("adultPreferences=%#v, want empty subtree", d.Preferences)
	}

	// Switching back does not restore the earlier child selections.
	if err := r.SetRole(domain.RoleChild); err != nil {
		t.Fatalf("SetRole child again: %v", err)
	}
	d, _ = r.Draft()
	cp, _ := d.Child()
	if len(cp.Interests) != 0 {
		t.Fatalf("child interests=%v, want empty after round trip", cp.Interests)
	}
}

func TestRoster_SetRoleSameRoleKeepsSubtree(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.StartNew()
	_ = r.SetRole(domain.RoleParent)
	_ = r.SetEnumField(FieldAdultComfortLevel, string(domain.ComfortLevelAdventurous))
	_ = r.ToggleSetField(FieldAdultInterests, "Hiking")

	if err := r.SetRole(domain.RoleParent); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	d, _ := r.Draft()
	ap, _ := d.Adult()
	if ap.ComfortLevel != domain.ComfortLevelAdventurous || !ap.Interests.Contains("Hiking") {
		t.Fatalf("same-role SetRole lost data: %+v", ap)
	}

	// A different role of the same category still resets.
	if err := r.SetRole(domain.RoleGrandparent); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	d, _ = r.Draft()
	ap, _ = d.Adult()
	if ap.ComfortLevel != "" || len(ap.Interests) != 0 {
		t.Fatalf("new role should reset subtree, got %+v", ap)
	}
}

func TestRoster_SetRoleRejectsUnknown(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.StartNew()
	err := r.SetRole("Pet")
	if _, ok := apperr.FieldErrors(err)["role"]; !ok {
		t.Fatalf("err=%v, want role field error", err)
	}
}

func TestRoster_ToggleIsInvolution(t *testing.T) {
	t.Parallel()

	paths := []struct {
		role domain.Role
		path FieldPath
	}{
		{domain.RoleParent, FieldDietaryRestrictions},
		{domain.RoleParent, FieldAdultTravelExperience},
		{domain.RoleParent, FieldAdultInterests},
		{domain.RoleParent, FieldAdultAccommodationStyle},
		{domain.RoleChild, FieldChildInterests},
		{domain.RoleChild, FieldChildAttentionSpan},
		{domain.RoleChild, FieldChildComfortItems},
		{domain.RoleChild, FieldChildSpecialNeeds},
	}
	for _, tc := range paths {
		r := newTestRoster(t, nil)
		r.StartNew()
		_ = r.SetRole(tc.role)
		if err := r.ToggleSetField(tc.path, "keep"); err != nil {
			t.Fatalf("%s: toggle keep: %v", tc.path, err)
		}
		before, _ := r.Draft()

		for _, v := range []string{"x", "keep"} {
			if err := r.ToggleSetField(tc.path, v); err != nil {
				t.Fatalf("%s: toggle: %v", tc.path, err)
			}
			if err := r.ToggleSetField(tc.path, v); err != nil {
				t.Fatalf("%s: toggle: %v", tc.path, err)
			}
		}
		after, _ := r.Draft()
		bs, _ := setFieldOf(&before, tc.path)
		as, _ := setFieldOf(&after, tc.path)
		if !bs.Equal(*as) {
			t.Fatalf("%s: set after double toggles=%v, want %v", tc.path, *as, *bs)
		}
	}
}

func TestRoster_FieldOnWrongSubtree(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.StartNew()
	_ = r.SetRole(domain.RoleChild)

	err := r.ToggleSetField(FieldAdultInterests, "Museums")
	if _, ok := apperr.FieldErrors(err)[string(FieldAdultInterests)]; !ok {
		t.Fatalf("err=%v, want field error on %s", err, FieldAdultInterests)
	}
	err = r.SetEnumField(FieldAdultPacePreference, string(domain.PaceSlow))
	if _, ok := apperr.FieldErrors(err)[string(FieldAdultPacePreference)]; !ok {
		t.Fatalf("err=%v, want field error on %s", err, FieldAdultPacePreference)
	}
	if err := r.SetEnumField(FieldChildEnergyLevel, "Turbo"); err == nil {
		t.Fatalf("expected unknown energy level to be rejected")
	}
	if err := r.SetEnumField(FieldChildEnergyLevel, string(domain.EnergyHigh)); err != nil {
		t.Fatalf("SetEnumField: %v", err)
	}
	d, _ := r.Draft()
	cp, _ := d.Child()
	if cp.EnergyLevel != domain.EnergyHigh {
		t.Fatalf("energyLevel=%q", cp.EnergyLevel)
	}
}

func TestRoster_CommitValidation(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.StartNew()
	_ = r.SetName("   ")

	_, err := r.Commit()
	want := map[string]string{
		"name": "must be non-empty",
		"age":  "must be non-empty",
		"role": "must be selected",
	}
	if diff := cmp.Diff(want, apperr.FieldErrors(err)); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 0 {
		t.Fatalf("failed commit changed roster: Len()=%d", r.Len())
	}
	if !r.Editing() {
		t.Fatalf("failed commit should keep the draft")
	}
}

func TestRoster_CommitWithoutDraft(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	if _, err := r.Commit(); !apperr.HasCode(err, CodeNoDraft) {
		t.Fatalf("err=%v, want %s", err, CodeNoDraft)
	}
}

func TestRoster_EditPreservesOrderAndSize(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	a := addMember(t, r, "Paul", "41", domain.RoleParent)
	b := addMember(t, r, "Léa", "7", domain.RoleChild)
	c := addMember(t, r, "Mamie", "72", domain.RoleGrandparent)

	if err := r.StartEdit(b.ID); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	_ = r.SetName("Léa Martin")
	if _, err := r.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got := r.Members()
	ids := []domain.MemberID{got[0].ID, got[1].ID, got[2].ID}
	if diff := cmp.Diff([]domain.MemberID{a.ID, b.ID, c.ID}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got[1].Name != "Léa Martin" {
		t.Fatalf("name=%q", got[1].Name)
	}

	r.StartNew()
	_ = r.SetName("Tom")
	_ = r.SetAge("3")
	_ = r.SetRole(domain.RoleChild)
	if _, err := r.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if r.Len() != 4 {
		t.Fatalf("Len()=%d, want 4", r.Len())
	}
}

func TestRoster_StartEditNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	err := r.StartEdit("missing")
	if !apperr.HasCode(err, CodeMemberNotFound) {
		t.Fatalf("err=%v, want %s", err, CodeMemberNotFound)
	}
	if r.Editing() {
		t.Fatalf("failed StartEdit should not open a draft")
	}
}

func TestRoster_StartEditDefaultsMissingSubtree(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.Load([]domain.Member{{ID: "m-x", Name: "Ana", Age: "9", Role: domain.RoleChild}})

	if err := r.StartEdit("m-x"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	d, _ := r.Draft()
	if _, ok := d.Child(); !ok {
		t.Fatalf("expected empty child subtree, got %#v", d.Preferences)
	}
}

func TestRoster_DiscardLeavesCollection(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	m := addMember(t, r, "Paul", "41", domain.RoleParent)

	_ = r.StartEdit(m.ID)
	_ = r.SetName("Someone Else")
	r.Discard()

	got, _ := r.Get(m.ID)
	if got.Name != "Paul" {
		t.Fatalf("discarded draft leaked into roster: %+v", got)
	}
}

func TestRoster_RemoveRequiresConfirmation(t *testing.T) {
	t.Parallel()

	c := &scriptedConfirmer{answer: false}
	r := newTestRoster(t, c)
	a := addMember(t, r, "Paul", "41", domain.RoleParent)
	b := addMember(t, r, "Léa", "7", domain.RoleChild)

	removed, err := r.Remove(context.Background(), b.ID)
	if err != nil || removed {
		t.Fatalf("Remove declined: removed=%v err=%v", removed, err)
	}
	if r.Len() != 2 {
		t.Fatalf("declined remove changed roster: Len()=%d", r.Len())
	}

	c.answer = true
	removed, err = r.Remove(context.Background(), b.ID)
	if err != nil || !removed {
		t.Fatalf("Remove confirmed: removed=%v err=%v", removed, err)
	}
	got := r.Members()
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("unexpected roster after remove: %#v", got)
	}
	if len(c.messages) != 2 || c.messages[0] != "Remove Léa from the family?" {
		t.Fatalf("prompts=%q", c.messages)
	}
}

func TestRoster_RemoveUnknownIsNoop(t *testing.T) {
	t.Parallel()

	c := &scriptedConfirmer{answer: true}
	r := newTestRoster(t, c)
	addMember(t, r, "Paul", "41", domain.RoleParent)

	removed, err := r.Remove(context.Background(), "missing")
	if err != nil || removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if len(c.messages) != 0 {
		t.Fatalf("unknown id should not prompt, got %q", c.messages)
	}
}

func TestRoster_RemovePropagatesPromptError(t *testing.T) {
	t.Parallel()

	boom := errors.New("prompt closed")
	r := newTestRoster(t, &scriptedConfirmer{err: boom})
	m := addMember(t, r, "Paul", "41", domain.RoleParent)

	if _, err := r.Remove(context.Background(), m.ID); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want %v", err, boom)
	}
	if r.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", r.Len())
	}
}

func TestRoster_RemoveDropsDraftOfRemovedMember(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil }))
	m := addMember(t, r, "Paul", "41", domain.RoleParent)
	_ = r.StartEdit(m.ID)

	if _, err := r.Remove(context.Background(), m.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if r.Editing() {
		t.Fatalf("draft of a removed member should be dropped")
	}
}

func TestRoster_LoadReshapesMismatchedSubtree(t *testing.T) {
	t.Parallel()

	in := []domain.Member{
		{ID: "m-a", Name: "Ana", Age: "9", Role: domain.RoleChild, Preferences: &domain.AdultPreferences{Interests: domain.NewStringSet("Golf")}},
		{ID: "m-b", Name: "Paul", Age: "41", Role: domain.RoleParent},
		{ID: "m-c", Name: "Zoé", Age: "70", Role: domain.RoleGrandparent, Preferences: &domain.AdultPreferences{Interests: domain.NewStringSet("Museums")}},
	}
	r := newTestRoster(t, nil)
	r.Load(in)

	got := r.Members()
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	for _, m := range got {
		if !m.ShapeMatchesRole() {
			t.Fatalf("member %s loaded with wrong subtree: %#v", m.ID, m.Preferences)
		}
		if m.DietaryRestrictions == nil {
			t.Fatalf("member %s has nil dietary restrictions", m.ID)
		}
	}
	if c, ok := got[0].Child(); !ok || len(c.Interests) != 0 {
		t.Fatalf("child subtree=%#v, want empty default", got[0].Preferences)
	}
	if a, ok := got[2].Adult(); !ok || !a.Interests.Contains("Museums") {
		t.Fatalf("matching subtree should be kept, got %#v", got[2].Preferences)
	}
	if _, ok := in[0].Adult(); !ok {
		t.Fatalf("Load must not modify its input")
	}
}

func TestRoster_CommittedMembersKeepExclusiveSubtree(t *testing.T) {
	t.Parallel()

	r := newTestRoster(t, nil)
	r.Load([]domain.Member{{ID: "m-x", Name: "Ana", Age: "9", Role: domain.RoleChild, Preferences: domain.EmptyPreferences(domain.RoleCategoryAdult)}})
	_ = r.StartEdit("m-x")
	if _, err := r.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	addMember(t, r, "Paul", "41", domain.RoleParent)

	for _, m := range r.Members() {
		if !m.ShapeMatchesRole() {
			t.Fatalf("member %s violates subtree invariant: %#v", m.ID, m.Preferences)
		}
	}
}
