// Package roster manages the committed collection of family members and the
// single draft member being edited.
//
// A Roster is driven by discrete user events and is not safe for concurrent use.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

const (
	CodeMemberNotFound = "MEMBER_NOT_FOUND"
	CodeNoDraft        = "NO_DRAFT"
)

// Confirmer asks the user a yes/no question. The UI may answer asynchronously;
// the roster treats the answer as a single resuming event.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

type Roster struct {
	members []domain.Member
	draft   *domain.Member

	confirm Confirmer

	newMemberID func() domain.MemberID
}

func New(confirm Confirmer) *Roster {
	return &Roster{
		confirm: confirm,
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
	}
}

// SetNewMemberIDForTest overrides member ID generation for deterministic tests.
// It should not be used in production code.
func (r *Roster) SetNewMemberIDForTest(fn func() domain.MemberID) {
	if fn != nil {
		r.newMemberID = fn
	}
}

// Load replaces the committed collection, e.g. when re-entering the members
// step with a previously saved profile. Any open draft is discarded. A member
// whose subtree does not fit its role gets the role's empty default, as on
// Commit.
func (r *Roster) Load(ms []domain.Member) {
	r.members = nil
	for _, m := range ms {
		r.members = append(r.members, shaped(m.Clone()))
	}
	r.draft = nil
}

func (r *Roster) Len() int { return len(r.members) }

// Members returns a copy of the committed members in insertion order.
func (r *Roster) Members() []domain.Member {
	out := domain.CloneMembers(r.members)
	if out == nil {
		out = []domain.Member{}
	}
	return out
}

func (r *Roster) Get(id domain.MemberID) (domain.Member, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return domain.Member{}, false
	}
	return r.members[i].Clone(), true
}

// Draft returns a copy of the member being edited.
func (r *Roster) Draft() (domain.Member, bool) {
	if r.draft == nil {
		return domain.Member{}, false
	}
	return r.draft.Clone(), true
}

func (r *Roster) Editing() bool { return r.draft != nil }

// StartNew resets the draft to an empty member with no role.
func (r *Roster) StartNew() {
	r.draft = &domain.Member{DietaryRestrictions: domain.StringSet{}}
}

// StartEdit copies the member with the given id into the draft.
func (r *Roster) StartEdit(id domain.MemberID) error {
	i := r.indexOf(id)
	if i < 0 {
		return apperr.NotFound(CodeMemberNotFound, "member not found")
	}
	d := shaped(r.members[i].Clone())
	r.draft = &d
	return nil
}

// Discard drops the draft without touching the committed collection.
func (r *Roster) Discard() { r.draft = nil }

func (r *Roster) SetName(name string) error {
	d, err := r.requireDraft()
	if err != nil {
		return err
	}
	d.Name = name
	return nil
}

func (r *Roster) SetAge(age string) error {
	d, err := r.requireDraft()
	if err != nil {
		return err
	}
	d.Age = age
	return nil
}

// SetRole sets the draft's role. Re-selecting the current role keeps a
// correctly shaped subtree; any other call resets the role's subtree to its
// empty default and drops the other one. Prior selections are not restored
// when switching back.
func (r *Roster) SetRole(role domain.Role) error {
	d, err := r.requireDraft()
	if err != nil {
		return err
	}
	if !role.Valid() {
		return apperr.Field("role", apperr.OneOf(domain.Roles()))
	}
	if d.Role == role && d.ShapeMatchesRole() {
		return nil
	}
	d.Role = role
	d.Preferences = domain.EmptyPreferences(role.Category())
	return nil
}

// Commit validates the draft and merges it into the collection: an existing
// id is replaced in place, anything else gets a fresh id and is appended.
// The draft is cleared on success and kept on failure.
func (r *Roster) Commit() (domain.Member, error) {
	d, err := r.requireDraft()
	if err != nil {
		return domain.Member{}, err
	}

	m := d.Clone()
	m.Name = domain.NormalizeHumanName(m.Name)
	m.Age = strings.TrimSpace(m.Age)

	fields := map[string]string{}
	if m.Name == "" {
		fields["name"] = "must be non-empty"
	}
	if m.Age == "" {
		fields["age"] = "must be non-empty"
	}
	if m.Role == "" {
		fields["role"] = "must be selected"
	}
	if len(fields) > 0 {
		return domain.Member{}, apperr.Validation("invalid member", fields)
	}

	m = shaped(m)

	if i := r.indexOf(m.ID); m.ID != "" && i >= 0 {
		r.members[i] = m
	} else {
		m.ID = r.freshID()
		r.members = append(r.members, m)
	}
	r.draft = nil
	return m.Clone(), nil
}

// Remove deletes the member with id after the user confirms. It reports
// whether a member was removed; an unknown id is a no-op and prompts nothing.
func (r *Roster) Remove(ctx context.Context, id domain.MemberID) (bool, error) {
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if r.confirm == nil {
		return false, errors.New("roster: no confirmer configured")
	}
	name := r.members[i].Name
	ok, err := r.confirm.Confirm(ctx, fmt.Sprintf("Remove %s from the family?", name))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	// Resolve the index again once the prompt returns.
	i = r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.members = append(r.members[:i:i], r.members[i+1:]...)
	if r.draft != nil && r.draft.ID == id {
		r.draft = nil
	}
	return true, nil
}

func (r *Roster) requireDraft() (*domain.Member, error) {
	if r.draft == nil {
		return nil, &apperr.Error{Status: 409, Code: CodeNoDraft, Message: "no member is being edited"}
	}
	return r.draft, nil
}

func (r *Roster) indexOf(id domain.MemberID) int {
	if id == "" {
		return -1
	}
	for i, m := range r.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// shaped fills nil sets and replaces a subtree that does not match the role.
func shaped(m domain.Member) domain.Member {
	if m.DietaryRestrictions == nil {
		m.DietaryRestrictions = domain.StringSet{}
	}
	if !m.ShapeMatchesRole() {
		m.Preferences = domain.EmptyPreferences(m.Role.Category())
	}
	return m
}

func (r *Roster) freshID() domain.MemberID {
	for {
		id := r.newMemberID()
		if id != "" && r.indexOf(id) < 0 {
			return id
		}
	}
}
