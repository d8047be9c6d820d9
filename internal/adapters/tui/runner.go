package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/roster"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/wizard"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

const (
	actionNext   = "Next"
	actionBack   = "Back"
	actionJump   = "Jump to step"
	actionFinish = "Finish and submit"

	memberAdd    = "Add a member"
	memberEdit   = "Edit a member"
	memberRemove = "Remove a member"
	memberDone   = "Done"
)

// Runner walks the user through the family wizard one step at a time.
type Runner struct {
	driver PromptDriver
	seq    *wizard.Sequencer
	steps  *wizard.FamilySteps
}

func NewRunner(driver PromptDriver, seq *wizard.Sequencer, steps *wizard.FamilySteps) *Runner {
	return &Runner{driver: driver, seq: seq, steps: steps}
}

// Run loops until the wizard completes and the profile has been submitted.
// Validation failures are shown and the same step is offered again.
func (r *Runner) Run(ctx context.Context) (domain.FamilyProfile, error) {
	for {
		step := r.seq.CurrentStep()
		if err := r.driver.Info(ctx, fmt.Sprintf("Step %d of %d: %s", r.seq.Current()+1, r.seq.StepCount(), step.Title())); err != nil {
			return domain.FamilyProfile{}, err
		}
		if err := r.editStep(ctx, step.Key()); err != nil {
			return domain.FamilyProfile{}, err
		}

		action, err := r.chooseAction(ctx)
		if err != nil {
			return domain.FamilyProfile{}, err
		}
		switch action {
		case actionNext:
			if err := r.seq.GoNext(); err != nil {
				if err := r.report(ctx, err); err != nil {
					return domain.FamilyProfile{}, err
				}
			}
		case actionBack:
			r.seq.GoPrevious()
		case actionJump:
			if err := r.jump(ctx); err != nil {
				return domain.FamilyProfile{}, err
			}
		case actionFinish:
			p, err := r.seq.Complete(ctx)
			if err == nil {
				return p, nil
			}
			if apperr.FieldErrors(err) != nil {
				if err := r.report(ctx, err); err != nil {
					return domain.FamilyProfile{}, err
				}
				continue
			}
			if err := r.driver.Info(ctx, "Submission failed: "+err.Error()); err != nil {
				return domain.FamilyProfile{}, err
			}
			again, cerr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if cerr != nil {
				return domain.FamilyProfile{}, cerr
			}
			if !again {
				return domain.FamilyProfile{}, err
			}
		}
	}
}

func (r *Runner) chooseAction(ctx context.Context) (string, error) {
	var options []string
	if r.seq.IsLast() {
		options = append(options, actionFinish)
	} else {
		options = append(options, actionNext)
	}
	if r.seq.Current() > 0 {
		options = append(options, actionBack)
	}
	options = append(options, actionJump)

	idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: no such action %d", idx)
	}
	return options[idx], nil
}

// jump offers the steps already reached; the others open through Next.
func (r *Runner) jump(ctx context.Context) error {
	var (
		options []string
		targets []int
	)
	for i, s := range r.seq.Steps() {
		if !r.seq.Visited(i) {
			continue
		}
		label := fmt.Sprintf("%d. %s", i+1, s.Title())
		if i == r.seq.Current() {
			label += " (current)"
		}
		options = append(options, label)
		targets = append(targets, i)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Go to step", Options: options, DefaultIndex: lo.IndexOf(targets, r.seq.Current())})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(targets) {
		return fmt.Errorf("tui: no such step %d", idx)
	}
	if err := r.seq.GoToStep(targets[idx]); err != nil {
		return r.report(ctx, err)
	}
	return nil
}

// report prints a recoverable error; field errors are listed one per line.
func (r *Runner) report(ctx context.Context, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err
	}
	lines := []string{ae.Message}
	fe := apperr.FieldErrors(err)
	for _, f := range apperr.SortedFields(err) {
		lines = append(lines, fmt.Sprintf("  %s: %s", f, fe[f]))
	}
	return r.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (r *Runner) editStep(ctx context.Context, key domain.StepKey) error {
	switch key {
	case domain.StepBasicInfo:
		return r.editBasicInfo(ctx)
	case domain.StepDietaryPreferences:
		return r.editDietary(ctx)
	case domain.StepMembers:
		return r.editMembers(ctx)
	case domain.StepActivities:
		return r.editActivities(ctx)
	default:
		return fmt.Errorf("tui: no editor for step %q", key)
	}
}

func (r *Runner) editBasicInfo(ctx context.Context) error {
	s := r.steps.BasicInfo
	d := s.Draft()

	name, err := r.driver.Input(ctx, InputConfig{Message: "Family name", Default: d.FamilyName})
	if err != nil {
		return err
	}
	s.SetFamilyName(name)

	city, err := r.driver.Input(ctx, InputConfig{Message: "Home city", Default: d.HomeCity})
	if err != nil {
		return err
	}
	s.SetHomeCity(city)

	tt, err := r.selectEnum(ctx, "Travel type", enumOptions(domain.TravelTypes()), string(d.TravelType))
	if err != nil {
		return err
	}
	s.SetTravelType(domain.TravelType(tt))

	budget, err := r.selectEnum(ctx, "Budget", enumOptions(domain.Budgets()), string(d.Budget))
	if err != nil {
		return err
	}
	s.SetBudget(domain.Budget(budget))
	return nil
}

func (r *Runner) editDietary(ctx context.Context) error {
	s := r.steps.Dietary
	if err := r.multiSelect(ctx, "Dietary restrictions", dietaryOptions, s.Draft().Restrictions, func(v string) error {
		s.ToggleRestriction(v)
		return nil
	}); err != nil {
		return err
	}
	if err := r.multiSelect(ctx, "Allergies", allergyOptions, s.Draft().Allergies, func(v string) error {
		s.ToggleAllergy(v)
		return nil
	}); err != nil {
		return err
	}
	notes, err := r.driver.Input(ctx, InputConfig{Message: "Anything else about food?", Default: s.Draft().Notes})
	if err != nil {
		return err
	}
	s.SetNotes(notes)
	return nil
}

func (r *Runner) editActivities(ctx context.Context) error {
	s := r.steps.Activities
	if err := r.multiSelect(ctx, "Activities you enjoy", activityOptions, s.Draft().Interests, func(v string) error {
		s.ToggleInterest(v)
		return nil
	}); err != nil {
		return err
	}
	notes, err := r.driver.Input(ctx, InputConfig{Message: "Notes", Default: s.Draft().Notes})
	if err != nil {
		return err
	}
	s.SetNotes(notes)
	return nil
}

func (r *Runner) editMembers(ctx context.Context) error {
	ros := r.steps.Members.Roster()
	for {
		options := []string{memberAdd}
		if ros.Len() > 0 {
			options = append(options, memberEdit, memberRemove)
		}
		options = append(options, memberDone)

		msg := fmt.Sprintf("Family members (%d)", ros.Len())
		idx, err := r.driver.Select(ctx, SelectConfig{Message: msg, Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("tui: no such option %d", idx)
		}

		switch options[idx] {
		case memberAdd:
			ros.StartNew()
			if err := r.editDraft(ctx, ros); err != nil {
				return err
			}
		case memberEdit:
			id, err := r.pickMember(ctx, ros, "Edit which member?")
			if err != nil {
				return err
			}
			if err := ros.StartEdit(id); err != nil {
				return err
			}
			if err := r.editDraft(ctx, ros); err != nil {
				return err
			}
		case memberRemove:
			id, err := r.pickMember(ctx, ros, "Remove which member?")
			if err != nil {
				return err
			}
			if _, err := ros.Remove(ctx, id); err != nil {
				return err
			}
		case memberDone:
			return nil
		}
	}
}

func (r *Runner) pickMember(ctx context.Context, ros *roster.Roster, message string) (domain.MemberID, error) {
	ms := ros.Members()
	options := make([]string, 0, len(ms))
	for _, m := range ms {
		options = append(options, memberLabel(m))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ms) {
		return "", fmt.Errorf("tui: no such member %d", idx)
	}
	return ms[idx].ID, nil
}

func memberLabel(m domain.Member) string {
	return fmt.Sprintf("%s (%s, %s)", m.Name, m.Role, m.Age)
}

// editDraft prompts for every field of the open draft and commits it. When
// the commit is rejected the user may fix the fields or drop the draft.
func (r *Runner) editDraft(ctx context.Context, ros *roster.Roster) error {
	for {
		if err := r.promptDraft(ctx, ros); err != nil {
			ros.Discard()
			return err
		}
		if _, err := ros.Commit(); err == nil {
			return nil
		} else if err := r.report(ctx, err); err != nil {
			ros.Discard()
			return err
		}
		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Fix this member?", Default: true})
		if err != nil {
			ros.Discard()
			return err
		}
		if !again {
			ros.Discard()
			return nil
		}
	}
}

func (r *Runner) promptDraft(ctx context.Context, ros *roster.Roster) error {
	d, _ := ros.Draft()

	name, err := r.driver.Input(ctx, InputConfig{Message: "Name", Default: d.Name})
	if err != nil {
		return err
	}
	if err := ros.SetName(name); err != nil {
		return err
	}
	age, err := r.driver.Input(ctx, InputConfig{Message: "Age", Default: d.Age, Help: `e.g. "7" or "18 months"`})
	if err != nil {
		return err
	}
	if err := ros.SetAge(age); err != nil {
		return err
	}

	roles := domain.Roles()
	roleOptions := make([]string, 0, len(roles))
	defaultRole := 0
	for i, role := range roles {
		roleOptions = append(roleOptions, string(role))
		if role == d.Role {
			defaultRole = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Role", Options: roleOptions, DefaultIndex: defaultRole})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(roles) {
		return fmt.Errorf("tui: no such role %d", idx)
	}
	if err := ros.SetRole(roles[idx]); err != nil {
		return err
	}

	// Re-read: changing the role may have replaced the preference subtree.
	d, _ = ros.Draft()
	if err := r.multiSelect(ctx, "Dietary restrictions", dietaryOptions, d.DietaryRestrictions, toggler(ros, roster.FieldDietaryRestrictions)); err != nil {
		return err
	}
	if a, ok := d.Adult(); ok {
		return r.promptAdult(ctx, ros, a)
	}
	if c, ok := d.Child(); ok {
		return r.promptChild(ctx, ros, c)
	}
	return nil
}

func (r *Runner) promptAdult(ctx context.Context, ros *roster.Roster, a *domain.AdultPreferences) error {
	if err := r.multiSelect(ctx, "Travel experience", adultTravelExperienceOptions, a.TravelExperience, toggler(ros, roster.FieldAdultTravelExperience)); err != nil {
		return err
	}
	if err := r.multiSelect(ctx, "Interests", adultInterestOptions, a.Interests, toggler(ros, roster.FieldAdultInterests)); err != nil {
		return err
	}
	comfort, err := r.selectEnum(ctx, "Comfort level", enumOptions(domain.ComfortLevels()), string(a.ComfortLevel))
	if err != nil {
		return err
	}
	if err := ros.SetEnumField(roster.FieldAdultComfortLevel, comfort); err != nil {
		return err
	}
	pace, err := r.selectEnum(ctx, "Pace", enumOptions(domain.PacePreferences()), string(a.PacePreference))
	if err != nil {
		return err
	}
	if err := ros.SetEnumField(roster.FieldAdultPacePreference, pace); err != nil {
		return err
	}
	return r.multiSelect(ctx, "Accommodation style", accommodationOptions, a.AccommodationStyle, toggler(ros, roster.FieldAdultAccommodationStyle))
}

func (r *Runner) promptChild(ctx context.Context, ros *roster.Roster, c *domain.ChildPreferences) error {
	if err := r.multiSelect(ctx, "Interests", childInterestOptions, c.Interests, toggler(ros, roster.FieldChildInterests)); err != nil {
		return err
	}
	energy, err := r.selectEnum(ctx, "Energy level", enumOptions(domain.EnergyLevels()), string(c.EnergyLevel))
	if err != nil {
		return err
	}
	if err := ros.SetEnumField(roster.FieldChildEnergyLevel, energy); err != nil {
		return err
	}
	if err := r.multiSelect(ctx, "Attention span", attentionSpanOptions, c.AttentionSpan, toggler(ros, roster.FieldChildAttentionSpan)); err != nil {
		return err
	}
	if err := r.multiSelect(ctx, "Comfort items", comfortItemOptions, c.ComfortItems, toggler(ros, roster.FieldChildComfortItems)); err != nil {
		return err
	}
	return r.multiSelect(ctx, "Special needs", specialNeedOptions, c.SpecialNeeds, toggler(ros, roster.FieldChildSpecialNeeds))
}

func toggler(ros *roster.Roster, path roster.FieldPath) func(string) error {
	return func(v string) error { return ros.ToggleSetField(path, v) }
}

// multiSelect shows catalog (plus anything already in current) and toggles
// exactly the entries whose membership changed.
func (r *Runner) multiSelect(ctx context.Context, message string, catalog []string, current domain.StringSet, toggle func(string) error) error {
	options := withCurrent(catalog, current)
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  options,
		Defaults: selectedIndices(options, current),
	})
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(options) {
			want[options[i]] = true
		}
	}
	for _, o := range options {
		if want[o] != current.Contains(o) {
			if err := toggle(o); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) selectEnum(ctx context.Context, message string, options []string, current string) (string, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: enumIndex(options, current)})
	if err != nil {
		return "", err
	}
	return enumValue(options, idx), nil
}
