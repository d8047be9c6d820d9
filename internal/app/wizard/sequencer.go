// Package wizard drives the onboarding flow: an ordered list of steps, each
// committing its payload into a FamilyProfile when the user moves forward.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

const (
	CodeStepOutOfRange = "STEP_OUT_OF_RANGE"
	CodeNotOnLastStep  = "WIZARD_NOT_ON_LAST_STEP"
	CodeStepNotVisited = "STEP_NOT_VISITED"
)

// Step is one page of the wizard. Commit runs the step's required-field checks
// and returns the payload to store; it must not touch the profile itself.
type Step interface {
	Key() domain.StepKey
	Title() string
	Commit() (domain.ProfilePayload, error)
}

// Submitter receives the finished profile. How it is persisted or sent is up
// to the implementation.
type Submitter interface {
	Submit(ctx context.Context, profile domain.FamilyProfile) error
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, profile domain.FamilyProfile) error

func (f SubmitFunc) Submit(ctx context.Context, profile domain.FamilyProfile) error {
	return f(ctx, profile)
}

// Sequencer tracks the active step and owns the profile being built.
// It is not safe for concurrent use.
type Sequencer struct {
	steps   []Step
	current int
	visited []bool

	profile   domain.FamilyProfile
	submitter Submitter
}

func NewSequencer(submitter Submitter, steps ...Step) (*Sequencer, error) {
	if len(steps) == 0 {
		return nil, errors.New("wizard: at least one step is required")
	}
	seen := make(map[domain.StepKey]bool, len(steps))
	for _, s := range steps {
		if s == nil {
			return nil, errors.New("wizard: nil step")
		}
		if seen[s.Key()] {
			return nil, fmt.Errorf("wizard: duplicate step %q", s.Key())
		}
		seen[s.Key()] = true
	}
	visited := make([]bool, len(steps))
	visited[0] = true
	return &Sequencer{
		steps:     steps,
		visited:   visited,
		submitter: submitter,
	}, nil
}

func (s *Sequencer) Current() int      { return s.current }
func (s *Sequencer) StepCount() int    { return len(s.steps) }
func (s *Sequencer) CurrentStep() Step { return s.steps[s.current] }
func (s *Sequencer) IsLast() bool      { return s.current == len(s.steps)-1 }

// Steps returns the steps in order.
func (s *Sequencer) Steps() []Step { return append([]Step(nil), s.steps...) }

// Visited reports whether step i has been shown at least once.
func (s *Sequencer) Visited(i int) bool {
	return i >= 0 && i < len(s.visited) && s.visited[i]
}

// Profile returns a copy of the profile committed so far.
func (s *Sequencer) Profile() domain.FamilyProfile { return s.profile.Clone() }

// GoNext validates and commits the active step, then advances (clamped to the
// last step). On validation failure nothing changes and the error carries
// field-level messages.
func (s *Sequencer) GoNext() error {
	if err := s.commitCurrent(); err != nil {
		return err
	}
	if s.current < len(s.steps)-1 {
		s.current++
		s.visited[s.current] = true
	}
	return nil
}

// GoPrevious moves back one step, clamped to the first. Committed data stays.
func (s *Sequencer) GoPrevious() {
	if s.current > 0 {
		s.current--
	}
}

// GoToStep jumps straight to step i without validating the active step.
// Only steps already reached through GoNext can be jumped to.
func (s *Sequencer) GoToStep(i int) error {
	if i < 0 || i >= len(s.steps) {
		return &apperr.Error{
			Status:  http.StatusBadRequest,
			Code:    CodeStepOutOfRange,
			Message: fmt.Sprintf("step %d out of range [0, %d]", i, len(s.steps)-1),
		}
	}
	if !s.visited[i] {
		return &apperr.Error{
			Status:  http.StatusConflict,
			Code:    CodeStepNotVisited,
			Message: fmt.Sprintf("step %d has not been reached yet", i),
		}
	}
	s.current = i
	return nil
}

// Complete commits the last step and hands the finished profile to the
// submitter. It is only allowed on the last step, once every other step has
// been committed.
func (s *Sequencer) Complete(ctx context.Context) (domain.FamilyProfile, error) {
	if !s.IsLast() {
		return domain.FamilyProfile{}, &apperr.Error{
			Status:  http.StatusConflict,
			Code:    CodeNotOnLastStep,
			Message: "the wizard can only be completed from the last step",
		}
	}
	missing := map[string]string{}
	for i, step := range s.steps {
		if i != s.current && !s.profile.Has(step.Key()) {
			missing[string(step.Key())] = "step not completed"
		}
	}
	if len(missing) > 0 {
		return domain.FamilyProfile{}, apperr.Validation("complete every step before finishing", missing)
	}
	if err := s.commitCurrent(); err != nil {
		return domain.FamilyProfile{}, err
	}
	final := s.profile.Clone()
	if s.submitter != nil {
		if err := s.submitter.Submit(ctx, final.Clone()); err != nil {
			return domain.FamilyProfile{}, fmt.Errorf("submit profile: %w", err)
		}
	}
	return final, nil
}

func (s *Sequencer) commitCurrent() error {
	step := s.steps[s.current]
	payload, err := step.Commit()
	if err != nil {
		return err
	}
	if payload == nil || payload.StepKey() != step.Key() {
		return fmt.Errorf("wizard: step %q returned a payload for another step", step.Key())
	}
	payload.ApplyTo(&s.profile)
	return nil
}
