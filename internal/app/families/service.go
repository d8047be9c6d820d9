package families

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
)

const (
	CodeFamilyNotFound   = "FAMILY_NOT_FOUND"
	CodeFamilyIDConflict = "FAMILY_ID_CONFLICT"
)

// Observer is told about every family operation and its outcome.
type Observer interface {
	ObserveFamilyOp(op string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveFamilyOp(string, error) {}

type Service struct {
	repo familyrepo.Repository
	clk  clockport.Clock
	obs  Observer

	newFamilyID func() domain.FamilyID
	newMemberID func() domain.MemberID
}

type Option func(*Service)

// WithObserver reports operation outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.obs = o
		}
	}
}

func NewService(repo familyrepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		clk:  clk,
		obs:  nopObserver{},
		newFamilyID: func() domain.FamilyID {
			return domain.FamilyID(uuid.NewString())
		},
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNewIDsForTest overrides ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewIDsForTest(family func() domain.FamilyID, member func() domain.MemberID) {
	if family != nil {
		s.newFamilyID = family
	}
	if member != nil {
		s.newMemberID = member
	}
}

// ValidateFamily checks a profile without storing it and returns the
// normalized form.
func (s *Service) ValidateFamily(ctx context.Context, in ProfileInput) (domain.FamilyProfile, error) {
	_ = ctx
	p, err := buildProfile(in, s.newMemberID)
	s.obs.ObserveFamilyOp("validate", err)
	return p, err
}

func (s *Service) CreateFamily(ctx context.Context, in ProfileInput) (f domain.Family, err error) {
	defer func() { s.obs.ObserveFamilyOp("create", err) }()

	p, err := buildProfile(in, s.newMemberID)
	if err != nil {
		return domain.Family{}, err
	}
	now := s.clk.Now()
	f = domain.Family{
		ID:        s.newFamilyID(),
		Profile:   p,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, familyrepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Family{}, apperr.Conflict(CodeFamilyIDConflict, "family id conflict")
		}
		return domain.Family{}, err
	}
	return f, nil
}

func (s *Service) GetFamily(ctx context.Context, id domain.FamilyID) (domain.Family, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Family{}, mapNotFound(err)
	}
	return f, nil
}

func (s *Service) ListFamilies(ctx context.Context) ([]domain.Family, error) {
	return s.repo.List(ctx)
}

// ReplaceFamily validates in and replaces the stored profile wholesale.
func (s *Service) ReplaceFamily(ctx context.Context, id domain.FamilyID, in ProfileInput) (f domain.Family, err error) {
	defer func() { s.obs.ObserveFamilyOp("replace", err) }()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Family{}, mapNotFound(err)
	}
	p, err := buildProfile(in, s.newMemberID)
	if err != nil {
		return domain.Family{}, err
	}
	existing.Profile = p
	existing.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, existing); err != nil {
		return domain.Family{}, mapNotFound(err)
	}
	return existing, nil
}

func (s *Service) DeleteFamily(ctx context.Context, id domain.FamilyID) (err error) {
	defer func() { s.obs.ObserveFamilyOp("delete", err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, familyrepo.ErrNotFound) {
		return &apperr.Error{Status: http.StatusNotFound, Code: CodeFamilyNotFound, Message: "family not found"}
	}
	return err
}
