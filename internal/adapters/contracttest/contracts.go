// Package contracttest holds behavior suites every port implementation must
// pass, so memory, SQLite and Postgres adapters stay interchangeable.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	familyrepoport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
	idempotencyport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/idempotency"
)

type CleanupFunc = func()

type FamilyRepoFactory func(t *testing.T) (familyrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Method:   "POST",
		Route:    "/families",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Body hash is part of the fingerprint.
	other := fp
	other.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other fingerprint: ok=%v err=%v", ok, err)
	}
}

// SampleProfile returns a profile that exercises every field shape.
func SampleProfile() domain.FamilyProfile {
	return domain.FamilyProfile{
		BasicInfo: &domain.BasicInfo{
			FamilyName: "Martin",
			HomeCity:   "Lyon",
			TravelType: domain.TravelTypeBeach,
			Budget:     domain.BudgetModerate,
		},
		DietaryPreferences: &domain.DietaryPreferences{
			Restrictions: domain.StringSet{"Vegetarian"},
			Allergies:    domain.StringSet{"Peanuts", "Shellfish"},
			Notes:        "no spicy food",
		},
		Members: []domain.Member{
			{
				ID:                  "m-paul",
				Name:                "Paul",
				Age:                 "41",
				Role:                domain.RoleParent,
				DietaryRestrictions: domain.StringSet{},
				Preferences: &domain.AdultPreferences{
					TravelExperience:   domain.StringSet{"Backpacking"},
					Interests:          domain.StringSet{"Museums", "Hiking"},
					ComfortLevel:       domain.ComfortLevelModerate,
					PacePreference:     domain.PaceBalanced,
					AccommodationStyle: domain.StringSet{},
				},
			},
			{
				ID:                  "m-lea",
				Name:                "Léa",
				Age:                 "7",
				Role:                domain.RoleChild,
				DietaryRestrictions: domain.StringSet{"Lactose-free"},
				Preferences: &domain.ChildPreferences{
					Interests:     domain.StringSet{"Animaux"},
					EnergyLevel:   domain.EnergyHigh,
					AttentionSpan: domain.StringSet{},
					ComfortItems:  domain.StringSet{"Doudou"},
					SpecialNeeds:  domain.StringSet{},
				},
			},
		},
		Activities: &domain.Activities{
			Interests: domain.StringSet{"Zoo", "Beach"},
			Notes:     "",
		},
	}
}

func RunFamilyRepo(t *testing.T, newRepo FamilyRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.FamilyID(uuid.NewString())
	a := domain.Family{ID: aID, Profile: SampleProfile(), CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if err := repo.Create(ctx, a); !errors.Is(err, familyrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.GetByID(ctx, domain.FamilyID(uuid.NewString())); !errors.Is(err, familyrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v, want ErrNotFound", err)
	}

	// Deterministic list ordering by family name (case-insensitive).
	bID := domain.FamilyID(uuid.NewString())
	bProfile := SampleProfile()
	bProfile.BasicInfo.FamilyName = "bernard"
	bProfile.DietaryPreferences = nil
	bProfile.Activities = nil
	if err := repo.Create(ctx, domain.Family{ID: bID, Profile: bProfile, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	fs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fs) < 2 || fs[0].ID != bID || fs[1].ID != aID {
		t.Fatalf("unexpected ordering: %#v", fs)
	}
	if fs[0].Profile.DietaryPreferences != nil || fs[0].Profile.Activities != nil {
		t.Fatalf("absent sections should stay absent: %#v", fs[0].Profile)
	}

	// Save replaces the profile wholesale and keeps member order.
	updated := got
	updated.Profile.Members = []domain.Member{got.Profile.Members[1], got.Profile.Members[0]}
	updated.Profile.Activities = nil
	updated.UpdatedAt = now.Add(time.Hour)
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Fatalf("save mismatch (-want +got):\n%s", diff)
	}

	if err := repo.Save(ctx, domain.Family{ID: domain.FamilyID(uuid.NewString())}); !errors.Is(err, familyrepoport.ErrNotFound) {
		t.Fatalf("Save missing err=%v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, familyrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, familyrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
}
