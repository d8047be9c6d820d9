package familyrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
)

// Repo is an in-memory implementation of familyrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.FamilyID]domain.Family
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.FamilyID]domain.Family),
	}
}

func (r *Repo) Create(ctx context.Context, f domain.Family) error {
	_ = ctx
	if f.ID == "" {
		return familyrepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[f.ID]; ok {
		return familyrepo.ErrAlreadyExists
	}
	r.byID[f.ID] = cloneFamily(f)
	return nil
}

func (r *Repo) Save(ctx context.Context, f domain.Family) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[f.ID]; !ok {
		return familyrepo.ErrNotFound
	}
	r.byID[f.ID] = cloneFamily(f)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.FamilyID) (domain.Family, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return domain.Family{}, familyrepo.ErrNotFound
	}
	return cloneFamily(f), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Family, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Family, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, cloneFamily(f))
	}
	sortFamilies(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.FamilyID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return familyrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneFamily(f domain.Family) domain.Family {
	out := f
	out.Profile = f.Profile.Clone()
	return out
}

func sortFamilies(fs []domain.Family) {
	sort.Slice(fs, func(i, j int) bool {
		ni := strings.ToLower(fs[i].Name())
		nj := strings.ToLower(fs[j].Name())
		if ni == nj {
			return string(fs[i].ID) < string(fs[j].ID)
		}
		return ni < nj
	})
}
