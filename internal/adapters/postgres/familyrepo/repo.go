package familyrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/family-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/profiledoc"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
)

// Repo is a Postgres implementation of familyrepo.Repository.
// The profile is stored as a JSONB document next to its sortable family name.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, f domain.Family) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(f.ID))
	if err != nil {
		return fmt.Errorf("invalid family id: %w", err)
	}
	doc, err := profiledoc.Marshal(f.Profile)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO families (
			external_id,
			family_name,
			profile,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5)
	`,
		id,
		f.Name(),
		doc,
		f.CreatedAt.UTC(),
		f.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return familyrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, f domain.Family) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(f.ID))
	if err != nil {
		return fmt.Errorf("invalid family id: %w", err)
	}
	doc, err := profiledoc.Marshal(f.Profile)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			UPDATE families
			SET family_name = $2,
			    profile = $3,
			    created_at = $4,
			    updated_at = $5
			WHERE external_id = $1
		`,
			id,
			f.Name(),
			doc,
			f.CreatedAt.UTC(),
			f.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return familyrepo.ErrNotFound
		}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.FamilyID) (domain.Family, error) {
	if r.pool == nil {
		return domain.Family{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		// Not a UUID, so it cannot exist.
		return domain.Family{}, familyrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT external_id, profile, created_at, updated_at
		FROM families
		WHERE external_id = $1
	`, uid)
	f, err := scanFamily(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Family{}, familyrepo.ErrNotFound
		}
		return domain.Family{}, err
	}
	return f, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Family, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT external_id, profile, created_at, updated_at
		FROM families
		ORDER BY lower(family_name) ASC, external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Family, 0)
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.FamilyID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return familyrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM families WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return familyrepo.ErrNotFound
	}
	return nil
}

func scanFamily(row pgx.Row) (domain.Family, error) {
	var (
		id        uuid.UUID
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &doc, &createdAt, &updatedAt); err != nil {
		return domain.Family{}, err
	}
	profile, err := profiledoc.Unmarshal(doc)
	if err != nil {
		return domain.Family{}, err
	}
	return domain.Family{
		ID:        domain.FamilyID(id.String()),
		Profile:   profile,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
