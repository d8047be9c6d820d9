package familyrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/profiledoc"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
)

type row struct {
	ID        string `db:"id"`
	Profile   string `db:"profile"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Repo is a SQLite implementation of familyrepo.Repository.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, f domain.Family) error {
	doc, err := profiledoc.Marshal(f.Profile)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO families (id, family_name, profile, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(f.ID), f.Name(), string(doc), formatTime(f.CreatedAt), formatTime(f.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return familyrepo.ErrAlreadyExists
		}
		return fmt.Errorf("insert family: %w", err)
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, f domain.Family) error {
	doc, err := profiledoc.Marshal(f.Profile)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE families
		SET family_name = ?, profile = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, f.Name(), string(doc), formatTime(f.CreatedAt), formatTime(f.UpdatedAt), string(f.ID))
	if err != nil {
		return fmt.Errorf("update family: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return familyrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.FamilyID) (domain.Family, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw, `
		SELECT id, profile, created_at, updated_at FROM families WHERE id = ?
	`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Family{}, familyrepo.ErrNotFound
		}
		return domain.Family{}, fmt.Errorf("get family: %w", err)
	}
	return rw.family()
}

func (r *Repo) List(ctx context.Context) ([]domain.Family, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, profile, created_at, updated_at
		FROM families
		ORDER BY lower(family_name) ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	out := make([]domain.Family, 0, len(rows))
	for _, rw := range rows {
		f, err := rw.family()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.FamilyID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return familyrepo.ErrNotFound
	}
	return nil
}

func (rw row) family() (domain.Family, error) {
	profile, err := profiledoc.Unmarshal([]byte(rw.Profile))
	if err != nil {
		return domain.Family{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, rw.CreatedAt)
	if err != nil {
		return domain.Family{}, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, rw.UpdatedAt)
	if err != nil {
		return domain.Family{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return domain.Family{
		ID:        domain.FamilyID(rw.ID),
		Profile:   profile,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// modernc reports constraint failures only through the message text.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
