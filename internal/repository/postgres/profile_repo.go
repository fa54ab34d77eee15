package postgres

import (
	"context"
	"errors"
	"strconv"

	"go-servicios-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

// NewProfileRepository returns the ProfileStore facade backed by Postgres.
// One row per user id; Put has merge semantics (nil patch fields untouched).
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileStore {
	return &profileRepo{db: db}
}

const profileColumns = `user_id, role, full_name, phone, categories, bio,
	is_service_published, is_profile_complete, created_at, updated_at`

func (r *profileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.NewStoreError("get", err)
	}
	return p, nil
}

// Put upserts the user's profile row, merging only the fields the patch sets.
// COALESCE against the stored row keeps unspecified fields untouched, which
// the role-switch and incremental-save flows rely on.
func (r *profileRepo) Put(ctx context.Context, userID string, patch domain.ProfilePatch) error {
	query := `
		INSERT INTO user_profiles
			(user_id, role, full_name, phone, categories, bio,
			 is_service_published, is_profile_complete, created_at, updated_at)
		VALUES
			($1,
			 COALESCE($2::text, ''),
			 COALESCE($3::text, ''),
			 COALESCE($4::text, ''),
			 COALESCE($5::text[], '{}'),
			 COALESCE($6::text, ''),
			 COALESCE($7::boolean, false),
			 COALESCE($8::boolean, false),
			 now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			role                 = COALESCE($2::text, user_profiles.role),
			full_name            = COALESCE($3::text, user_profiles.full_name),
			phone                = COALESCE($4::text, user_profiles.phone),
			categories           = COALESCE($5::text[], user_profiles.categories),
			bio                  = COALESCE($6::text, user_profiles.bio),
			is_service_published = COALESCE($7::boolean, user_profiles.is_service_published),
			is_profile_complete  = COALESCE($8::boolean, user_profiles.is_profile_complete),
			updated_at           = now()`

	var role *string
	if patch.Role != nil {
		s := string(*patch.Role)
		role = &s
	}

	_, err := r.db.Exec(ctx, query, userID,
		role, patch.FullName, patch.Phone, categoriesArg(patch.Categories),
		patch.Bio, patch.IsServicePublished, patch.IsProfileComplete)
	if err != nil {
		return domain.NewStoreError("put", err)
	}
	return nil
}

func (r *profileRepo) Query(ctx context.Context, filter domain.ProfileFilter) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE 1=1`
	args := []any{}

	if filter.Role != domain.RoleUnset {
		args = append(args, string(filter.Role))
		query += ` AND role = $` + itoa(len(args))
	}
	if filter.Complete != nil {
		args = append(args, *filter.Complete)
		query += ` AND is_profile_complete = $` + itoa(len(args))
	}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		query += ` AND is_service_published = $` + itoa(len(args))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += ` AND $` + itoa(len(args)) + ` = ANY(categories)`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("query", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, domain.NewStoreError("query", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("query", err)
	}
	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var role string
	var cats []string

	err := row.Scan(
		&p.UserID, &role, &p.FullName, &p.Phone, &cats, &p.Bio,
		&p.IsServicePublished, &p.IsProfileComplete, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Role = domain.Role(role)
	for _, c := range cats {
		p.Categories = append(p.Categories, domain.Category(c))
	}
	return &p, nil
}

func categoriesArg(cats *[]domain.Category) *[]string {
	if cats == nil {
		return nil
	}
	out := make([]string, 0, len(*cats))
	for _, c := range *cats {
		out = append(out, string(c))
	}
	return &out
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
