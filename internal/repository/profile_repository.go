package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"connecty/internal/database"
	dbpostgres "connecty/internal/database/postgres"
	"connecty/internal/domain/profile"

	"github.com/google/uuid"
)

const profileSelect = `SELECT p.id, p.user_id, u.name, u.avatar, p.handle, p.company, p.website, p.location,
	p.bio, p.status, p.githubusername, p.skills, p.social, p.experience, p.education, p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

const (
	profileHandleConstraint = "profiles_handle_key"
	profileUserConstraint   = "profiles_user_id_key"
)

// PostgresProfileRepository stores a profile as one row; the social links and
// the experience/education lists live in JSONB columns of that row.
type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
}

func (r *PostgresProfileRepository) FindByHandle(ctx context.Context, handle string) (profile.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.handle = $1`, handle))
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	docs, err := encodeDocuments(p)
	if err != nil {
		return profile.Profile{}, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO profiles (id, user_id, handle, company, website, location, bio, status, githubusername, skills, social, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.UserID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
		nonNilStrings(p.Skills), docs.social, docs.experience, docs.education,
	)
	if err != nil {
		switch {
		case dbpostgres.IsUniqueViolation(err, profileUserConstraint):
			return profile.Profile{}, profile.ErrProfileExists
		case dbpostgres.IsUniqueViolation(err, profileHandleConstraint):
			return profile.Profile{}, profile.ErrHandleTaken
		}
		return profile.Profile{}, err
	}

	return r.FindByUserID(ctx, p.UserID)
}

func (r *PostgresProfileRepository) Update(ctx context.Context, userID uuid.UUID, f profile.Fields) (profile.Profile, error) {
	return r.Mutate(ctx, userID, func(p *profile.Profile) error {
		f.Apply(p)
		return nil
	})
}

func (r *PostgresProfileRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(p *profile.Profile) error) (profile.Profile, error) {
	var out profile.Profile
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		p, err := scanProfile(tx.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1 FOR UPDATE OF p`, userID))
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}

		docs, err := encodeDocuments(p)
		if err != nil {
			return err
		}
		row := tx.QueryRow(ctx,
			`UPDATE profiles
			 SET handle = $2, company = $3, website = $4, location = $5, bio = $6, status = $7,
			     githubusername = $8, skills = $9, social = $10, experience = $11, education = $12,
			     updated_at = now()
			 WHERE user_id = $1
			 RETURNING updated_at`,
			userID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
			nonNilStrings(p.Skills), docs.social, docs.experience, docs.education,
		)
		if err := row.Scan(&p.UpdatedAt); err != nil {
			if dbpostgres.IsUniqueViolation(err, profileHandleConstraint) {
				return profile.ErrHandleTaken
			}
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return profile.Profile{}, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) DeleteWithUser(ctx context.Context, userID uuid.UUID) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

type profileDocuments struct {
	social     []byte
	experience []byte
	education  []byte
}

func encodeDocuments(p profile.Profile) (profileDocuments, error) {
	var docs profileDocuments
	var err error
	if docs.social, err = json.Marshal(p.Social); err != nil {
		return docs, err
	}
	exp := p.Experience
	if exp == nil {
		exp = []profile.Experience{}
	}
	if docs.experience, err = json.Marshal(exp); err != nil {
		return docs, err
	}
	edu := p.Education
	if edu == nil {
		edu = []profile.Education{}
	}
	if docs.education, err = json.Marshal(edu); err != nil {
		return docs, err
	}
	return docs, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p                             profile.Profile
		social, experience, education []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Owner.Name, &p.Owner.Avatar, &p.Handle, &p.Company, &p.Website, &p.Location,
		&p.Bio, &p.Status, &p.GitHubUsername, &p.Skills, &social, &experience, &education, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	p.Owner.ID = p.UserID

	if len(social) > 0 {
		if err := json.Unmarshal(social, &p.Social); err != nil {
			return profile.Profile{}, fmt.Errorf("decode social: %w", err)
		}
	}
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &p.Experience); err != nil {
			return profile.Profile{}, fmt.Errorf("decode experience: %w", err)
		}
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &p.Education); err != nil {
			return profile.Profile{}, fmt.Errorf("decode education: %w", err)
		}
	}
	return p, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
