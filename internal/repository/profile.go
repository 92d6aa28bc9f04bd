package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devconnector/devconnector-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists profiles. Skills, social links, experience and education
// are stored as JSON documents on the profile row.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const selectProfile = `
	SELECT p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location, p.status,
		p.skills, p.bio, p.githubusername, p.social, p.experience, p.education,
		p.created_at, p.updated_at
	FROM profiles p JOIN users u ON u.id = p.user_id`

// upsertProfile inserts a profile or replaces every mutable column of the user's existing one.
const upsertProfile = `
	INSERT INTO profiles (id, user_id, company, website, location, status, skills, bio,
		githubusername, social, experience, education)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		company        = VALUES(company),
		website        = VALUES(website),
		location       = VALUES(location),
		status         = VALUES(status),
		skills         = VALUES(skills),
		bio            = VALUES(bio),
		githubusername = VALUES(githubusername),
		social         = VALUES(social),
		experience     = VALUES(experience),
		education      = VALUES(education),
		updated_at     = CURRENT_TIMESTAMP`

// GetByUserID retrieves the profile owned by userID.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, selectProfile+` WHERE p.user_id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every profile, most recently created first.
func (r *ProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfile+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// Upsert creates the user's profile or overwrites it. The user_id unique key decides which.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	skills, err := marshalJSON(p.Skills)
	if err != nil {
		return err
	}
	social, err := json.Marshal(p.Social)
	if err != nil {
		return fmt.Errorf("encoding social: %w", err)
	}
	experience, err := marshalJSON(p.Experience)
	if err != nil {
		return err
	}
	education, err := marshalJSON(p.Education)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, upsertProfile,
		p.ID, p.UserID, p.Company, p.Website, p.Location, p.Status, skills, p.Bio,
		p.GitHubUsername, social, experience, education,
	)
	if err != nil {
		// The owning user row is gone, e.g. deleted after the token was issued.
		if isMySQLError(err, mysqlNoParentRow) {
			return ErrUserNotFound
		}
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var skills, social, experience, education []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.User.Name, &p.User.Avatar, &p.Company, &p.Website, &p.Location, &p.Status,
		&skills, &p.Bio, &p.GitHubUsername, &social, &experience, &education,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	p.User.ID = p.UserID

	for _, doc := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"skills", skills, &p.Skills},
		{"social", social, &p.Social},
		{"experience", experience, &p.Experience},
		{"education", education, &p.Education},
	} {
		if len(doc.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(doc.raw, doc.dst); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", doc.name, err)
		}
	}

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []model.Experience{}
	}
	if p.Education == nil {
		p.Education = []model.Education{}
	}

	return &p, nil
}

// marshalJSON encodes a nil slice as [] so the column never holds null.
func marshalJSON[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding profile document: %w", err)
	}
	return b, nil
}
