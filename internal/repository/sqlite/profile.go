package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*ProfileDB)(nil)

// ProfileDB implements repository.ProfileRepository. Obtain one from
// DB.Profiles().
type ProfileDB struct {
	conn *sql.DB
}

// profileSelect joins users so every profile read carries the owner's
// current display identity — resolved fresh, never snapshotted.
const profileSelect = `
	SELECT p.id, p.user_id, p.handle, p.status, p.company, p.website,
	       p.location, p.bio, p.github_username, p.skills,
	       p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram,
	       p.created_at, p.updated_at,
	       u.name, u.avatar
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

// Create inserts a profile. A handle UNIQUE violation maps to
// apperror.ErrConflict (a user_id violation would too — the service
// guarantees one-profile-per-user by going through Update instead).
func (db *ProfileDB) Create(ctx context.Context, profile *model.Profile) error {
	now := time.Now().UTC()
	profile.ID = xid.New().String()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, handle, status, company, website,
		                       location, bio, github_username, skills,
		                       youtube, twitter, facebook, linkedin, instagram,
		                       created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.UserID,
		profile.Handle,
		profile.Status,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GitHubUsername,
		joinSkills(profile.Skills),
		profile.Social.YouTube,
		profile.Social.Twitter,
		profile.Social.Facebook,
		profile.Social.LinkedIn,
		profile.Social.Instagram,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("handle is already taken")
		}
		return fmt.Errorf("sqlite: inserting profile: %w", err)
	}

	return nil
}

// Update overwrites the profile's scalar fields. The service loads the
// existing row and merges the request into it first, so "overwrite" here
// still gives merge semantics at the API surface.
func (db *ProfileDB) Update(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE profiles
		 SET handle = ?, status = ?, company = ?, website = ?, location = ?,
		     bio = ?, github_username = ?, skills = ?,
		     youtube = ?, twitter = ?, facebook = ?, linkedin = ?, instagram = ?,
		     updated_at = ?
		 WHERE id = ?`,
		profile.Handle,
		profile.Status,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GitHubUsername,
		joinSkills(profile.Skills),
		profile.Social.YouTube,
		profile.Social.Twitter,
		profile.Social.Facebook,
		profile.Social.LinkedIn,
		profile.Social.Instagram,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("handle is already taken")
		}
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("profile", profile.ID)
	}
	return nil
}

// GetByUserID returns the user's profile with entries and owner populated.
func (db *ProfileDB) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return db.getProfile(ctx, profileSelect+` WHERE p.user_id = ?`, userID)
}

// GetByHandle returns the profile published under the given handle.
func (db *ProfileDB) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return db.getProfile(ctx, profileSelect+` WHERE p.handle = ?`, handle)
}

// List returns all profiles, newest first, with entries and owner populated.
func (db *ProfileDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Profile, error) {
	query := profileSelect + ` ORDER BY p.created_at DESC, p.id DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}

	for i := range profiles {
		if err := db.loadEntries(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// AddExperience inserts an entry for the profile, generating its ID.
// Entries sort newest-insert-first on read, which gives the
// most-recent-first ordering the profile surface promises.
func (db *ProfileDB) AddExperience(ctx context.Context, profileID string, exp *model.Experience) error {
	exp.ID = xid.New().String()
	exp.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO experience (id, profile_id, title, company, location,
		                         from_date, to_date, current, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, profileID, exp.Title, exp.Company, exp.Location,
		exp.From, exp.To, exp.Current, exp.Description, exp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting experience: %w", err)
	}
	return nil
}

// RemoveExperience deletes one entry. Scoping by profile_id keeps one user
// from deleting entries off someone else's profile by guessing IDs.
func (db *ProfileDB) RemoveExperience(ctx context.Context, profileID, expID string) error {
	return db.removeEntry(ctx, "experience", profileID, expID)
}

// AddEducation inserts an education entry for the profile.
func (db *ProfileDB) AddEducation(ctx context.Context, profileID string, edu *model.Education) error {
	edu.ID = xid.New().String()
	edu.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO education (id, profile_id, school, degree, field_of_study,
		                        from_date, to_date, current, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		edu.ID, profileID, edu.School, edu.Degree, edu.FieldOfStudy,
		edu.From, edu.To, edu.Current, edu.Description, edu.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting education: %w", err)
	}
	return nil
}

// RemoveEducation deletes one education entry.
func (db *ProfileDB) RemoveEducation(ctx context.Context, profileID, eduID string) error {
	return db.removeEntry(ctx, "education", profileID, eduID)
}

// removeEntry deletes an experience/education row by ID, loudly: removing
// an entry that isn't there is NotFound, uniformly with every other delete
// path in the API.
func (db *ProfileDB) removeEntry(ctx context.Context, table, profileID, entryID string) error {
	res, err := db.conn.ExecContext(ctx,
		// table is one of two package-internal constants, never user input
		fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND profile_id = ?`, table),
		entryID, profileID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s entry %s: %w", table, entryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s entry %s: %w", table, entryID, err)
	}
	if n == 0 {
		return apperror.NotFound(table+" entry", entryID)
	}
	return nil
}

func (db *ProfileDB) getProfile(ctx context.Context, query, arg string) (*model.Profile, error) {
	row := db.conn.QueryRowContext(ctx, query, arg)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("profile", arg)
		}
		return nil, fmt.Errorf("sqlite: getting profile: %w", err)
	}
	if err := db.loadEntries(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.Profile, error) {
	var p model.Profile
	var skills string
	err := s.Scan(
		&p.ID, &p.UserID, &p.Handle, &p.Status, &p.Company, &p.Website,
		&p.Location, &p.Bio, &p.GitHubUsername, &skills,
		&p.Social.YouTube, &p.Social.Twitter, &p.Social.Facebook,
		&p.Social.LinkedIn, &p.Social.Instagram,
		&p.CreatedAt, &p.UpdatedAt,
		&p.Owner.Name, &p.Owner.Avatar,
	)
	if err != nil {
		return nil, err
	}
	p.Skills = splitSkills(skills)
	return &p, nil
}

// loadEntries fills in the experience and education lists, newest first.
func (db *ProfileDB) loadEntries(ctx context.Context, p *model.Profile) error {
	p.Experience = []model.Experience{}
	p.Education = []model.Education{}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, company, location, from_date, to_date, current, description, created_at
		 FROM experience WHERE profile_id = ?
		 ORDER BY created_at DESC, id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading experience for profile %s: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location,
			&e.From, &e.To, &e.Current, &e.Description, &e.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning experience: %w", err)
		}
		p.Experience = append(p.Experience, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: loading experience for profile %s: %w", p.ID, err)
	}

	eduRows, err := db.conn.QueryContext(ctx,
		`SELECT id, school, degree, field_of_study, from_date, to_date, current, description, created_at
		 FROM education WHERE profile_id = ?
		 ORDER BY created_at DESC, id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading education for profile %s: %w", p.ID, err)
	}
	defer eduRows.Close()
	for eduRows.Next() {
		var e model.Education
		if err := eduRows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy,
			&e.From, &e.To, &e.Current, &e.Description, &e.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning education: %w", err)
		}
		p.Education = append(p.Education, e)
	}
	if err := eduRows.Err(); err != nil {
		return fmt.Errorf("sqlite: loading education for profile %s: %w", p.ID, err)
	}

	return nil
}

// joinSkills/splitSkills map the []string domain field onto a single TEXT
// column. Skills never contain commas on input (the list arrives
// comma-separated in the first place).
func joinSkills(skills []string) string {
	return strings.Join(skills, ",")
}

func splitSkills(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
