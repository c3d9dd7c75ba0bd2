// Package profile reads and updates the caller's own profile. The shape
// depends on the identity variant: job seekers carry a userName, employers an
// employerName.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/db"
)

// Profile is either a *JobSeekerProfile or an *EmployerProfile.
type Profile interface {
	profile()
}

// JobSeekerProfile is returned to job seekers.
type JobSeekerProfile struct {
	Email       string  `json:"email"`
	UserName    *string `json:"userName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// EmployerProfile is returned to employers.
type EmployerProfile struct {
	Email        string  `json:"email"`
	EmployerName *string `json:"employerName"`
	PhoneNumber  *string `json:"phoneNumber"`
}

func (*JobSeekerProfile) profile() {}
func (*EmployerProfile) profile()  {}

// UpdateInput is the PUT /profile body. Nil fields are left unchanged; the
// name field that does not match the caller's role is ignored.
type UpdateInput struct {
	Email        *string `json:"email"`
	UserName     *string `json:"userName"`
	EmployerName *string `json:"employerName"`
	PhoneNumber  *string `json:"phoneNumber"`
}

// NormalizedEmail returns the trimmed new email, or "" when none was given.
func (in UpdateInput) NormalizedEmail() (string, error) {
	if in.Email == nil {
		return "", nil
	}
	email := strings.TrimSpace(*in.Email)
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("invalid email %q", email)
	}
	return email, nil
}

// Service implements profile reads and writes.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Get returns the caller's profile or a NotFoundError.
func (s *Service) Get(ctx context.Context, id auth.Identity) (Profile, error) {
	return get(ctx, s.pool, id)
}

// Update applies in to the caller's profile and email in one transaction and
// returns the result. A taken email is a ConflictError.
func (s *Service) Update(ctx context.Context, id auth.Identity, in UpdateInput) (Profile, error) {
	email, err := in.NormalizedEmail()
	if err != nil {
		return nil, err
	}

	var out Profile
	err = db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var (
			sql  string
			name *string
		)
		switch v := id.(type) {
		case auth.JobSeekerIdentity:
			sql = `UPDATE job_seekers
			       SET user_name = COALESCE($2, user_name), phone_number = COALESCE($3, phone_number)
			       WHERE job_seeker_id = $1`
			name = in.UserName
		case auth.EmployerIdentity:
			sql = `UPDATE employers
			       SET employer_name = COALESCE($2, employer_name), phone_number = COALESCE($3, phone_number)
			       WHERE employer_id = $1`
			name = in.EmployerName
		default:
			return fmt.Errorf("unexpected identity %T", v)
		}

		tag, err := tx.Exec(ctx, sql, id.UserID(), name, in.PhoneNumber)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("profile")
		}

		if email != "" {
			_, err := tx.Exec(ctx, `UPDATE users SET email = $2 WHERE user_id = $1`, id.UserID(), email)
			if db.IsUniqueViolation(err, "users_email_key") {
				return apperr.Conflict("email is already registered")
			}
			if err != nil {
				return fmt.Errorf("update email: %w", err)
			}
		}

		out, err = get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func get(ctx context.Context, q querier, id auth.Identity) (Profile, error) {
	var (
		p   Profile
		err error
	)
	switch v := id.(type) {
	case auth.JobSeekerIdentity:
		var jp JobSeekerProfile
		err = q.QueryRow(ctx,
			`SELECT u.email, js.user_name, js.phone_number
			 FROM job_seekers js
			 JOIN users u ON u.user_id = js.job_seeker_id
			 WHERE js.job_seeker_id = $1`,
			v.ID,
		).Scan(&jp.Email, &jp.UserName, &jp.PhoneNumber)
		p = &jp
	case auth.EmployerIdentity:
		var ep EmployerProfile
		err = q.QueryRow(ctx,
			`SELECT u.email, e.employer_name, e.phone_number
			 FROM employers e
			 JOIN users u ON u.user_id = e.employer_id
			 WHERE e.employer_id = $1`,
			v.ID,
		).Scan(&ep.Email, &ep.EmployerName, &ep.PhoneNumber)
		p = &ep
	default:
		return nil, fmt.Errorf("unexpected identity %T", v)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("profile")
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
