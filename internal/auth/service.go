package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/db"
)

// RegisterInput mirrors the registration body: the user record plus the
// profile of the chosen role.
type RegisterInput struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	} `json:"user"`
	JobSeeker *struct {
		UserName    *string `json:"userName"`
		PhoneNumber *string `json:"phoneNumber"`
	} `json:"jobSeeker"`
	Employer *struct {
		EmployerName *string `json:"employerName"`
		PhoneNumber  *string `json:"phoneNumber"`
	} `json:"employer"`
}

// Registered is returned after a successful registration.
type Registered struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}

// Service implements registration and login.
type Service struct {
	pool       *pgxpool.Pool
	tokens     *Tokens
	bcryptCost int
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, tokens *Tokens, bcryptCost int) *Service {
	return &Service{pool: pool, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates the user and its role profile in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Registered, error) {
	email := strings.TrimSpace(in.User.Email)
	if email == "" || in.User.Password == "" || in.User.Role == "" {
		return nil, apperr.Validation("email, password and role are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email %q", email)
	}
	role, err := ParseRole(in.User.Role)
	if err != nil {
		return nil, &apperr.ValidationError{Msg: err.Error()}
	}

	hash, err := HashPassword(in.User.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var userID int64
	err = db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, role)
			 VALUES ($1, $2, $3::user_role)
			 RETURNING user_id`,
			email, hash, string(role),
		).Scan(&userID)
		if db.IsUniqueViolation(err, "users_email_key") {
			return apperr.Conflict("email is already registered")
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		switch role {
		case RoleJobSeeker:
			var name, phone *string
			if in.JobSeeker != nil {
				name, phone = in.JobSeeker.UserName, in.JobSeeker.PhoneNumber
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO job_seekers (job_seeker_id, user_name, phone_number) VALUES ($1, $2, $3)`,
				userID, name, phone,
			)
		case RoleEmployer:
			var name, phone *string
			if in.Employer != nil {
				name, phone = in.Employer.EmployerName, in.Employer.PhoneNumber
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO employers (employer_id, employer_name, phone_number) VALUES ($1, $2, $3)`,
				userID, name, phone,
			)
		}
		if err != nil {
			return fmt.Errorf("insert %s profile: %w", role, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Registered{UserID: userID, Role: role}, nil
}

// Login verifies the credentials and returns a signed token. Unknown email and
// wrong password produce the same validation error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}

	var (
		userID       int64
		hash         string
		roleStr      string
		seekerName   *string
		employerName *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT u.user_id, u.password_hash, u.role::text, js.user_name, e.employer_name
		 FROM users u
		 LEFT JOIN job_seekers js ON js.job_seeker_id = u.user_id
		 LEFT JOIN employers e    ON e.employer_id    = u.user_id
		 WHERE u.email = $1`,
		email,
	).Scan(&userID, &hash, &roleStr, &seekerName, &employerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.Validation("invalid email or password")
	}
	if err != nil {
		return "", fmt.Errorf("login query: %w", err)
	}

	ok, err := CheckPassword(hash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.Validation("invalid email or password")
	}

	role, err := ParseRole(roleStr)
	if err != nil {
		return "", err
	}
	id, err := NewIdentity(userID, role, displayName(seekerName, employerName, email))
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(id)
}

// displayName picks the job-seeker name, else the employer name, else email.
func displayName(seekerName, employerName *string, email string) string {
	if seekerName != nil && *seekerName != "" {
		return *seekerName
	}
	if employerName != nil && *employerName != "" {
		return *employerName
	}
	return email
}
