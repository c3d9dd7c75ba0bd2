// Package auth issues and verifies bearer credentials and resolves them into a
// caller Identity.
//
// An Identity is a closed variant: either a JobSeekerIdentity or an
// EmployerIdentity. The variant is chosen once from the role claim and is
// never re-tagged; handlers switch on the concrete type instead of comparing
// role strings.
package auth

import "fmt"

// Role mirrors the user_role enum in PostgreSQL.
type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleEmployer  Role = "EMPLOYER"
)

// ParseRole converts a raw string to a Role. It is case-sensitive.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleJobSeeker, RoleEmployer:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity is an authenticated caller.
type Identity interface {
	UserID() int64
	Role() Role
	DisplayName() string

	sealed()
}

// JobSeekerIdentity is a caller acting as a job seeker.
type JobSeekerIdentity struct {
	ID       int64
	UserName string
}

func (j JobSeekerIdentity) UserID() int64       { return j.ID }
func (j JobSeekerIdentity) Role() Role          { return RoleJobSeeker }
func (j JobSeekerIdentity) DisplayName() string { return j.UserName }
func (JobSeekerIdentity) sealed()               {}

// EmployerIdentity is a caller acting as an employer.
type EmployerIdentity struct {
	ID           int64
	EmployerName string
}

func (e EmployerIdentity) UserID() int64       { return e.ID }
func (e EmployerIdentity) Role() Role          { return RoleEmployer }
func (e EmployerIdentity) DisplayName() string { return e.EmployerName }
func (EmployerIdentity) sealed()               {}

// NewIdentity builds the variant matching role.
func NewIdentity(userID int64, role Role, name string) (Identity, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id %d", userID)
	}
	switch role {
	case RoleJobSeeker:
		return JobSeekerIdentity{ID: userID, UserName: name}, nil
	case RoleEmployer:
		return EmployerIdentity{ID: userID, EmployerName: name}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}
