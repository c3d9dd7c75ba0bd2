package requests

import "context"

// Store is the persistence surface the workflow needs. PostgresStore is the
// production implementation.
type Store interface {
	// JobExists reports whether a job with the given id exists.
	JobExists(ctx context.Context, jobID int64) (bool, error)
	// RequestExists reports whether any request, in any status, exists for
	// the (job seeker, job) pair.
	RequestExists(ctx context.Context, jobSeekerID, jobID int64) (bool, error)
	// InsertRequest stores a new PENDING request. A uniqueness violation on
	// (job seeker, job) is reported as ErrDuplicateRequest.
	InsertRequest(ctx context.Context, jobSeekerID, jobID int64, workerCount int) (*Request, error)

	ListBySeeker(ctx context.Context, jobSeekerID int64) ([]SeekerRequest, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]EmployerRequest, error)

	// InTx runs fn in a single transaction: a non-nil return rolls back
	// every write fn made.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the transactional part of Store used by the approve/reject workflow.
type Tx interface {
	// OwnedRequest loads a request whose job belongs to employerID, along
	// with the job's window. Missing or foreign requests yield a
	// NotFoundError.
	OwnedRequest(ctx context.Context, requestID, employerID int64) (*Request, Window, error)
	// LockJobSeeker serialises status changes for one job seeker until the
	// transaction ends.
	LockJobSeeker(ctx context.Context, jobSeekerID int64) error
	// SetStatus writes the new status and returns the updated row.
	SetStatus(ctx context.Context, requestID int64, to Status) (*Request, error)
	// CancelOverlapping moves every other request of jobSeekerID that is in
	// a Cancellable state and whose job window overlaps w to CANCEL, and
	// returns their ids.
	CancelOverlapping(ctx context.Context, jobSeekerID, exceptRequestID int64, w Window) ([]int64, error)
}
