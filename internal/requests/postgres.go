package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/db"
)

const uniquePairConstraint = "requests_job_seeker_id_job_id_key"

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) JobExists(ctx context.Context, jobID int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE job_id = $1)`, jobID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("jobExists: %w", err)
	}
	return ok, nil
}

func (s *PostgresStore) RequestExists(ctx context.Context, jobSeekerID, jobID int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE job_seeker_id = $1 AND job_id = $2)`,
		jobSeekerID, jobID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("requestExists: %w", err)
	}
	return ok, nil
}

func (s *PostgresStore) InsertRequest(ctx context.Context, jobSeekerID, jobID int64, workerCount int) (*Request, error) {
	var r Request
	err := s.pool.QueryRow(ctx,
		`INSERT INTO requests (job_seeker_id, job_id, status, worker_count)
		 VALUES ($1, $2, 'PENDING', $3)
		 RETURNING request_id, job_seeker_id, job_id, status::text, worker_count, created_at`,
		jobSeekerID, jobID, workerCount,
	).Scan(&r.ID, &r.JobSeekerID, &r.JobID, &r.Status, &r.WorkerCount, &r.CreatedAt)
	if db.IsUniqueViolation(err, uniquePairConstraint) {
		return nil, ErrDuplicateRequest
	}
	if err != nil {
		return nil, fmt.Errorf("insertRequest: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListBySeeker(ctx context.Context, jobSeekerID int64) ([]SeekerRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.request_id, r.job_seeker_id, r.job_id, r.status::text, r.worker_count, r.created_at,
		        j.job_id, j.title, j.description, j.location, j.category, j.start_time, j.end_time
		 FROM requests r
		 JOIN jobs j ON j.job_id = r.job_id
		 WHERE r.job_seeker_id = $1
		 ORDER BY r.created_at DESC, r.request_id DESC`,
		jobSeekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listBySeeker query: %w", err)
	}
	defer rows.Close()

	out := make([]SeekerRequest, 0)
	for rows.Next() {
		var sr SeekerRequest
		if err := rows.Scan(
			&sr.ID, &sr.JobSeekerID, &sr.JobID, &sr.Status, &sr.WorkerCount, &sr.CreatedAt,
			&sr.Job.ID, &sr.Job.Title, &sr.Job.Description, &sr.Job.Location, &sr.Job.Category,
			&sr.Job.StartTime, &sr.Job.EndTime,
		); err != nil {
			return nil, fmt.Errorf("listBySeeker scan: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListByEmployer(ctx context.Context, employerID int64) ([]EmployerRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.request_id, r.job_seeker_id, r.job_id, r.status::text, r.worker_count, r.created_at,
		        j.job_id, j.title, j.description, j.start_time, j.end_time,
		        js.user_name, js.phone_number
		 FROM requests r
		 JOIN jobs j         ON j.job_id         = r.job_id
		 JOIN job_seekers js ON js.job_seeker_id = r.job_seeker_id
		 WHERE j.employer_id = $1
		 ORDER BY r.created_at DESC, r.request_id DESC`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listByEmployer query: %w", err)
	}
	defer rows.Close()

	out := make([]EmployerRequest, 0)
	for rows.Next() {
		var er EmployerRequest
		if err := rows.Scan(
			&er.ID, &er.JobSeekerID, &er.JobID, &er.Status, &er.WorkerCount, &er.CreatedAt,
			&er.Job.ID, &er.Job.Title, &er.Job.Description, &er.Job.StartTime, &er.Job.EndTime,
			&er.JobSeeker.UserName, &er.JobSeeker.PhoneNumber,
		); err != nil {
			return nil, fmt.Errorf("listByEmployer scan: %w", err)
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(Tx) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

// pgTx implements Tx on an open pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) OwnedRequest(ctx context.Context, requestID, employerID int64) (*Request, Window, error) {
	var (
		r Request
		w Window
	)
	err := t.tx.QueryRow(ctx,
		`SELECT r.request_id, r.job_seeker_id, r.job_id, r.status::text, r.worker_count, r.created_at,
		        j.start_time, j.end_time
		 FROM requests r
		 JOIN jobs j ON j.job_id = r.job_id
		 WHERE r.request_id = $1 AND j.employer_id = $2`,
		requestID, employerID,
	).Scan(&r.ID, &r.JobSeekerID, &r.JobID, &r.Status, &r.WorkerCount, &r.CreatedAt, &w.Start, &w.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, Window{}, apperr.NotFound("request")
	}
	if err != nil {
		return nil, Window{}, fmt.Errorf("ownedRequest: %w", err)
	}
	return &r, w, nil
}

// LockJobSeeker takes a transaction-scoped advisory lock keyed by the job
// seeker, so two approvals for the same person run one after the other.
func (t *pgTx) LockJobSeeker(ctx context.Context, jobSeekerID int64) error {
	_, err := t.tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended('requests.job_seeker:' || $1::text, 0))`,
		jobSeekerID,
	)
	return err
}

func (t *pgTx) SetStatus(ctx context.Context, requestID int64, to Status) (*Request, error) {
	var r Request
	err := t.tx.QueryRow(ctx,
		`UPDATE requests SET status = $1::request_status
		 WHERE request_id = $2
		 RETURNING request_id, job_seeker_id, job_id, status::text, worker_count, created_at`,
		string(to), requestID,
	).Scan(&r.ID, &r.JobSeekerID, &r.JobID, &r.Status, &r.WorkerCount, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("setStatus: %w", err)
	}
	return &r, nil
}

func (t *pgTx) CancelOverlapping(ctx context.Context, jobSeekerID, exceptRequestID int64, w Window) ([]int64, error) {
	from := make([]string, 0, 1)
	for _, st := range Cancellable() {
		from = append(from, string(st))
	}
	rows, err := t.tx.Query(ctx,
		`UPDATE requests r
		 SET status = $5::request_status
		 FROM jobs j
		 WHERE j.job_id          = r.job_id
		   AND r.job_seeker_id   = $1
		   AND r.request_id     <> $2
		   AND r.status::text    = ANY($6::text[])
		   AND j.start_time     <= $4
		   AND j.end_time       >= $3
		 RETURNING r.request_id`,
		jobSeekerID, exceptRequestID, w.Start, w.End, string(StatusCancel), from,
	)
	if err != nil {
		return nil, fmt.Errorf("cancelOverlapping: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("cancelOverlapping scan: %w", err)
	}
	return ids, nil
}
