package requests

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/events"
)

// ErrDuplicateRequest is returned when the job seeker already has a request
// for the job, whatever its status.
var ErrDuplicateRequest = &apperr.ConflictError{Msg: "a request for this job was already submitted"}

// DefaultWorkerCount applies when a submission does not name one.
const DefaultWorkerCount = 1

// Service encapsulates the request workflow. It has no dependency on
// net/http and can be used by any transport layer.
type Service struct {
	store Store
	pub   events.Publisher
}

// NewService returns a configured Service.
func NewService(store Store, pub events.Publisher) *Service {
	return &Service{store: store, pub: pub}
}

// Submit creates a PENDING request of jobSeekerID for jobID.
// Returns a NotFoundError when the job does not exist and ErrDuplicateRequest
// when a request for the pair already exists, even a REJECTED or CANCEL one.
func (s *Service) Submit(ctx context.Context, jobSeekerID, jobID int64, workerCount *int) (*Request, error) {
	if jobID <= 0 {
		return nil, apperr.Validation("jobId must be a positive integer")
	}
	count := DefaultWorkerCount
	if workerCount != nil {
		if *workerCount < 1 {
			return nil, apperr.Validation("workerCount must be at least 1")
		}
		count = *workerCount
	}

	ok, err := s.store.JobExists(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("job")
	}

	exists, err := s.store.RequestExists(ctx, jobSeekerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	req, err := s.store.InsertRequest(ctx, jobSeekerID, jobID, count)
	if err != nil {
		if apperr.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("submit: %w", err)
	}

	s.publish(ctx, events.New(events.TypeRequestSubmitted, map[string]any{
		"requestId":   req.ID,
		"jobId":       req.JobID,
		"jobSeekerId": req.JobSeekerID,
		"workerCount": req.WorkerCount,
	}))

	return req, nil
}

// Decide applies an employer's APPROVED or REJECTED decision to a request on
// one of the employer's jobs.
//
// On APPROVED every other PENDING request of the same job seeker whose job
// window overlaps the approved job's window is moved to CANCEL. The status
// write and the cascade commit together or not at all.
func (s *Service) Decide(ctx context.Context, employerID, requestID int64, rawStatus string) (*Decision, error) {
	to, err := ParseDecision(rawStatus)
	if err != nil {
		return nil, &apperr.ValidationError{Msg: err.Error()}
	}

	var d Decision
	err = s.store.InTx(ctx, func(tx Tx) error {
		req, _, err := tx.OwnedRequest(ctx, requestID, employerID)
		if err != nil {
			return err
		}

		if err := tx.LockJobSeeker(ctx, req.JobSeekerID); err != nil {
			return fmt.Errorf("lock job seeker: %w", err)
		}
		// Re-read after the lock: a concurrent approval for the same job
		// seeker may have cancelled this request meanwhile.
		req, window, err := tx.OwnedRequest(ctx, requestID, employerID)
		if err != nil {
			return err
		}

		if !IsTransitionAllowed(ActorEmployer, req.Status, to) {
			return apperr.Conflict(fmt.Sprintf("request is already %s", req.Status))
		}
		d.Previous = req.Status

		updated, err := tx.SetStatus(ctx, requestID, to)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		d.Request = updated

		if to != StatusApproved {
			return nil
		}
		cancelled, err := tx.CancelOverlapping(ctx, updated.JobSeekerID, updated.ID, window)
		if err != nil {
			return fmt.Errorf("cancel overlapping: %w", err)
		}
		d.Cancelled = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("request decided",
		"requestId", d.Request.ID, "from", d.Previous, "to", d.Request.Status,
		"cancelled", len(d.Cancelled))

	s.publish(ctx, events.New(events.TypeRequestStatusChanged, map[string]any{
		"requestId":   d.Request.ID,
		"jobId":       d.Request.JobID,
		"jobSeekerId": d.Request.JobSeekerID,
		"from":        string(d.Previous),
		"to":          string(d.Request.Status),
	}))
	for _, id := range d.Cancelled {
		s.publish(ctx, events.New(events.TypeRequestCancelled, map[string]any{
			"requestId":         id,
			"jobSeekerId":       d.Request.JobSeekerID,
			"approvedRequestId": d.Request.ID,
		}))
	}

	return &d, nil
}

// ListForJobSeeker returns the job seeker's requests with job summaries,
// newest first.
func (s *Service) ListForJobSeeker(ctx context.Context, jobSeekerID int64) ([]SeekerRequest, error) {
	out, err := s.store.ListBySeeker(ctx, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("list job seeker requests: %w", err)
	}
	return out, nil
}

// ListForEmployer returns every request against the employer's jobs with job
// and applicant summaries, newest first.
func (s *Service) ListForEmployer(ctx context.Context, employerID int64) ([]EmployerRequest, error) {
	out, err := s.store.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list employer requests: %w", err)
	}
	return out, nil
}

// publish is fire-and-forget: a broker outage never fails a committed change.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		slog.Warn("publish event failed", "type", ev.Type, "err", err)
	}
}
