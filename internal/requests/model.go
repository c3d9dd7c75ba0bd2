package requests

import "time"

// Request is the JSON shape of a single request row.
type Request struct {
	ID          int64     `json:"requestId"`
	JobSeekerID int64     `json:"jobSeekerId"`
	JobID       int64     `json:"jobId"`
	Status      Status    `json:"status"`
	WorkerCount int       `json:"workerCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Window is a job's time window. Two windows overlap when each starts no
// later than the other ends; touching endpoints count.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps implements the inclusive overlap test
// other.start <= w.end AND other.end >= w.start.
func (w Window) Overlaps(other Window) bool {
	return !other.Start.After(w.End) && !other.End.Before(w.Start)
}

// SeekerJob is the job summary attached to a job seeker's own requests.
type SeekerJob struct {
	ID          int64     `json:"jobId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// SeekerRequest is a Request joined with its job, as seen by the job seeker.
type SeekerRequest struct {
	Request
	Job SeekerJob `json:"job"`
}

// EmployerJob is the job summary attached to requests listed for an employer.
type EmployerJob struct {
	ID          int64     `json:"jobId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// Applicant is the job-seeker summary attached to requests listed for an
// employer.
type Applicant struct {
	UserName    *string `json:"userName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// EmployerRequest is a Request joined with its job and applicant.
type EmployerRequest struct {
	Request
	Job       EmployerJob `json:"job"`
	JobSeeker Applicant   `json:"jobSeeker"`
}

// Decision is the outcome of an approve/reject call.
type Decision struct {
	Request   *Request
	Previous  Status
	Cancelled []int64
}
