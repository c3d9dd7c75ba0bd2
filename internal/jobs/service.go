package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/events"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the job directory.
type Service struct {
	pool *pgxpool.Pool
	pub  events.Publisher
	loc  *time.Location

	onCreate []func(context.Context)
}

// NewService returns a configured Service. loc is used for timestamps that
// arrive without an offset.
func NewService(pool *pgxpool.Pool, pub events.Publisher, loc *time.Location) *Service {
	return &Service{pool: pool, pub: pub, loc: loc}
}

// OnCreate registers fn to run after every successful Create.
func (s *Service) OnCreate(fn func(context.Context)) {
	s.onCreate = append(s.onCreate, fn)
}

const selectJob = `
	SELECT j.job_id, j.employer_id, j.title, j.description, j.location, j.category,
	       j.salary, j.start_time, j.end_time, j.latitude, j.longitude,
	       j.is_template, j.worker_count, j.created_at, e.employer_name
	FROM jobs j
	LEFT JOIN employers e ON e.employer_id = j.employer_id`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Location, &j.Category,
		&j.Salary, &j.StartTime, &j.EndTime, &j.Latitude, &j.Longitude,
		&j.IsTemplate, &j.WorkerCount, &j.CreatedAt, &j.Employer.EmployerName,
	)
	return j, err
}

func collectJobs(rows pgx.Rows) ([]Job, error) {
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (Job, error) {
		return scanJob(r)
	})
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Create validates in and inserts a posting owned by employerID.
func (s *Service) Create(ctx context.Context, employerID int64, in CreateInput) (*Job, error) {
	j, err := in.Validate(s.loc)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, title, description, location, category, salary,
		                   start_time, end_time, latitude, longitude, is_template, worker_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING job_id`,
		employerID, j.Title, j.Description, j.Location, j.Category, j.Salary,
		j.StartTime, j.EndTime, j.Latitude, j.Longitude, j.IsTemplate, j.WorkerCount,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("createJob: %w", err)
	}

	created, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ev := events.New(events.TypeJobCreated, map[string]any{
		"jobId":      created.ID,
		"employerId": created.EmployerID,
		"category":   created.Category,
		"startTime":  created.StartTime,
	})
	if err := s.pub.Publish(ctx, ev); err != nil {
		slog.Warn("publish event failed", "type", ev.Type, "err", err)
	}
	for _, fn := range s.onCreate {
		fn(ctx)
	}

	return created, nil
}

// List returns every job, newest first.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	rows, err := s.pool.Query(ctx, selectJob+` ORDER BY j.created_at DESC, j.job_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	out, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("listJobs scan: %w", err)
	}
	return out, nil
}

// Get returns a single job or a NotFoundError.
func (s *Service) Get(ctx context.Context, jobID int64) (*Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx, selectJob+` WHERE j.job_id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, fmt.Errorf("getJob: %w", err)
	}
	return &j, nil
}

// ListTemplates returns the employer's jobs flagged as templates, newest first.
func (s *Service) ListTemplates(ctx context.Context, employerID int64) ([]Job, error) {
	rows, err := s.pool.Query(ctx,
		selectJob+` WHERE j.employer_id = $1 AND j.is_template
		 ORDER BY j.created_at DESC, j.job_id DESC`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listTemplates query: %w", err)
	}
	out, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("listTemplates scan: %w", err)
	}
	return out, nil
}

// UnflagTemplate clears the template flag on one of the employer's jobs. The
// job itself is kept. Returns a NotFoundError when the job does not exist or
// belongs to someone else.
func (s *Service) UnflagTemplate(ctx context.Context, employerID, jobID int64) (*Job, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_template = FALSE WHERE job_id = $1 AND employer_id = $2`,
		jobID, employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("unflagTemplate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("job")
	}
	return s.Get(ctx, jobID)
}

// Nearby returns geotagged jobs within radiusKm of (lat, lng), nearest first.
// A bounding box narrows the scan in SQL; the exact great-circle filter runs
// here.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyJob, error) {
	if err := checkCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if !(radiusKm > 0) {
		return nil, apperr.Validation("radius must be positive")
	}

	box := BoundingBox(lat, lng, radiusKm)
	rows, err := s.pool.Query(ctx,
		selectJob+` WHERE j.latitude  BETWEEN $1 AND $2
		   AND j.longitude BETWEEN $3 AND $4`,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
	)
	if err != nil {
		return nil, fmt.Errorf("nearby query: %w", err)
	}
	candidates, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("nearby scan: %w", err)
	}
	return rankByDistance(candidates, lat, lng, radiusKm), nil
}

// rankByDistance keeps the candidates within radiusKm and orders them
// nearest first, ties by job id.
func rankByDistance(candidates []Job, lat, lng, radiusKm float64) []NearbyJob {
	out := make([]NearbyJob, 0, len(candidates))
	for _, j := range candidates {
		if j.Latitude == nil || j.Longitude == nil {
			continue
		}
		d := HaversineKm(lat, lng, *j.Latitude, *j.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyJob{Job: j, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].DistanceKm != out[b].DistanceKm {
			return out[a].DistanceKm < out[b].DistanceKm
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// ListOpen returns jobs starting after now, earliest first. The schedule
// catalog is built from it.
func (s *Service) ListOpen(ctx context.Context, now time.Time) ([]Job, error) {
	rows, err := s.pool.Query(ctx,
		selectJob+` WHERE j.start_time > $1 ORDER BY j.start_time, j.job_id`, now)
	if err != nil {
		return nil, fmt.Errorf("listOpen query: %w", err)
	}
	out, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("listOpen scan: %w", err)
	}
	return out, nil
}
