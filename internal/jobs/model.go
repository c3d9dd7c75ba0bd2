// Package jobs implements the job directory: posting, browsing, templates and
// proximity search.
package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
)

// Job is the JSON shape of a posting.
type Job struct {
	ID          int64     `json:"jobId"`
	EmployerID  int64     `json:"employerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Salary      float64   `json:"salary"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	IsTemplate  bool      `json:"isTemplate"`
	WorkerCount *int      `json:"workerCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Employer    Employer  `json:"employer"`
}

// Employer is the owner summary embedded in listings.
type Employer struct {
	EmployerName *string `json:"employerName"`
}

// NearbyJob is a Job annotated with its distance from the search point.
type NearbyJob struct {
	Job
	DistanceKm float64 `json:"distanceKm"`
}

// CreateInput is the POST /jobs body. Times accept RFC 3339 or the
// "2006-01-02T15:04" form sent by datetime-local inputs.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Salary      *float64 `json:"salary"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	IsTemplate  bool     `json:"isTemplate"`
	WorkerCount *int     `json:"workerCount"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// localLayouts are tried after RFC 3339; they carry no offset and are read in
// the configured location.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// Validate checks every field and returns the normalised posting. Times
// without an offset are interpreted in loc.
func (in CreateInput) Validate(loc *time.Location) (Job, error) {
	j := Job{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Category:    strings.TrimSpace(in.Category),
		IsTemplate:  in.IsTemplate,
		WorkerCount: in.WorkerCount,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", j.Title},
		{"description", j.Description},
		{"location", j.Location},
		{"category", j.Category},
		{"startTime", in.StartTime},
		{"endTime", in.EndTime},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if in.Salary == nil {
		missing = append(missing, "salary")
	}
	if len(missing) > 0 {
		return Job{}, apperr.Validation("missing fields: %s", strings.Join(missing, ", "))
	}

	if *in.Salary <= 0 {
		return Job{}, apperr.Validation("salary must be positive")
	}
	j.Salary = *in.Salary

	var err error
	if j.StartTime, err = parseTime(in.StartTime, loc); err != nil {
		return Job{}, apperr.Validation("startTime: %v", err)
	}
	if j.EndTime, err = parseTime(in.EndTime, loc); err != nil {
		return Job{}, apperr.Validation("endTime: %v", err)
	}
	if !j.EndTime.After(j.StartTime) {
		return Job{}, apperr.Validation("endTime must be after startTime")
	}

	if j.WorkerCount != nil && *j.WorkerCount < 1 {
		return Job{}, apperr.Validation("workerCount must be at least 1")
	}

	if (j.Latitude == nil) != (j.Longitude == nil) {
		return Job{}, apperr.Validation("latitude and longitude must be given together")
	}
	if j.Latitude != nil {
		if err := checkCoordinates(*j.Latitude, *j.Longitude); err != nil {
			return Job{}, err
		}
	}

	return j, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", s)
}

func checkCoordinates(lat, lng float64) error {
	if !(lat >= -90 && lat <= 90) {
		return apperr.Validation("latitude must be within [-90, 90]")
	}
	if !(lng >= -180 && lng <= 180) {
		return apperr.Validation("longitude must be within [-180, 180]")
	}
	return nil
}
