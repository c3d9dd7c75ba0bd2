package jobs_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/jobs"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }

func validInput() jobs.CreateInput {
	return jobs.CreateInput{
		Title:       "Barista",
		Description: "Morning shift",
		Location:    "Sukhbaatar district",
		Category:    "cafe",
		Salary:      f64(50000),
		StartTime:   "2025-06-01T09:00:00Z",
		EndTime:     "2025-06-01T17:00:00Z",
	}
}

func TestValidate_OK(t *testing.T) {
	j, err := validInput().Validate(time.UTC)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if j.Salary != 50000 {
		t.Errorf("Salary = %v", j.Salary)
	}
	if got := j.EndTime.Sub(j.StartTime); got != 8*time.Hour {
		t.Errorf("window = %s, want 8h", got)
	}
	if j.WorkerCount != nil || j.Latitude != nil || j.IsTemplate {
		t.Errorf("optional fields should stay unset: %+v", j)
	}
}

func TestValidate_LocalTimeUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ulaanbaatar")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	in := validInput()
	in.StartTime = "2025-06-01T09:00"
	in.EndTime = "2025-06-01T17:00"

	j, err := in.Validate(loc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if want := time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC); !j.StartTime.Equal(want) {
		t.Errorf("StartTime = %s, want %s", j.StartTime.UTC(), want)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*jobs.CreateInput)
	}{
		{"missing title", func(in *jobs.CreateInput) { in.Title = "  " }},
		{"missing category", func(in *jobs.CreateInput) { in.Category = "" }},
		{"missing salary", func(in *jobs.CreateInput) { in.Salary = nil }},
		{"missing start", func(in *jobs.CreateInput) { in.StartTime = "" }},
		{"zero salary", func(in *jobs.CreateInput) { in.Salary = f64(0) }},
		{"negative salary", func(in *jobs.CreateInput) { in.Salary = f64(-1) }},
		{"bad start", func(in *jobs.CreateInput) { in.StartTime = "tomorrow" }},
		{"end equals start", func(in *jobs.CreateInput) { in.EndTime = in.StartTime }},
		{"end before start", func(in *jobs.CreateInput) { in.EndTime = "2025-06-01T08:00:00Z" }},
		{"zero workers", func(in *jobs.CreateInput) { in.WorkerCount = intp(0) }},
		{"lat without lng", func(in *jobs.CreateInput) { in.Latitude = f64(47.9) }},
		{"lat out of range", func(in *jobs.CreateInput) { in.Latitude, in.Longitude = f64(91), f64(106) }},
		{"lng out of range", func(in *jobs.CreateInput) { in.Latitude, in.Longitude = f64(47), f64(-181) }},
	}
	for _, c := range cases {
		in := validInput()
		c.mutate(&in)
		if _, err := in.Validate(time.UTC); !apperr.IsValidation(err) {
			t.Errorf("%s: got %v, want validation error", c.name, err)
		}
	}
}

func TestValidate_MissingFieldsListed(t *testing.T) {
	_, err := jobs.CreateInput{}.Validate(time.UTC)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "missing fields: title, description, location, category, startTime, endTime, salary"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestValidate_Optionals(t *testing.T) {
	in := validInput()
	in.IsTemplate = true
	in.WorkerCount = intp(3)
	in.Latitude, in.Longitude = f64(47.918), f64(106.917)

	j, err := in.Validate(time.UTC)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !j.IsTemplate || *j.WorkerCount != 3 || *j.Latitude != 47.918 {
		t.Errorf("optionals not carried: %+v", j)
	}
}
