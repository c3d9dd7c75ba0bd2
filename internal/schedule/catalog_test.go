package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/huslen0212/part-time-web-thesis/internal/jobs"
	"github.com/huslen0212/part-time-web-thesis/internal/schedule"
)

type fakeLister struct {
	jobs  []jobs.Job
	err   error
	calls int
}

func (f *fakeLister) ListOpen(_ context.Context, now time.Time) ([]jobs.Job, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []jobs.Job
	for _, j := range f.jobs {
		if j.StartTime.After(now) {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeCache struct {
	slots    []schedule.Slot
	ok       bool
	loadErr  error
	storeErr error
	clearErr error
	stores   int
}

func (f *fakeCache) Load(context.Context) ([]schedule.Slot, bool, error) {
	return f.slots, f.ok, f.loadErr
}

func (f *fakeCache) Store(_ context.Context, slots []schedule.Slot) error {
	f.stores++
	if f.storeErr != nil {
		return f.storeErr
	}
	f.slots, f.ok = slots, true
	return nil
}

func (f *fakeCache) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.slots, f.ok = nil, false
	return nil
}

func ulaanbaatar(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ulaanbaatar")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func utc(month time.Month, d, h int) time.Time {
	return time.Date(2025, month, d, h, 0, 0, 0, time.UTC)
}

func strp(s string) *string { return &s }

// ── SlotsFromJobs ──────────────────────────────────────────────────────────

func TestSlotsFromJobs(t *testing.T) {
	loc := ulaanbaatar(t) // UTC+8
	list := []jobs.Job{
		// Mon 2 June 09:00–17:00 local.
		{ID: 1, Title: "Barista", Category: "cafe", StartTime: utc(6, 2, 1), EndTime: utc(6, 2, 9),
			Employer: jobs.Employer{EmployerName: strp("Cafe")}},
		// Mon 22:00 → Tue 02:00 local: clipped at midnight.
		{ID: 2, Category: "security", StartTime: utc(6, 2, 14), EndTime: utc(6, 2, 18)},
		// Sun 1 June 23:00 UTC is already Mon 07:00 local.
		{ID: 3, StartTime: utc(6, 1, 23), EndTime: utc(6, 2, 2)},
	}

	got := schedule.SlotsFromJobs(list, loc)
	if len(got) != 3 {
		t.Fatalf("got %d slots, want 3", len(got))
	}

	if s := got[0]; s.Day != time.Monday || s.Start != 9 || s.End != 17 || s.Company != "Cafe" {
		t.Errorf("day job slot = %+v", s)
	}
	if s := got[1]; s.Day != time.Monday || s.Start != 22 || s.End != 24 || s.Company != "" {
		t.Errorf("overnight slot = %+v", s)
	}
	if s := got[2]; s.Day != time.Monday || s.Start != 7 || s.End != 10 {
		t.Errorf("timezone shifted slot = %+v", s)
	}
	if !got[0].StartsAt.Equal(utc(6, 2, 1)) {
		t.Errorf("StartsAt = %s", got[0].StartsAt)
	}
}

// ── Catalog ────────────────────────────────────────────────────────────────

func newCatalog(t *testing.T, lister *fakeLister, cache *fakeCache, now time.Time) *schedule.Catalog {
	t.Helper()
	c := schedule.NewCatalog(lister, cache, time.UTC)
	c.SetNow(func() time.Time { return now })
	return c
}

func TestCatalog_MissLoadsAndStores(t *testing.T) {
	lister := &fakeLister{jobs: []jobs.Job{
		{ID: 1, StartTime: utc(6, 2, 9), EndTime: utc(6, 2, 12)},
		{ID: 2, StartTime: utc(5, 1, 9), EndTime: utc(5, 1, 12)}, // past
	}}
	cache := &fakeCache{}
	c := newCatalog(t, lister, cache, utc(6, 1, 0))

	got, err := c.Slots(context.Background())
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(got) != 1 || got[0].JobID != 1 {
		t.Errorf("slots = %+v, want job 1 only", got)
	}
	if lister.calls != 1 || cache.stores != 1 {
		t.Errorf("lister calls = %d, stores = %d; want 1 and 1", lister.calls, cache.stores)
	}

	if _, err := c.Slots(context.Background()); err != nil {
		t.Fatalf("second Slots: %v", err)
	}
	if lister.calls != 1 {
		t.Errorf("a warm cache must not hit the database (calls = %d)", lister.calls)
	}
}

func TestCatalog_HitDropsStartedSlots(t *testing.T) {
	cache := &fakeCache{ok: true, slots: []schedule.Slot{
		{JobID: 1, StartsAt: utc(6, 1, 8)},
		{JobID: 2, StartsAt: utc(6, 1, 12)},
	}}
	lister := &fakeLister{}
	c := newCatalog(t, lister, cache, utc(6, 1, 10))

	got, err := c.Slots(context.Background())
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(got) != 1 || got[0].JobID != 2 {
		t.Errorf("slots = %+v, want job 2 only", got)
	}
	if lister.calls != 0 {
		t.Error("cache hit must not query the database")
	}
}

func TestCatalog_CacheFailuresFallBack(t *testing.T) {
	lister := &fakeLister{jobs: []jobs.Job{{ID: 7, StartTime: utc(6, 2, 9), EndTime: utc(6, 2, 12)}}}
	cache := &fakeCache{loadErr: errors.New("redis down"), storeErr: errors.New("redis down")}
	c := newCatalog(t, lister, cache, utc(6, 1, 0))

	got, err := c.Slots(context.Background())
	if err != nil {
		t.Fatalf("cache errors must not fail Slots: %v", err)
	}
	if len(got) != 1 || got[0].JobID != 7 {
		t.Errorf("slots = %+v", got)
	}
}

func TestCatalog_DatabaseError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newCatalog(t, &fakeLister{err: boom}, &fakeCache{}, utc(6, 1, 0))
	if _, err := c.Slots(context.Background()); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped %v", err, boom)
	}
}

func TestCatalog_InvalidatePicksUpNewJobs(t *testing.T) {
	lister := &fakeLister{jobs: []jobs.Job{{ID: 1, StartTime: utc(6, 2, 9), EndTime: utc(6, 2, 12)}}}
	cache := &fakeCache{}
	c := newCatalog(t, lister, cache, utc(6, 1, 0))

	if _, err := c.Slots(context.Background()); err != nil {
		t.Fatalf("Slots: %v", err)
	}

	lister.jobs = append(lister.jobs, jobs.Job{ID: 2, StartTime: utc(6, 3, 9), EndTime: utc(6, 3, 12)})
	got, _ := c.Slots(context.Background())
	if len(got) != 1 {
		t.Fatalf("warm cache: %d slots, want the stale 1", len(got))
	}

	c.Invalidate(context.Background())
	got, err := c.Slots(context.Background())
	if err != nil {
		t.Fatalf("Slots after Invalidate: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("after Invalidate: %d slots, want 2", len(got))
	}
	if lister.calls != 2 {
		t.Errorf("lister calls = %d, want 2", lister.calls)
	}
}

func TestCatalog_InvalidateErrorIsLogged(t *testing.T) {
	cache := &fakeCache{ok: true, clearErr: errors.New("redis down")}
	c := newCatalog(t, &fakeLister{}, cache, utc(6, 1, 0))
	c.Invalidate(context.Background())
	if !cache.ok {
		t.Error("a failed clear must leave the cache untouched")
	}
}
