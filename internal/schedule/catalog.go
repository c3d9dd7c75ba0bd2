package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huslen0212/part-time-web-thesis/internal/jobs"
)

// CacheKey holds the JSON snapshot of open slots.
const CacheKey = "cache:schedule_slots"

// JobLister is the slice of the job directory the catalog reads.
type JobLister interface {
	ListOpen(ctx context.Context, now time.Time) ([]jobs.Job, error)
}

// Cache stores the slot snapshot between refreshes.
type Cache interface {
	Load(ctx context.Context) ([]Slot, bool, error)
	Store(ctx context.Context, slots []Slot) error
	Clear(ctx context.Context) error
}

// Catalog serves the open job slots the matcher runs against.
type Catalog struct {
	jobs  JobLister
	cache Cache
	loc   *time.Location
	now   func() time.Time
}

// NewCatalog returns a Catalog projecting job times into loc.
func NewCatalog(jl JobLister, cache Cache, loc *time.Location) *Catalog {
	return &Catalog{jobs: jl, cache: cache, loc: loc, now: time.Now}
}

// Slots returns the open slots from the cache, rebuilding it on a miss. A
// cache failure falls back to the database. Slots that started since the
// snapshot was taken are dropped.
func (c *Catalog) Slots(ctx context.Context) ([]Slot, error) {
	slots, ok, err := c.cache.Load(ctx)
	if err != nil {
		slog.Warn("schedule cache load failed", "err", err)
	}
	if !ok || err != nil {
		return c.Refresh(ctx)
	}

	now := c.now()
	open := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartsAt.After(now) {
			open = append(open, s)
		}
	}
	return open, nil
}

// Refresh rebuilds the snapshot from the database and stores it.
func (c *Catalog) Refresh(ctx context.Context) ([]Slot, error) {
	list, err := c.jobs.ListOpen(ctx, c.now())
	if err != nil {
		return nil, fmt.Errorf("refresh catalog: %w", err)
	}
	slots := SlotsFromJobs(list, c.loc)
	if err := c.cache.Store(ctx, slots); err != nil {
		slog.Warn("schedule cache store failed", "err", err)
	}
	return slots, nil
}

// Invalidate drops the snapshot so the next Slots call rebuilds it.
func (c *Catalog) Invalidate(ctx context.Context) {
	if err := c.cache.Clear(ctx); err != nil {
		slog.Warn("schedule cache clear failed", "err", err)
	}
}

// SlotsFromJobs projects each job onto the weekday and clock time of its
// start in loc. A job ending on a later day is clipped to 24:00.
func SlotsFromJobs(list []jobs.Job, loc *time.Location) []Slot {
	out := make([]Slot, 0, len(list))
	for _, j := range list {
		start := j.StartTime.In(loc)
		end := j.EndTime.In(loc)

		s := clockHours(start)
		e := 24.0
		if sameDate(start, end) {
			e = clockHours(end)
		}
		if s >= e {
			continue
		}

		var company string
		if j.Employer.EmployerName != nil {
			company = *j.Employer.EmployerName
		}
		out = append(out, Slot{
			JobID:    j.ID,
			Title:    j.Title,
			Company:  company,
			Category: j.Category,
			Day:      start.Weekday(),
			Start:    s,
			End:      e,
			StartsAt: j.StartTime,
		})
	}
	return out
}

func clockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// RedisCache keeps the snapshot as a JSON string with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps an already-connected client.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Load reports ok=false on a cache miss.
func (r *RedisCache) Load(ctx context.Context) ([]Slot, bool, error) {
	raw, err := r.rdb.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", CacheKey, err)
	}
	var slots []Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", CacheKey, err)
	}
	return slots, true, nil
}

// Store replaces the snapshot.
func (r *RedisCache) Store(ctx context.Context, slots []Slot) error {
	if slots == nil {
		slots = []Slot{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode %s: %w", CacheKey, err)
	}
	if err := r.rdb.Set(ctx, CacheKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", CacheKey, err)
	}
	return nil
}

// Clear deletes the snapshot.
func (r *RedisCache) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, CacheKey).Err(); err != nil {
		return fmt.Errorf("del %s: %w", CacheKey, err)
	}
	return nil
}
