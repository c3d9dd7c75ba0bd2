package requests_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/events"
	"github.com/huslen0212/part-time-web-thesis/internal/requests"
)

// memStore is an in-memory requests.Store. InTx works on a copy of the
// request table and swaps it in only when fn succeeds, so injected failures
// leave no trace. The store mutex is held for the whole transaction, which
// plays the role of the per-job-seeker advisory lock.
type memStore struct {
	mu     sync.Mutex
	jobs   map[int64]memJob
	reqs   map[int64]requests.Request
	nextID int64
	clock  time.Time

	failSetStatus error
	failCancel    error
}

type memJob struct {
	id         int64
	employerID int64
	title      string
	window     requests.Window
}

func newMemStore() *memStore {
	return &memStore{
		jobs:  make(map[int64]memJob),
		reqs:  make(map[int64]requests.Request),
		clock: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) addJob(id, employerID int64, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = memJob{id: id, employerID: employerID, title: "job", window: requests.Window{Start: start, End: end}}
}

func (s *memStore) status(id int64) requests.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reqs[id].Status
}

func (s *memStore) forceStatus(id int64, st requests.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.reqs[id]
	r.Status = st
	s.reqs[id] = r
}

func (s *memStore) JobExists(_ context.Context, jobID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	return ok, nil
}

func (s *memStore) RequestExists(_ context.Context, jobSeekerID, jobID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.JobSeekerID == jobSeekerID && r.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) InsertRequest(_ context.Context, jobSeekerID, jobID int64, workerCount int) (*requests.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.JobSeekerID == jobSeekerID && r.JobID == jobID {
			return nil, requests.ErrDuplicateRequest
		}
	}
	s.nextID++
	s.clock = s.clock.Add(time.Minute)
	r := requests.Request{
		ID:          s.nextID,
		JobSeekerID: jobSeekerID,
		JobID:       jobID,
		Status:      requests.StatusPending,
		WorkerCount: workerCount,
		CreatedAt:   s.clock,
	}
	s.reqs[r.ID] = r
	return &r, nil
}

func (s *memStore) ListBySeeker(_ context.Context, jobSeekerID int64) ([]requests.SeekerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]requests.SeekerRequest, 0)
	for _, r := range s.reqs {
		if r.JobSeekerID != jobSeekerID {
			continue
		}
		j := s.jobs[r.JobID]
		out = append(out, requests.SeekerRequest{
			Request: r,
			Job:     requests.SeekerJob{ID: j.id, Title: j.title, StartTime: j.window.Start, EndTime: j.window.End},
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (s *memStore) ListByEmployer(_ context.Context, employerID int64) ([]requests.EmployerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]requests.EmployerRequest, 0)
	for _, r := range s.reqs {
		j := s.jobs[r.JobID]
		if j.employerID != employerID {
			continue
		}
		out = append(out, requests.EmployerRequest{
			Request: r,
			Job:     requests.EmployerJob{ID: j.id, Title: j.title, StartTime: j.window.Start, EndTime: j.window.End},
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (s *memStore) InTx(_ context.Context, fn func(requests.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make(map[int64]requests.Request, len(s.reqs))
	for id, r := range s.reqs {
		working[id] = r
	}
	if err := fn(&memTx{s: s, reqs: working}); err != nil {
		return err
	}
	s.reqs = working
	return nil
}

type memTx struct {
	s    *memStore
	reqs map[int64]requests.Request
}

func (t *memTx) OwnedRequest(_ context.Context, requestID, employerID int64) (*requests.Request, requests.Window, error) {
	r, ok := t.reqs[requestID]
	if !ok {
		return nil, requests.Window{}, apperr.NotFound("request")
	}
	j := t.s.jobs[r.JobID]
	if j.employerID != employerID {
		return nil, requests.Window{}, apperr.NotFound("request")
	}
	return &r, j.window, nil
}

func (t *memTx) LockJobSeeker(context.Context, int64) error { return nil }

func (t *memTx) SetStatus(_ context.Context, requestID int64, to requests.Status) (*requests.Request, error) {
	if t.s.failSetStatus != nil {
		return nil, t.s.failSetStatus
	}
	r := t.reqs[requestID]
	r.Status = to
	t.reqs[requestID] = r
	return &r, nil
}

func (t *memTx) CancelOverlapping(_ context.Context, jobSeekerID, exceptRequestID int64, w requests.Window) ([]int64, error) {
	if t.s.failCancel != nil {
		return nil, t.s.failCancel
	}
	var ids []int64
	for id, r := range t.reqs {
		if id == exceptRequestID || r.JobSeekerID != jobSeekerID ||
			!requests.IsTransitionAllowed(requests.ActorSystem, r.Status, requests.StatusCancel) {
			continue
		}
		if !w.Overlaps(t.s.jobs[r.JobID].window) {
			continue
		}
		r.Status = requests.StatusCancel
		t.reqs[id] = r
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, nil
}

// recorder captures published events; err makes every Publish fail.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
