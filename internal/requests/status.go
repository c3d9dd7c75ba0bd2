// Package requests defines the request state machine and the workflow that
// drives it.
//
// Valid status graph:
//
//	PENDING ──► APPROVED   (owning employer)
//	   │
//	   ├──────► REJECTED   (owning employer)
//	   │
//	   └──────► CANCEL     (system, when an overlapping request of the same
//	                        job seeker is approved)
//
// APPROVED, REJECTED and CANCEL are terminal states.
package requests

import (
	"fmt"
	"sort"
)

// Status values mirror the request_status enum in PostgreSQL.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCancel   Status = "CANCEL"
)

// Actor distinguishes who drives a transition.
type Actor int

const (
	ActorEmployer Actor = iota
	ActorSystem
)

// validTransitions lists every allowed (from → to) pair per actor.
var validTransitions = map[Actor]map[Status][]Status{
	ActorEmployer: {
		StatusPending: {StatusApproved, StatusRejected},
	},
	ActorSystem: {
		StatusPending: {StatusCancel},
	},
}

// ParseDecision accepts only the statuses an employer may request:
// APPROVED or REJECTED.
func ParseDecision(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("status must be APPROVED or REJECTED, got %q", s)
}

// IsTransitionAllowed returns true when actor may move a request from → to.
func IsTransitionAllowed(actor Actor, from, to Status) bool {
	for _, s := range validTransitions[actor][from] {
		if s == to {
			return true
		}
	}
	return false
}

// Cancellable lists the states the system may move to CANCEL when an
// overlapping request is approved.
func Cancellable() []Status {
	var out []Status
	for from, tos := range validTransitions[ActorSystem] {
		for _, to := range tos {
			if to == StatusCancel {
				out = append(out, from)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
