package schedule

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

// SlotSource is satisfied by *Catalog.
type SlotSource interface {
	Slots(ctx context.Context) ([]Slot, error)
}

// Handler exposes POST /schedule/match.
type Handler struct {
	src SlotSource
}

// NewHandler returns a configured Handler.
func NewHandler(src SlotSource) *Handler {
	return &Handler{src: src}
}

// RegisterRoutes mounts the route on rg, which must already run
// auth.Authenticate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/schedule/match", h.match)
}

// AvailabilityInput is one row of the request body.
type AvailabilityInput struct {
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Category string `json:"category"`
}

// ParseAvailability validates the rows and converts them for Match.
func ParseAvailability(rows []AvailabilityInput) ([]Availability, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("availability must contain at least one row")
	}
	out := make([]Availability, 0, len(rows))
	for i, r := range rows {
		if strings.TrimSpace(r.Day) == "" || strings.TrimSpace(r.Start) == "" || strings.TrimSpace(r.End) == "" {
			return nil, apperr.Validation("availability[%d]: day, start and end are required", i)
		}
		day, err := ParseWeekday(r.Day)
		if err != nil {
			return nil, apperr.Validation("availability[%d]: %v", i, err)
		}
		start, err := ParseClock(r.Start)
		if err != nil {
			return nil, apperr.Validation("availability[%d]: %v", i, err)
		}
		end, err := ParseClock(r.End)
		if err != nil {
			return nil, apperr.Validation("availability[%d]: %v", i, err)
		}
		if start >= end {
			return nil, apperr.Validation("availability[%d]: start must be before end", i)
		}
		out = append(out, Availability{
			Day:      day,
			Start:    start,
			End:      end,
			Category: strings.TrimSpace(r.Category),
		})
	}
	return out, nil
}

type matchView struct {
	JobID             int64   `json:"jobId"`
	Title             string  `json:"title"`
	Company           string  `json:"company"`
	Category          string  `json:"category"`
	Day               string  `json:"day"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	AvailabilityIndex int     `json:"availabilityIndex"`
	OverlapPercentage float64 `json:"overlapPercentage"`
	FitScore          int     `json:"fitScore"`
}

func viewOf(m Match) matchView {
	return matchView{
		JobID:             m.JobID,
		Title:             m.Title,
		Company:           m.Company,
		Category:          m.Category,
		Day:               m.Day.String(),
		Start:             FormatClock(m.Start),
		End:               FormatClock(m.End),
		AvailabilityIndex: m.AvailabilityIndex,
		OverlapPercentage: m.OverlapPercentage,
		FitScore:          m.FitScore,
	}
}

func (h *Handler) match(c *gin.Context) {
	var body struct {
		Availability []AvailabilityInput `json:"availability"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Error(c, apperr.Validation("invalid JSON body"))
		return
	}
	avail, err := ParseAvailability(body.Availability)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	slots, err := h.src.Slots(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}

	matches := MatchSlots(slots, avail)
	views := make([]matchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, viewOf(m))
	}

	clusters := make(map[string][][]matchView)
	for day, groups := range Cluster(matches) {
		vg := make([][]matchView, 0, len(groups))
		for _, g := range groups {
			row := make([]matchView, 0, len(g))
			for _, m := range g {
				row = append(row, viewOf(m))
			}
			vg = append(vg, row)
		}
		clusters[day.String()] = vg
	}

	httpx.OK(c, gin.H{"matches": views, "clusters": clusters})
}
