// Package service contains application services for the vault, the activity
// log, the password generator, authentication, and settings.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"securevault/internal/model"
	"securevault/internal/repository"
)

// maxActivities caps the stored log; older entries are discarded on append.
const maxActivities = 100

// placeholderIP stands in for a real origin lookup, which the log never had.
const placeholderIP = "192.168.1.1"

// userAgentLimit is how much of the client string each record keeps.
const userAgentLimit = 50

// ActivityFilter narrows List results. Zero values (or "all") disable a filter.
type ActivityFilter struct {
	Search string // case-insensitive substring over action and details
	Action string // case-insensitive substring over action only
	Window string // one of "hour", "day", "week", "month"
}

// ActivityStats summarizes the unfiltered log.
type ActivityStats struct {
	Today       int // entries in the last 24h
	Week        int // entries in the last 7d
	TotalLogins int // entries whose action mentions login
	Total       int
}

// ActivityService is the append-only, capped event log written by every
// mutating action in the application.
type ActivityService interface {
	// Append prepends one event and truncates the log to the most recent 100.
	Append(ctx context.Context, action, details string) error
	// List returns events matching all filters, newest first.
	List(ctx context.Context, f ActivityFilter) ([]model.Activity, error)
	// Stats returns counts over the unfiltered log.
	Stats(ctx context.Context) (ActivityStats, error)
}

type ActivityServiceImpl struct {
	repo      repository.ActivityRepository
	userAgent string
}

// NewActivityService constructs ActivityService. userAgent identifies the
// client build and is truncated into each record.
func NewActivityService(repo repository.ActivityRepository, userAgent string) *ActivityServiceImpl {
	return &ActivityServiceImpl{repo: repo, userAgent: userAgent}
}

// Append writes one event. The new record is always the head of the stored
// sequence, which keeps the collection in reverse-chronological order without
// ever sorting.
func (s *ActivityServiceImpl) Append(ctx context.Context, action, details string) error {
	acts, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := model.Activity{
		ID:        model.NewID(now),
		Action:    action,
		Details:   details,
		Timestamp: now,
		IPAddress: placeholderIP,
		UserAgent: truncateUA(s.userAgent),
	}
	acts = append([]model.Activity{rec}, acts...)
	if len(acts) > maxActivities {
		acts = acts[:maxActivities]
	}
	return s.repo.Save(ctx, acts)
}

// truncateUA keeps the first 50 characters and always appends the ellipsis
// marker, matching the stored format exactly.
func truncateUA(ua string) string {
	if len(ua) > userAgentLimit {
		ua = ua[:userAgentLimit]
	}
	return ua + "..."
}

// List applies search, action, and recency filters with logical AND.
func (s *ActivityServiceImpl) List(ctx context.Context, f ActivityFilter) ([]model.Activity, error) {
	acts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var threshold time.Time
	if d, ok := windowDuration(f.Window); ok {
		threshold = time.Now().Add(-d)
	}

	out := make([]model.Activity, 0, len(acts))
	for _, a := range acts {
		if f.Search != "" &&
			!containsFold(a.Action, f.Search) && !containsFold(a.Details, f.Search) {
			continue
		}
		if f.Action != "" && f.Action != "all" && !containsFold(a.Action, f.Action) {
			continue
		}
		if !threshold.IsZero() && !a.Timestamp.After(threshold) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func windowDuration(w string) (time.Duration, bool) {
	switch w {
	case "hour":
		return time.Hour, true
	case "day":
		return 24 * time.Hour, true
	case "week":
		return 7 * 24 * time.Hour, true
	case "month":
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Stats computes rolling-window counts, not calendar-aligned ones.
func (s *ActivityServiceImpl) Stats(ctx context.Context) (ActivityStats, error) {
	acts, err := s.repo.List(ctx)
	if err != nil {
		return ActivityStats{}, err
	}
	now := time.Now()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	st := ActivityStats{Total: len(acts)}
	for _, a := range acts {
		if a.Timestamp.After(dayAgo) {
			st.Today++
		}
		if a.Timestamp.After(weekAgo) {
			st.Week++
		}
		if containsFold(a.Action, "login") {
			st.TotalLogins++
		}
	}
	return st, nil
}

// FormatRelative renders a timestamp the way the activity list displays it.
func FormatRelative(ts time.Time) string {
	diff := time.Since(ts)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return ts.Format("1/2/2006")
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
