package service

import (
	"context"
	"time"

	"securevault/internal/repository"
)

// DashboardStats is the overview the dashboard renders.
type DashboardStats struct {
	TotalCredentials   int
	WeakPasswords      int       // passwords shorter than 8 characters
	RecentActivity     int       // events in the last 24h
	SecurityScore      int       // 100 minus 10 per weak password, floored at 50
	LastLogin          time.Time // zero when no login was ever logged
	LastPasswordChange time.Time // zero when no credential update was ever logged
}

// DashboardService derives overview numbers from the vault and the log.
type DashboardService interface {
	Stats(ctx context.Context) (DashboardStats, error)
}

type DashboardServiceImpl struct {
	credentials repository.CredentialRepository
	activities  repository.ActivityRepository
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(credentials repository.CredentialRepository, activities repository.ActivityRepository) *DashboardServiceImpl {
	return &DashboardServiceImpl{credentials: credentials, activities: activities}
}

// Stats recomputes everything from storage on each call; there is no cache to
// invalidate.
func (s *DashboardServiceImpl) Stats(ctx context.Context) (DashboardStats, error) {
	creds, err := s.credentials.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	acts, err := s.activities.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	st := DashboardStats{TotalCredentials: len(creds)}
	for _, c := range creds {
		if c.Password != "" && len(c.Password) < 8 {
			st.WeakPasswords++
		}
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	for _, a := range acts {
		if a.Timestamp.After(dayAgo) {
			st.RecentActivity++
		}
		// the log is newest first, so the first match is the latest
		if st.LastLogin.IsZero() && containsFold(a.Action, "login") {
			st.LastLogin = a.Timestamp
		}
		if st.LastPasswordChange.IsZero() && containsFold(a.Action, "update credential") {
			st.LastPasswordChange = a.Timestamp
		}
	}

	st.SecurityScore = 100 - st.WeakPasswords*10
	if st.SecurityScore < 50 {
		st.SecurityScore = 50
	}
	return st, nil
}
