package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
)

type UserAnalytics struct {
	TotalUsers     int64   `json:"total_users"`
	ActiveUsers    int64   `json:"active_users"`
	Students       int64   `json:"students"`
	Admins         int64   `json:"admins"`
	CompletionRate float64 `json:"completion_rate"`
}

type ModuleAnalytics struct {
	ModuleID       uuid.UUID `json:"module_id"`
	ModuleTitle    string    `json:"module_title"`
	CompletionRate float64   `json:"completion_rate"`
	AverageScore   float64   `json:"average_score"`
	TotalAttempts  int64     `json:"total_attempts"`
}

// Activity is one entry of the recent-activity feed. Type discriminates
// module completions from SOS requests.
type Activity struct {
	Type        string    `json:"type"`
	UserName    string    `json:"user_name"`
	ModuleTitle string    `json:"module_title,omitempty"`
	Score       *int      `json:"score,omitempty"`
	Status      string    `json:"status,omitempty"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type AlertSummary struct {
	ActiveAlerts      int64 `json:"active_alerts"`
	CriticalAlerts    int64 `json:"critical_alerts"`
	ActiveSOSRequests int64 `json:"active_sos_requests"`
	RecentAlerts24h   int64 `json:"recent_alerts_24h"`
}

type Dashboard struct {
	UserAnalytics    UserAnalytics     `json:"user_analytics"`
	ModuleAnalytics  []ModuleAnalytics `json:"module_analytics"`
	RecentActivities []Activity        `json:"recent_activities"`
	AlertSummary     AlertSummary      `json:"alert_summary"`
}

// AnalyticsService computes derived read-only statistics. It performs no
// writes; persistence errors propagate unchanged.
type AnalyticsService interface {
	Users(ctx context.Context) (*UserAnalytics, error)
	Modules(ctx context.Context) ([]ModuleAnalytics, error)
	RecentActivities(ctx context.Context, limit int) ([]Activity, error)
	Alerts(ctx context.Context) (*AlertSummary, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type analyticsService struct {
	users    repository.UserRepository
	modules  repository.ModuleRepository
	progress repository.ProgressRepository
	alerts   repository.AlertRepository
	sos      repository.SOSRepository
}

func NewAnalyticsService(
	users repository.UserRepository,
	modules repository.ModuleRepository,
	progress repository.ProgressRepository,
	alerts repository.AlertRepository,
	sos repository.SOSRepository,
) AnalyticsService {
	return &analyticsService{
		users:    users,
		modules:  modules,
		progress: progress,
		alerts:   alerts,
		sos:      sos,
	}
}

func (s *analyticsService) Users(ctx context.Context) (*UserAnalytics, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.users.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	activeModules, err := s.modules.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	var completionRate float64
	if students > 0 && activeModules > 0 {
		completed, err := s.progress.CountCompleted(ctx)
		if err != nil {
			return nil, err
		}
		completionRate = float64(completed) / float64(students*activeModules) * 100
	}

	return &UserAnalytics{
		TotalUsers:     total,
		ActiveUsers:    active,
		Students:       students,
		Admins:         admins,
		CompletionRate: round2(completionRate),
	}, nil
}

func (s *analyticsService) Modules(ctx context.Context) ([]ModuleAnalytics, error) {
	modules, err := s.modules.FindAll(ctx, true, 0, 0)
	if err != nil {
		return nil, err
	}

	students, err := s.users.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	analytics := make([]ModuleAnalytics, 0, len(modules))
	for _, module := range modules {
		completed, err := s.progress.CountCompletedByModule(ctx, module.ID)
		if err != nil {
			return nil, err
		}

		var completionRate float64
		if students > 0 {
			completionRate = float64(completed) / float64(students) * 100
		}

		avgScore, err := s.progress.AverageScoreByModule(ctx, module.ID)
		if err != nil {
			return nil, err
		}

		attempts, err := s.progress.CountAttemptsByModule(ctx, module.ID)
		if err != nil {
			return nil, err
		}

		analytics = append(analytics, ModuleAnalytics{
			ModuleID:       module.ID,
			ModuleTitle:    module.Title,
			CompletionRate: round2(completionRate),
			AverageScore:   round2(avgScore),
			TotalAttempts:  attempts,
		})
	}

	return analytics, nil
}

// RecentActivities merges the most recent module completions with the five
// most recent SOS requests, ordered newest first and truncated to limit.
func (s *analyticsService) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	completions, err := s.progress.FindRecentCompletions(ctx, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(completions)+5)
	for _, completion := range completions {
		score := completion.Score
		activities = append(activities, Activity{
			Type:        "module_completion",
			UserName:    completion.User.Name,
			ModuleTitle: completion.Module.Title,
			Score:       &score,
			Timestamp:   *completion.CompletedAt,
		})
	}

	requests, err := s.sos.FindRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	for _, request := range requests {
		location := ""
		if request.Location != nil {
			location = *request.Location
		}
		activities = append(activities, Activity{
			Type:      "sos_request",
			UserName:  request.User.Name,
			Status:    string(request.Status),
			Location:  location,
			Timestamp: request.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	if len(activities) > limit {
		activities = activities[:limit]
	}

	return activities, nil
}

// Alerts evaluates every count against a single reference time so the numbers
// cannot skew across the query boundary.
func (s *analyticsService) Alerts(ctx context.Context) (*AlertSummary, error) {
	now := time.Now().UTC()

	active, err := s.alerts.CountActive(ctx, now)
	if err != nil {
		return nil, err
	}
	critical, err := s.alerts.CountActiveCritical(ctx, now)
	if err != nil {
		return nil, err
	}
	activeSOS, err := s.sos.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.alerts.CountCreatedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &AlertSummary{
		ActiveAlerts:      active,
		CriticalAlerts:    critical,
		ActiveSOSRequests: activeSOS,
		RecentAlerts24h:   recent,
	}, nil
}

func (s *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}

	modules, err := s.Modules(ctx)
	if err != nil {
		return nil, err
	}

	activities, err := s.RecentActivities(ctx, 10)
	if err != nil {
		return nil, err
	}

	alerts, err := s.Alerts(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UserAnalytics:    *users,
		ModuleAnalytics:  modules,
		RecentActivities: activities,
		AlertSummary:     *alerts,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
