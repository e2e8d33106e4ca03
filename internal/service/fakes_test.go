package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountActive(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeModuleRepo struct {
	modules map[uuid.UUID]*model.DisasterModule
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: make(map[uuid.UUID]*model.DisasterModule)}
}

func (r *fakeModuleRepo) Create(ctx context.Context, module *model.DisasterModule) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	stored := *module
	r.modules[module.ID] = &stored
	return nil
}

func (r *fakeModuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DisasterModule, error) {
	if module, ok := r.modules[id]; ok {
		copied := *module
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModuleRepo) FindBySlug(ctx context.Context, slug string) (*model.DisasterModule, error) {
	for _, module := range r.modules {
		if module.Slug == slug {
			copied := *module
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModuleRepo) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.DisasterModule, error) {
	var out []model.DisasterModule
	for _, module := range r.modules {
		if activeOnly && !module.IsActive {
			continue
		}
		out = append(out, *module)
	}
	return out, nil
}

func (r *fakeModuleRepo) FindQuestions(ctx context.Context, moduleID uuid.UUID, phase string) ([]model.QuizQuestion, error) {
	return nil, nil
}

func (r *fakeModuleRepo) Update(ctx context.Context, module *model.DisasterModule) error {
	stored := *module
	r.modules[module.ID] = &stored
	return nil
}

func (r *fakeModuleRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, module := range r.modules {
		if module.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeProgressRepo struct {
	records  map[uuid.UUID]*model.StudentProgress
	attempts []model.QuizAttempt
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[uuid.UUID]*model.StudentProgress)}
}

func (r *fakeProgressRepo) Create(ctx context.Context, progress *model.StudentProgress) error {
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	stored := *progress
	r.records[progress.ID] = &stored
	return nil
}

func (r *fakeProgressRepo) FindByUserAndModule(ctx context.Context, userID, moduleID uuid.UUID) (*model.StudentProgress, error) {
	for _, record := range r.records {
		if record.UserID == userID && record.ModuleID == moduleID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProgressRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.StudentProgress, error) {
	var out []model.StudentProgress
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) Update(ctx context.Context, progress *model.StudentProgress) error {
	stored := *progress
	r.records[progress.ID] = &stored
	return nil
}

func (r *fakeProgressRepo) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	for _, record := range r.records {
		if record.Completed {
			count++
		}
	}
	return count, nil
}

func (r *fakeProgressRepo) CountCompletedByModule(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	for _, record := range r.records {
		if record.ModuleID == moduleID && record.Completed {
			count++
		}
	}
	return count, nil
}

func (r *fakeProgressRepo) AverageScoreByModule(ctx context.Context, moduleID uuid.UUID) (float64, error) {
	var sum, count int
	for _, record := range r.records {
		if record.ModuleID == moduleID && record.Completed {
			sum += record.Score
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (r *fakeProgressRepo) FindRecentCompletions(ctx context.Context, limit int) ([]model.StudentProgress, error) {
	var out []model.StudentProgress
	for _, record := range r.records {
		if record.Completed && record.CompletedAt != nil {
			out = append(out, *record)
		}
	}
	sortProgressDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProgressRepo) CountAttemptsByModule(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	for _, attempt := range r.attempts {
		if attempt.ModuleID == moduleID {
			count++
		}
	}
	return count, nil
}

func sortProgressDesc(records []model.StudentProgress) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].CompletedAt.After(*records[j-1].CompletedAt); j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}

type fakeAlertRepo struct {
	alerts map[uuid.UUID]*model.EmergencyAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*model.EmergencyAlert)}
}

func (r *fakeAlertRepo) Create(ctx context.Context, alert *model.EmergencyAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	stored := *alert
	r.alerts[alert.ID] = &stored
	return nil
}

func (r *fakeAlertRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EmergencyAlert, error) {
	if alert, ok := r.alerts[id]; ok {
		copied := *alert
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAlertRepo) Update(ctx context.Context, alert *model.EmergencyAlert) error {
	stored := *alert
	r.alerts[alert.ID] = &stored
	return nil
}

func (r *fakeAlertRepo) FindAll(ctx context.Context, filter repository.AlertFilter) ([]model.EmergencyAlert, error) {
	var out []model.EmergencyAlert
	for _, alert := range r.alerts {
		if filter.ActiveOnly {
			if !alert.IsActive {
				continue
			}
			if alert.ExpiresAt != nil && !alert.ExpiresAt.After(filter.Now) {
				continue
			}
		}
		if filter.Severity != nil && alert.Severity != *filter.Severity {
			continue
		}
		if filter.AlertType != nil && alert.AlertType != *filter.AlertType {
			continue
		}
		out = append(out, *alert)
	}
	return out, nil
}

func (r *fakeAlertRepo) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, alert := range r.alerts {
		if alert.IsActive && (alert.ExpiresAt == nil || alert.ExpiresAt.After(now)) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlertRepo) CountActiveCritical(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, alert := range r.alerts {
		if alert.IsActive && alert.Severity == model.SeverityCritical &&
			(alert.ExpiresAt == nil || alert.ExpiresAt.After(now)) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlertRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, alert := range r.alerts {
		if !alert.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeSOSRepo struct {
	requests map[uuid.UUID]*model.SOSRequest
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{requests: make(map[uuid.UUID]*model.SOSRequest)}
}

func (r *fakeSOSRepo) Create(ctx context.Context, request *model.SOSRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *fakeSOSRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error) {
	if request, ok := r.requests[id]; ok {
		copied := *request
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSOSRepo) Update(ctx context.Context, request *model.SOSRequest) error {
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *fakeSOSRepo) FindAll(ctx context.Context, filter repository.SOSFilter) ([]model.SOSRequest, error) {
	var out []model.SOSRequest
	for _, request := range r.requests {
		if filter.UserID != nil && request.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		out = append(out, *request)
	}
	return out, nil
}

func (r *fakeSOSRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, request := range r.requests {
		if request.Status == model.SOSActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeSOSRepo) FindRecent(ctx context.Context, limit int) ([]model.SOSRequest, error) {
	var out []model.SOSRequest
	for _, request := range r.requests {
		out = append(out, *request)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.After(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeContactRepo struct {
	contacts []model.EmergencyContact
}

func (r *fakeContactRepo) Create(ctx context.Context, contact *model.EmergencyContact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *fakeContactRepo) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.EmergencyContact, error) {
	var out []model.EmergencyContact
	for _, contact := range r.contacts {
		if activeOnly && !contact.IsActive {
			continue
		}
		out = append(out, contact)
	}
	return out, nil
}

type recordedEvent struct {
	event Event
}

type fakeNotifier struct {
	events []recordedEvent
}

func (n *fakeNotifier) Notify(ctx context.Context, event Event) {
	n.events = append(n.events, recordedEvent{event: event})
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.ModuleRepository = (*fakeModuleRepo)(nil)
var _ repository.ProgressRepository = (*fakeProgressRepo)(nil)
var _ repository.AlertRepository = (*fakeAlertRepo)(nil)
var _ repository.SOSRepository = (*fakeSOSRepo)(nil)
var _ repository.ContactRepository = (*fakeContactRepo)(nil)
var _ Notifier = (*fakeNotifier)(nil)
