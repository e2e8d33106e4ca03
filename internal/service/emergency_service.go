package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
	"suraksha.com/preparedness/pkg/apperror"
)

type CreateContactInput struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Role       string  `json:"role" binding:"required,max=100"`
	Phone      string  `json:"phone" binding:"required,max=30"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Department *string `json:"department"`
	Priority   int     `json:"priority" binding:"omitempty,min=1"`
}

type CreateAlertInput struct {
	AlertType model.AlertType     `json:"alert_type" binding:"required,oneof=earthquake fire flood cyclone weather other"`
	Severity  model.AlertSeverity `json:"severity" binding:"required,oneof=low medium high critical"`
	Title     string              `json:"title" binding:"required,max=200"`
	Message   string              `json:"message" binding:"required"`
	Location  string              `json:"location" binding:"required,max=200"`
	Source    string              `json:"source" binding:"required,max=100"`
	ExpiresAt *time.Time          `json:"expires_at"`
}

type AlertQuery struct {
	Severity   *model.AlertSeverity
	AlertType  *model.AlertType
	ActiveOnly bool
	Offset     int
	Limit      int
}

type TriggerSOSInput struct {
	Location  *string  `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

type EmergencyService interface {
	ListContacts(ctx context.Context, activeOnly bool, offset, limit int) ([]model.EmergencyContact, error)
	ListPublicContacts(ctx context.Context) ([]model.EmergencyContact, error)
	CreateContact(ctx context.Context, input CreateContactInput) (*model.EmergencyContact, error)

	ListAlerts(ctx context.Context, query AlertQuery) ([]model.EmergencyAlert, error)
	CreateAlert(ctx context.Context, input CreateAlertInput, createdBy uuid.UUID) (*model.EmergencyAlert, error)
	DeactivateAlert(ctx context.Context, id uuid.UUID) error

	TriggerSOS(ctx context.Context, caller *model.User, input TriggerSOSInput) (*model.SOSRequest, error)
	ListSOS(ctx context.Context, caller *model.User, status *model.SOSStatus, offset, limit int) ([]model.SOSRequest, error)
	ResolveSOS(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) error
}

type emergencyService struct {
	contacts     repository.ContactRepository
	alerts       repository.AlertRepository
	sos          repository.SOSRepository
	notifier     Notifier
	redisClient  *redis.Client
	sosRateLimit time.Duration
}

func NewEmergencyService(
	contacts repository.ContactRepository,
	alerts repository.AlertRepository,
	sos repository.SOSRepository,
	notifier Notifier,
	redisClient *redis.Client,
	sosRateLimit time.Duration,
) EmergencyService {
	return &emergencyService{
		contacts:     contacts,
		alerts:       alerts,
		sos:          sos,
		notifier:     notifier,
		redisClient:  redisClient,
		sosRateLimit: sosRateLimit,
	}
}

func (s *emergencyService) ListContacts(ctx context.Context, activeOnly bool, offset, limit int) ([]model.EmergencyContact, error) {
	return s.contacts.FindAll(ctx, activeOnly, offset, limit)
}

func (s *emergencyService) ListPublicContacts(ctx context.Context) ([]model.EmergencyContact, error) {
	return s.contacts.FindAll(ctx, true, 0, 10)
}

func (s *emergencyService) CreateContact(ctx context.Context, input CreateContactInput) (*model.EmergencyContact, error) {
	priority := input.Priority
	if priority == 0 {
		priority = 1
	}

	contact := &model.EmergencyContact{
		Name:       input.Name,
		Role:       input.Role,
		Phone:      input.Phone,
		Email:      normalizeOptional(input.Email),
		Department: normalizeOptional(input.Department),
		Priority:   priority,
		IsActive:   true,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *emergencyService) ListAlerts(ctx context.Context, query AlertQuery) ([]model.EmergencyAlert, error) {
	return s.alerts.FindAll(ctx, repository.AlertFilter{
		Severity:   query.Severity,
		AlertType:  query.AlertType,
		ActiveOnly: query.ActiveOnly,
		Now:        time.Now().UTC(),
		Offset:     query.Offset,
		Limit:      query.Limit,
	})
}

func (s *emergencyService) CreateAlert(ctx context.Context, input CreateAlertInput, createdBy uuid.UUID) (*model.EmergencyAlert, error) {
	alert := &model.EmergencyAlert{
		AlertType: input.AlertType,
		Severity:  input.Severity,
		Title:     input.Title,
		Message:   input.Message,
		Location:  input.Location,
		Source:    input.Source,
		IsActive:  true,
		CreatedBy: &createdBy,
		ExpiresAt: input.ExpiresAt,
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Event{
		Type:      "emergency_alert",
		RefID:     alert.ID,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  string(alert.Severity),
		Location:  alert.Location,
		Timestamp: alert.CreatedAt,
	})

	return alert, nil
}

func (s *emergencyService) DeactivateAlert(ctx context.Context, id uuid.UUID) error {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	alert.IsActive = false
	return s.alerts.Update(ctx, alert)
}

func (s *emergencyService) TriggerSOS(ctx context.Context, caller *model.User, input TriggerSOSInput) (*model.SOSRequest, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, caller.ID, "sos", s.sosRateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	request := &model.SOSRequest{
		UserID:    caller.ID,
		Location:  normalizeOptional(input.Location),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Notes:     input.Notes,
		Status:    model.SOSActive,
	}

	if err := s.sos.Create(ctx, request); err != nil {
		return nil, err
	}

	location := ""
	if request.Location != nil {
		location = *request.Location
	}
	s.notifier.Notify(ctx, Event{
		Type:      "sos_request",
		RefID:     request.ID,
		Title:     "SOS request",
		Message:   fmt.Sprintf("SOS triggered by %s", caller.Name),
		Location:  location,
		Timestamp: request.CreatedAt,
	})

	return request, nil
}

// ListSOS returns SOS requests, scoped to the caller's own when the caller is
// not an admin.
func (s *emergencyService) ListSOS(ctx context.Context, caller *model.User, status *model.SOSStatus, offset, limit int) ([]model.SOSRequest, error) {
	filter := repository.SOSFilter{
		Status: status,
		Offset: offset,
		Limit:  limit,
	}
	if caller.Role != model.RoleAdmin {
		userID := caller.ID
		filter.UserID = &userID
	}

	return s.sos.FindAll(ctx, filter)
}

func (s *emergencyService) ResolveSOS(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) error {
	request, err := s.sos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	now := time.Now().UTC()
	request.Status = model.SOSResolved
	request.ResolvedAt = &now
	request.ResolvedBy = &resolvedBy

	if notes != nil && *notes != "" {
		existing := ""
		if request.Notes != nil {
			existing = *request.Notes
		}
		combined := fmt.Sprintf("%s\n\nResolution notes: %s", existing, *notes)
		request.Notes = &combined
	}

	return s.sos.Update(ctx, request)
}
