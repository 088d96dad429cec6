package activity

import (
	"context"

	"github.com/bos/backend/internal/domain/activity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityService handles activity trail queries. The trail is written only
// by the ActivityRecorder; there are no mutating operations here.
type ActivityService struct {
	activityRepo activity.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo activity.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// GetByID retrieves a single activity entry
func (s *ActivityService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ActivityLogResponse, error) {
	entry, err := s.activityRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToActivityLogResponse(entry)
	return &response, nil
}

// List retrieves activity entries for a tenant, newest first, with
// pagination metadata
func (s *ActivityService) List(ctx context.Context, tenantID uuid.UUID, filter ActivityListFilter) ([]ActivityLogResponse, int64, error) {
	domainFilter := buildActivityFilter(filter)

	logs, err := s.activityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.activityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToActivityLogResponses(logs), total, nil
}

// ListByLoggable retrieves the trail for one record, newest first. The path
// parameters win over any loggable filters in the query string.
func (s *ActivityService) ListByLoggable(ctx context.Context, tenantID uuid.UUID, loggableType string, loggableID uuid.UUID, filter ActivityListFilter) ([]ActivityLogResponse, error) {
	filter.LoggableType = ""
	filter.LoggableID = nil
	domainFilter := buildActivityFilter(filter)

	logs, err := s.activityRepo.FindByLoggable(ctx, tenantID, loggableType, loggableID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToActivityLogResponses(logs), nil
}

// buildActivityFilter converts an ActivityListFilter to a domain filter.
// The trail is always returned newest first.
func buildActivityFilter(filter ActivityListFilter) shared.Filter {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	filters := make(map[string]interface{})
	if filter.ActorID != nil {
		filters["actor_id"] = *filter.ActorID
	}
	if filter.Action != "" {
		filters["action"] = filter.Action
	}
	if filter.LoggableType != "" {
		filters["loggable_type"] = filter.LoggableType
	}
	if filter.LoggableID != nil {
		filters["loggable_id"] = *filter.LoggableID
	}
	if filter.Since != nil {
		filters["since"] = *filter.Since
	}
	if filter.Until != nil {
		filters["until"] = *filter.Until
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  filters,
	}
}
