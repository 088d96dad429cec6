package handler

import (
	activityapp "github.com/bos/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles activity log API endpoints. The log is
// append-only; these endpoints only read it.
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// List godoc
// @ID           listActivityLogs
// @Summary      List activity logs
// @Description  Retrieve a paginated list of activity log entries, newest first
// @Tags         activity-logs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        actor_id query string false "Filter by acting user" format(uuid)
// @Param        action query string false "Filter by action (e.g. job.status_changed)"
// @Param        loggable_type query string false "Filter by subject type (e.g. Job, Client)"
// @Param        loggable_id query string false "Filter by subject ID" format(uuid)
// @Param        since query string false "Entries at or after (RFC 3339)" format(date-time)
// @Param        until query string false "Entries before (RFC 3339)" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]activityapp.ActivityLogResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := activityapp.ActivityListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	logs, total, err := h.activityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getActivityLogById
// @Summary      Get activity log entry by ID
// @Description  Retrieve one activity log entry
// @Tags         activity-logs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Activity Log ID" format(uuid)
// @Success      200 {object} APIResponse[activityapp.ActivityLogResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /activity-logs/{id} [get]
func (h *ActivityHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity log ID format")
		return
	}

	result, err := h.activityService.GetByID(c.Request.Context(), tenantID, logID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListForJob godoc
// @ID           listJobActivity
// @Summary      List a job's activity
// @Description  Retrieve the activity trail of one job, newest first
// @Tags         activity-logs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]activityapp.ActivityLogResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/activity [get]
func (h *ActivityHandler) ListForJob(c *gin.Context) {
	h.listForLoggable(c, "Job")
}

// ListForClient godoc
// @ID           listClientActivity
// @Summary      List a client's activity
// @Description  Retrieve the activity trail of one client, newest first
// @Tags         activity-logs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Client ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]activityapp.ActivityLogResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/activity [get]
func (h *ActivityHandler) ListForClient(c *gin.Context) {
	h.listForLoggable(c, "Client")
}

func (h *ActivityHandler) listForLoggable(c *gin.Context, loggableType string) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	loggableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	filter := activityapp.ActivityListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	logs, err := h.activityService.ListByLoggable(c.Request.Context(), tenantID, loggableType, loggableID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}
