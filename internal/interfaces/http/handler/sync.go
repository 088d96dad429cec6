package handler

import (
	"errors"
	"strconv"
	"time"

	conversationapp "github.com/bos/backend/internal/application/conversation"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TriggerSyncRequest represents a manual sync request. With a
// conversation_id the sync targets one conversation; otherwise a delta
// poll runs from updated_after (or the stored cursor when omitted).
type TriggerSyncRequest struct {
	ConversationID string     `json:"conversation_id"`
	UpdatedAfter   *time.Time `json:"updated_after"`
}

// TriggerSyncResponse acknowledges an enqueued manual sync
type TriggerSyncResponse struct {
	Message string `json:"message" example:"Sync scheduled"`
}

// SyncJobResponse reports one sync run from the in-memory job history
type SyncJobResponse struct {
	ID                   uuid.UUID  `json:"id"`
	TenantID             uuid.UUID  `json:"tenant_id"`
	Platform             string     `json:"platform"`
	Trigger              string     `json:"trigger"`
	TargetConversationID string     `json:"target_conversation_id,omitempty"`
	UpdatedAfter         time.Time  `json:"updated_after"`
	Status               string     `json:"status"`
	LastError            string     `json:"last_error,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	RetryCount           int        `json:"retry_count"`
	FetchedCount         int        `json:"fetched_count"`
	UpsertedCount        int        `json:"upserted_count"`
	MatchedCount         int        `json:"matched_count"`
	FailedCount          int        `json:"failed_count"`
	FailedIDs            []string   `json:"failed_ids,omitempty"`
}

// SyncStatusResponse combines the polling watermark with recent runs
type SyncStatusResponse struct {
	State      *conversationapp.SyncStateResponse `json:"state,omitempty"`
	RecentJobs []SyncJobResponse                  `json:"recent_jobs"`
}

// SyncHandler handles Front sync status and manual trigger endpoints
type SyncHandler struct {
	BaseHandler
	syncStateRepo conversation.SyncStateRepository
	syncScheduler *scheduler.ConversationSyncScheduler
	pollTrigger   *scheduler.PollTrigger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	syncStateRepo conversation.SyncStateRepository,
	syncScheduler *scheduler.ConversationSyncScheduler,
	pollTrigger *scheduler.PollTrigger,
) *SyncHandler {
	return &SyncHandler{
		syncStateRepo: syncStateRepo,
		syncScheduler: syncScheduler,
		pollTrigger:   pollTrigger,
	}
}

// GetStatus godoc
// @ID           getFrontSyncStatus
// @Summary      Get Front sync status
// @Description  Report the tenant's polling watermark and the most recent sync runs
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        limit query int false "Number of recent runs to include" default(20) maximum(100)
// @Success      200 {object} APIResponse[SyncStatusResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sync/front/status [get]
func (h *SyncHandler) GetStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	limit := 20
	if v, ok := c.GetQuery("limit"); ok {
		if parsed, perr := strconv.Atoi(v); perr == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	resp := SyncStatusResponse{RecentJobs: []SyncJobResponse{}}

	state, err := h.syncStateRepo.FindByTenant(c.Request.Context(), tenantID, conversation.PlatformCodeFront)
	switch {
	case err == nil:
		stateResp := conversationapp.ToSyncStateResponse(state)
		resp.State = &stateResp
	case !errors.Is(err, shared.ErrNotFound):
		h.HandleDomainError(c, err)
		return
	}

	for _, job := range h.syncScheduler.GetJobHistoryByTenant(tenantID, limit) {
		resp.RecentJobs = append(resp.RecentJobs, toSyncJobResponse(job))
	}

	h.Success(c, resp)
}

// TriggerSync godoc
// @ID           triggerFrontSync
// @Summary      Trigger a Front sync
// @Description  Enqueue a manual sync. A conversation_id targets one conversation; otherwise a delta poll runs from updated_after or the stored cursor.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body TriggerSyncRequest false "Sync options"
// @Success      202 {object} APIResponse[TriggerSyncResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sync/front/trigger [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req TriggerSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	if req.ConversationID != "" {
		err = h.pollTrigger.TriggerManualConversationSync(tenantID, conversation.PlatformCodeFront, req.ConversationID)
	} else {
		var updatedAfter time.Time
		if req.UpdatedAfter != nil {
			updatedAfter = *req.UpdatedAfter
		}
		err = h.pollTrigger.TriggerManualSync(c.Request.Context(), tenantID, conversation.PlatformCodeFront, updatedAfter)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Accepted(c, TriggerSyncResponse{Message: "Sync scheduled"})
}

// GetStats godoc
// @ID           getFrontSyncStats
// @Summary      Get sync scheduler statistics
// @Description  Report scheduler queue depth and poll bookkeeping across tenants
// @Tags         sync
// @Produce      json
// @Success      200 {object} APIResponse[map[string]interface{}]
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sync/front/stats [get]
func (h *SyncHandler) GetStats(c *gin.Context) {
	h.Success(c, h.pollTrigger.Stats())
}

func toSyncJobResponse(job *scheduler.ConversationSyncJob) SyncJobResponse {
	return SyncJobResponse{
		ID:                   job.ID,
		TenantID:             job.TenantID,
		Platform:             string(job.Platform),
		Trigger:              string(job.Trigger),
		TargetConversationID: job.TargetConversationID,
		UpdatedAfter:         job.UpdatedAfter,
		Status:               string(job.Status),
		LastError:            job.LastError,
		StartedAt:            job.StartedAt,
		CompletedAt:          job.CompletedAt,
		RetryCount:           job.RetryCount,
		FetchedCount:         job.FetchedCount,
		UpsertedCount:        job.UpsertedCount,
		MatchedCount:         job.MatchedCount,
		FailedCount:          job.FailedCount,
		FailedIDs:            job.FailedIDs,
	}
}
