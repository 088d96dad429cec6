package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/front"
	"github.com/bos/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Maximum webhook payload size (64KB - Front webhook events are small)
const maxWebhookPayloadSize = 65536

// webhookEventTTL is how long processed event IDs are remembered for
// duplicate-delivery suppression
const webhookEventTTL = 24 * time.Hour

// FrontWebhookHandler handles webhook deliveries from Front.
// These endpoints are called by Front and do not require authentication;
// the HMAC signature both authenticates the payload and identifies the
// tenant, since Front does not name the tenant in the body.
type FrontWebhookHandler struct {
	BaseHandler
	adapter          *front.FrontAdapter
	idempotencyStore shared.IdempotencyStore
	syncScheduler    *scheduler.ConversationSyncScheduler
	logger           *zap.Logger
	onReceived       func(eventType string, accepted bool)
}

// NewFrontWebhookHandler creates a new FrontWebhookHandler
func NewFrontWebhookHandler(
	adapter *front.FrontAdapter,
	idempotencyStore shared.IdempotencyStore,
	syncScheduler *scheduler.ConversationSyncScheduler,
	logger *zap.Logger,
) *FrontWebhookHandler {
	return &FrontWebhookHandler{
		adapter:          adapter,
		idempotencyStore: idempotencyStore,
		syncScheduler:    syncScheduler,
		logger:           logger,
	}
}

// SetOnReceived registers a callback invoked after each authenticated
// delivery, used for metrics
func (h *FrontWebhookHandler) SetOnReceived(fn func(eventType string, accepted bool)) {
	h.onReceived = fn
}

// FrontWebhookResponse represents the response for Front webhook deliveries
//
//	@Description	Front webhook acknowledgement
type FrontWebhookResponse struct {
	Received bool   `json:"received" example:"true"`
	EventID  string `json:"event_id,omitempty" example:"evt_55c8c149"`
	Message  string `json:"message,omitempty" example:"Sync scheduled"`
}

// HandleFrontWebhook godoc
//
//	@ID				handleFrontWebhook
//	@Summary		Handle Front webhook
//	@Description	Receive conversation events from Front. The HMAC signature identifies the tenant; an authenticated delivery enqueues a targeted sync of the named conversation. Duplicate deliveries are acknowledged without work.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Front-Signature	header		string					true	"Base64 HMAC-SHA256 of the raw body"
//	@Success		200					{object}	FrontWebhookResponse	"Delivery acknowledged"
//	@Failure		400					{object}	FrontWebhookResponse	"Invalid request"
//	@Failure		401					{object}	FrontWebhookResponse	"Invalid signature"
//	@Failure		413					{object}	FrontWebhookResponse	"Payload too large"
//	@Router			/webhooks/front [post]
func (h *FrontWebhookHandler) HandleFrontWebhook(c *gin.Context) {
	// Read the raw request body with a size limit; the raw bytes are
	// needed for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, FrontWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, FrontWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("X-Front-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, FrontWebhookResponse{
			Received: false,
			Message:  "Missing X-Front-Signature header",
		})
		return
	}

	tenantID, err := h.adapter.IdentifyWebhookTenant(payload, signature)
	if err != nil {
		h.logger.Warn("front webhook signature rejected",
			zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, FrontWebhookResponse{
			Received: false,
			Message:  "Webhook signature verification failed",
		})
		return
	}

	// From here on the delivery is authentic; every outcome acks with 200
	// so Front does not retry payloads no retry can fix.
	event, err := front.ParseWebhookEvent(payload)
	if err != nil {
		h.logger.Warn("front webhook payload unparseable",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		h.notifyReceived("unparseable", false)
		c.JSON(http.StatusOK, FrontWebhookResponse{
			Received: true,
			Message:  "Webhook received but payload could not be parsed",
		})
		return
	}

	if event.ConversationID == "" {
		h.notifyReceived(event.Type, false)
		c.JSON(http.StatusOK, FrontWebhookResponse{
			Received: true,
			EventID:  event.EventID,
			Message:  "Webhook received but names no conversation",
		})
		return
	}

	newlyMarked, err := h.idempotencyStore.MarkProcessed(c.Request.Context(), webhookEventKey(tenantID.String(), event.EventID), webhookEventTTL)
	if err != nil {
		// A broken dedup store must not drop events; process anyway
		h.logger.Error("front webhook idempotency check failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("event_id", event.EventID),
			zap.Error(err))
		newlyMarked = true
	}
	if !newlyMarked {
		h.notifyReceived(event.Type, false)
		c.JSON(http.StatusOK, FrontWebhookResponse{
			Received: true,
			EventID:  event.EventID,
			Message:  "Duplicate delivery ignored",
		})
		return
	}

	err = h.syncScheduler.ScheduleTargetedSync(tenantID, conversation.PlatformCodeFront, event.ConversationID, scheduler.SyncTriggerWebhook)
	if err != nil {
		h.logger.Error("front webhook sync enqueue failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err))
		h.notifyReceived(event.Type, false)
		c.JSON(http.StatusOK, FrontWebhookResponse{
			Received: true,
			EventID:  event.EventID,
			Message:  "Webhook received but sync could not be scheduled",
		})
		return
	}

	h.logger.Info("front webhook accepted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event_type", event.Type),
		zap.String("conversation_id", event.ConversationID))
	h.notifyReceived(event.Type, true)

	c.JSON(http.StatusOK, FrontWebhookResponse{
		Received: true,
		EventID:  event.EventID,
		Message:  "Sync scheduled",
	})
}

func (h *FrontWebhookHandler) notifyReceived(eventType string, accepted bool) {
	if h.onReceived != nil {
		h.onReceived(eventType, accepted)
	}
}

func webhookEventKey(tenantID, eventID string) string {
	return "webhook:front:" + tenantID + ":" + eventID
}
