package handler

import (
	conversationapp "github.com/bos/backend/internal/application/conversation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConversationHandler handles helpdesk conversation API endpoints.
// Conversations are synced from Front and read-only apart from the
// person link, which operators can correct by hand.
type ConversationHandler struct {
	BaseHandler
	conversationService *conversationapp.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService *conversationapp.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

// List godoc
// @ID           listConversations
// @Summary      List conversations
// @Description  Retrieve a paginated list of synced helpdesk conversations
// @Tags         conversations
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (subject, recipient handle)"
// @Param        status_category query string false "Status category" Enums(open, archived, snoozed, deleted, spam, unknown)
// @Param        matched query bool false "Filter by whether a person link exists"
// @Param        person_id query string false "Filter by matched person" format(uuid)
// @Param        client_id query string false "Filter by matched client" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(last_message_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]conversationapp.ConversationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := conversationapp.ConversationListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	conversations, total, err := h.conversationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, conversations, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getConversationById
// @Summary      Get conversation by ID
// @Description  Retrieve a synced conversation by its ID
// @Tags         conversations
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Conversation ID" format(uuid)
// @Success      200 {object} APIResponse[conversationapp.ConversationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{id} [get]
func (h *ConversationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID format")
		return
	}

	result, err := h.conversationService.GetByID(c.Request.Context(), tenantID, conversationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByPerson godoc
// @ID           listPersonConversations
// @Summary      List a person's conversations
// @Description  Retrieve conversations linked to one person
// @Tags         conversations
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]conversationapp.ConversationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id}/conversations [get]
func (h *ConversationHandler) ListByPerson(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	personID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid person ID format")
		return
	}

	filter := conversationapp.ConversationListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	conversations, total, err := h.conversationService.ListByPerson(c.Request.Context(), tenantID, personID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, conversations, total, filter.Page, filter.PageSize)
}

// Relink godoc
// @ID           relinkConversation
// @Summary      Relink a conversation to a person
// @Description  Point the conversation's person link at a different person. Manual links survive subsequent syncs.
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Conversation ID" format(uuid)
// @Param        request body conversationapp.RelinkConversationRequest true "Relink request"
// @Success      200 {object} APIResponse[conversationapp.ConversationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{id}/relink [post]
func (h *ConversationHandler) Relink(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID format")
		return
	}

	var req conversationapp.RelinkConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.conversationService.Relink(c.Request.Context(), tenantID, conversationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Unlink godoc
// @ID           unlinkConversation
// @Summary      Unlink a conversation
// @Description  Remove the conversation's person link
// @Tags         conversations
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Conversation ID" format(uuid)
// @Success      200 {object} APIResponse[conversationapp.ConversationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{id}/unlink [post]
func (h *ConversationHandler) Unlink(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID format")
		return
	}

	result, err := h.conversationService.Unlink(c.Request.Context(), tenantID, conversationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
