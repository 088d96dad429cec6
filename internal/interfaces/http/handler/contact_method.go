package handler

import (
	clientapp "github.com/bos/backend/internal/application/client"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactMethodHandler handles contact-method API endpoints
type ContactMethodHandler struct {
	BaseHandler
	contactService *clientapp.ContactMethodService
}

// NewContactMethodHandler creates a new ContactMethodHandler
func NewContactMethodHandler(contactService *clientapp.ContactMethodService) *ContactMethodHandler {
	return &ContactMethodHandler{
		contactService: contactService,
	}
}

// Create godoc
// @ID           createContactMethod
// @Summary      Add a contact method to a person
// @Description  Create a contact method (phone, email or address) under a person. Values are normalized before storage so conversation matching can compare them.
// @Tags         contact-methods
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Param        request body clientapp.CreateContactMethodRequest true "Contact method creation request"
// @Success      201 {object} APIResponse[clientapp.ContactMethodResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id}/contact-methods [post]
func (h *ContactMethodHandler) Create(c *gin.Context) {
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

	var req clientapp.CreateContactMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contactService.Create(c.Request.Context(), tenantID, personID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListByPerson godoc
// @ID           listPersonContactMethods
// @Summary      List a person's contact methods
// @Description  Retrieve every contact method of a person
// @Tags         contact-methods
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[[]clientapp.ContactMethodResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id}/contact-methods [get]
func (h *ContactMethodHandler) ListByPerson(c *gin.Context) {
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

	methods, err := h.contactService.ListByPerson(c.Request.Context(), tenantID, personID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, methods)
}

// GetByID godoc
// @ID           getContactMethodById
// @Summary      Get contact method by ID
// @Description  Retrieve a contact method by its ID
// @Tags         contact-methods
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contact Method ID" format(uuid)
// @Success      200 {object} APIResponse[clientapp.ContactMethodResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact-methods/{id} [get]
func (h *ContactMethodHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact method ID format")
		return
	}

	result, err := h.contactService.GetByID(c.Request.Context(), tenantID, methodID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateValue godoc
// @ID           updateContactMethod
// @Summary      Update a contact method's value
// @Description  Replace the stored value. The normalized form is recomputed and re-checked for uniqueness within the tenant.
// @Tags         contact-methods
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contact Method ID" format(uuid)
// @Param        request body clientapp.UpdateContactMethodRequest true "Contact method update request"
// @Success      200 {object} APIResponse[clientapp.ContactMethodResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact-methods/{id} [put]
func (h *ContactMethodHandler) UpdateValue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact method ID format")
		return
	}

	var req clientapp.UpdateContactMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contactService.UpdateValue(c.Request.Context(), tenantID, methodID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPrimary godoc
// @ID           markContactMethodPrimary
// @Summary      Mark a contact method as primary
// @Description  Promote a contact method to primary for its type; the previous primary of the same type is demoted.
// @Tags         contact-methods
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contact Method ID" format(uuid)
// @Success      200 {object} APIResponse[clientapp.ContactMethodResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact-methods/{id}/primary [post]
func (h *ContactMethodHandler) MarkPrimary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact method ID format")
		return
	}

	result, err := h.contactService.MarkPrimary(c.Request.Context(), tenantID, methodID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteContactMethod
// @Summary      Delete a contact method
// @Description  Delete a contact method from a person
// @Tags         contact-methods
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contact Method ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact-methods/{id} [delete]
func (h *ContactMethodHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact method ID format")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), tenantID, methodID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
