package handler

import (
	clientapp "github.com/bos/backend/internal/application/client"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PersonHandler handles person-related API endpoints. People hang off a
// client and carry the contact methods Front conversations match against.
type PersonHandler struct {
	BaseHandler
	personService *clientapp.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personService *clientapp.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

// Create godoc
// @ID           createPerson
// @Summary      Add a person to a client
// @Description  Create a person under a client account
// @Tags         people
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body clientapp.CreatePersonRequest true "Person creation request"
// @Success      201 {object} APIResponse[clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/people [post]
func (h *PersonHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.personService.Create(c.Request.Context(), tenantID, clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListByClient godoc
// @ID           listClientPeople
// @Summary      List people of a client
// @Description  Retrieve a paginated list of people belonging to a client
// @Tags         people
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Client ID" format(uuid)
// @Param        search query string false "Search term (names, title)"
// @Param        active query bool false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/people [get]
func (h *PersonHandler) ListByClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	filter := clientapp.PersonListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	people, total, err := h.personService.ListByClient(c.Request.Context(), tenantID, clientID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, people, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getPersonById
// @Summary      Get person by ID
// @Description  Retrieve a person by their ID
// @Tags         people
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id} [get]
func (h *PersonHandler) GetByID(c *gin.Context) {
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

	result, err := h.personService.GetByID(c.Request.Context(), tenantID, personID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @ID           updatePerson
// @Summary      Update a person
// @Description  Update a person's names and title
// @Tags         people
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Param        request body clientapp.UpdatePersonRequest true "Person update request"
// @Success      200 {object} APIResponse[clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
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

	var req clientapp.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.personService.Update(c.Request.Context(), tenantID, personID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate godoc
// @ID           activatePerson
// @Summary      Activate a person
// @Description  Restore a deactivated person
// @Tags         people
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id}/activate [post]
func (h *PersonHandler) Activate(c *gin.Context) {
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

	result, err := h.personService.Activate(c.Request.Context(), tenantID, personID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @ID           deactivatePerson
// @Summary      Deactivate a person
// @Description  Deactivate a person. Deactivated people are skipped by conversation matching.
// @Tags         people
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Success      200 {object} APIResponse[clientapp.PersonResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id}/deactivate [post]
func (h *PersonHandler) Deactivate(c *gin.Context) {
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

	result, err := h.personService.Deactivate(c.Request.Context(), tenantID, personID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deletePerson
// @Summary      Delete a person
// @Description  Delete a person without linked conversations
// @Tags         people
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Person ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /people/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
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

	if err := h.personService.Delete(c.Request.Context(), tenantID, personID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
