package handler

import (
	"fmt"
	"net/http"

	jobapp "github.com/bos/backend/internal/application/job"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler handles job-related API endpoints
type JobHandler struct {
	BaseHandler
	jobService       *jobapp.JobService
	workOrderService *jobapp.WorkOrderService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *jobapp.JobService, workOrderService *jobapp.WorkOrderService) *JobHandler {
	return &JobHandler{
		jobService:       jobService,
		workOrderService: workOrderService,
	}
}

// Create godoc
// @ID           createJob
// @Summary      Create a new job
// @Description  Create a job for a client. New jobs start in the open status.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body jobapp.CreateJobRequest true "Job creation request"
// @Success      201 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req jobapp.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.jobService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @ID           getJobById
// @Summary      Get job by ID
// @Description  Retrieve a job with its assignments
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.jobService.GetByID(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @ID           listJobs
// @Summary      List jobs
// @Description  Retrieve a paginated list of jobs with optional filtering
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (title, description)"
// @Param        client_id query string false "Filter by client" format(uuid)
// @Param        status query string false "Job status" Enums(open, in_progress, paused, waiting_for_customer, waiting_for_scheduled_appointment, completed, cancelled)
// @Param        priority query string false "Job priority" Enums(critical, very_high, high, normal, low, proactive_followup)
// @Param        assigned_to query string false "Filter by assigned user" format(uuid)
// @Param        due_before query string false "Due before (RFC 3339)" format(date-time)
// @Param        due_after query string false "Due after (RFC 3339)" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]jobapp.JobListItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := jobapp.JobListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, jobs, total, filter.Page, filter.PageSize)
}

// ListByClient godoc
// @ID           listClientJobs
// @Summary      List jobs of a client
// @Description  Retrieve a paginated list of jobs for one client
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Client ID" format(uuid)
// @Param        status query string false "Job status" Enums(open, in_progress, paused, waiting_for_customer, waiting_for_scheduled_appointment, completed, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]jobapp.JobListItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/jobs [get]
func (h *JobHandler) ListByClient(c *gin.Context) {
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

	filter := jobapp.JobListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	jobs, total, err := h.jobService.ListByClient(c.Request.Context(), tenantID, clientID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, jobs, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateJob
// @Summary      Update a job
// @Description  Update a job's details. Status changes go through the status endpoint.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body jobapp.UpdateJobRequest true "Job update request"
// @Success      200 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req jobapp.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.jobService.Update(c.Request.Context(), tenantID, jobID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangeStatus godoc
// @ID           changeJobStatus
// @Summary      Change a job's status
// @Description  Move a job through its lifecycle. Invalid transitions are rejected with 422.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body jobapp.ChangeJobStatusRequest true "Status change request"
// @Success      200 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/status [put]
func (h *JobHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req jobapp.ChangeJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.jobService.ChangeStatus(c.Request.Context(), tenantID, jobID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Assign godoc
// @ID           assignJob
// @Summary      Assign a user to a job
// @Description  Add a user to the job's assignment list. Assigning an already assigned user is a no-op.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body jobapp.AssignJobRequest true "Assignment request"
// @Success      200 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/assignments [post]
func (h *JobHandler) Assign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req jobapp.AssignJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.jobService.Assign(c.Request.Context(), tenantID, jobID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Unassign godoc
// @ID           unassignJob
// @Summary      Remove a user from a job
// @Description  Remove a user from the job's assignment list
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[jobapp.JobResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/assignments/{user_id} [delete]
func (h *JobHandler) Unassign(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	result, err := h.jobService.Unassign(c.Request.Context(), tenantID, jobID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetStatusSummary godoc
// @ID           getJobStatusSummary
// @Summary      Get job counts by status
// @Description  Retrieve the tenant's job counts grouped by status
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} APIResponse[jobapp.JobStatusSummary]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/status-summary [get]
func (h *JobHandler) GetStatusSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.jobService.GetStatusSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// DownloadWorkOrder godoc
// @ID           downloadWorkOrder
// @Summary      Download the work order PDF
// @Description  Render the job's printable work order (job details, client, on-site contact, task checklist, assigned technicians) as a PDF.
// @Tags         jobs
// @Produce      application/pdf
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/work-order.pdf [get]
func (h *JobHandler) DownloadWorkOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	doc, err := h.workOrderService.RenderWorkOrder(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}

// Delete godoc
// @ID           deleteJob
// @Summary      Delete a job
// @Description  Delete a job and its tasks. Completed jobs cannot be deleted.
// @Tags         jobs
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), tenantID, jobID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
