package handler

import (
	jobapp "github.com/bos/backend/internal/application/job"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles task (job checklist) API endpoints
type TaskHandler struct {
	BaseHandler
	taskService *jobapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *jobapp.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Create godoc
// @ID           createTask
// @Summary      Add a task to a job
// @Description  Append a task to the end of the job's checklist
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        request body jobapp.CreateTaskRequest true "Task creation request"
// @Success      201 {object} APIResponse[jobapp.TaskResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
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

	var req jobapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.Create(c.Request.Context(), tenantID, jobID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListByJob godoc
// @ID           listJobTasks
// @Summary      List a job's tasks
// @Description  Retrieve the job's checklist in position order
// @Tags         tasks
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} APIResponse[[]jobapp.TaskResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/tasks [get]
func (h *TaskHandler) ListByJob(c *gin.Context) {
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

	tasks, err := h.taskService.ListByJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tasks)
}

// Update godoc
// @ID           updateTask
// @Summary      Update a task
// @Description  Rename a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body jobapp.UpdateTaskRequest true "Task update request"
// @Success      200 {object} APIResponse[jobapp.TaskResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req jobapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.Update(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangeStatus godoc
// @ID           changeTaskStatus
// @Summary      Change a task's status
// @Description  Move a task through its lifecycle
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body jobapp.ChangeTaskStatusRequest true "Status change request"
// @Success      200 {object} APIResponse[jobapp.TaskResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/status [put]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req jobapp.ChangeTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.ChangeStatus(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reorder godoc
// @ID           reorderTask
// @Summary      Reorder a task
// @Description  Move a task to a new 1-based position within its job. The remaining tasks shift to close the gap; the full reordered checklist is returned.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Job ID" format(uuid)
// @Param        task_id path string true "Task ID" format(uuid)
// @Param        request body jobapp.ReorderTaskRequest true "Target position"
// @Success      200 {object} APIResponse[[]jobapp.TaskResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/tasks/{task_id}/reorder [post]
func (h *TaskHandler) Reorder(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req jobapp.ReorderTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.Reorder(c.Request.Context(), tenantID, jobID, taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tasks)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Description  Remove a task from its job's checklist. Positions of later tasks shift down.
// @Tags         tasks
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Task ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), tenantID, taskID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
