package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bos/backend/internal/application/importer"
	csvimport "github.com/bos/backend/internal/infrastructure/import"
	"github.com/bos/backend/internal/interfaces/http/dto"
)

const maxImportFileSize = 10 * 1024 * 1024

// ImportHandler handles bulk CSV import endpoints
type ImportHandler struct {
	BaseHandler
	importService  *importer.ClientImportService
	historyService *importer.ImportHistoryService
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	importService *importer.ClientImportService,
	historyService *importer.ImportHistoryService,
) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		historyService: historyService,
	}
}

// ImportClients godoc
//
//	@Summary		Import clients from CSV
//	@Description	Uploads a CSV file and imports clients row by row. Rows with
//	@Description	people and contact method columns create those records too.
//	@Description	Row failures are reported in the response instead of aborting.
//	@Tags			imports
//	@ID				importClients
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID (optional for dev)"
//	@Param			file		formData	file	true	"CSV file to import"
//	@Success		200			{object}	APIResponse[dto.ClientImportResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		413			{object}	dto.ErrorResponse
//	@Failure		415			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Security		BearerAuth
//	@Router			/imports/clients [post]
func (h *ImportHandler) ImportClients(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), tenantID, userID, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile):
			h.BadRequest(c, "CSV file is empty")
		case errors.Is(err, csvimport.ErrMissingHeader):
			h.BadRequest(c, "CSV file is missing header row")
		case errors.Is(err, csvimport.ErrNoDataRows):
			h.BadRequest(c, "CSV file contains no data rows")
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	h.Success(c, dto.ClientImportResponse{
		HistoryID:   result.HistoryID,
		TotalRows:   result.TotalRows,
		SuccessRows: result.SuccessRows,
		FailedRows:  result.FailedRows,
		Errors:      result.Errors,
		IsTruncated: result.IsTruncated,
		TotalErrors: result.TotalErrors,
	})
}

// ListHistory godoc
//
//	@Summary		List import history
//	@Description	Returns past import runs for the tenant, newest first
//	@Tags			imports
//	@ID				listImportHistory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID (optional for dev)"
//	@Param			entity_type	query		string	false	"Filter by entity type"	Enums(clients)
//	@Param			status		query		string	false	"Filter by status"		Enums(pending, processing, completed, failed, cancelled)
//	@Param			page		query		int		false	"Page number"			default(1)
//	@Param			page_size	query		int		false	"Page size"				default(20)
//	@Success		200			{object}	APIResponse[[]dto.ImportHistoryResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Security		BearerAuth
//	@Router			/imports [get]
func (h *ImportHandler) ListHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query dto.ImportHistoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.historyService.ListHistory(c.Request.Context(), tenantID, importer.ListHistoryFilter{
		EntityType: query.EntityType,
		Status:     query.Status,
	}, query.Page, query.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.ToImportHistoryResponses(result.Items), result.TotalCount, result.Page, result.PageSize)
}

// GetHistory godoc
//
//	@Summary		Get import run
//	@Description	Returns a single import run with its error details
//	@Tags			imports
//	@ID				getImportHistory
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID (optional for dev)"
//	@Param			id			path		string	true	"Import history ID"
//	@Success		200			{object}	APIResponse[dto.ImportHistoryResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		404			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Security		BearerAuth
//	@Router			/imports/{id} [get]
func (h *ImportHandler) GetHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID")
		return
	}

	history, err := h.historyService.GetHistory(c.Request.Context(), tenantID, historyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ToImportHistoryResponse(history))
}

// DownloadErrors godoc
//
//	@Summary		Download import errors
//	@Description	Returns the failed rows of an import run as a CSV file
//	@Tags			imports
//	@ID				downloadImportErrors
//	@Produce		text/csv
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID (optional for dev)"
//	@Param			id			path		string	true	"Import history ID"
//	@Success		200			{string}	string	"CSV content"
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		404			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Security		BearerAuth
//	@Router			/imports/{id}/errors.csv [get]
func (h *ImportHandler) DownloadErrors(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID")
		return
	}

	content, fileName, err := h.historyService.GetErrorsCSV(c.Request.Context(), tenantID, historyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

// CancelImport godoc
//
//	@Summary		Cancel import
//	@Description	Cancels a pending or processing import run
//	@Tags			imports
//	@ID				cancelImport
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	false	"Tenant ID (optional for dev)"
//	@Param			id			path		string	true	"Import history ID"
//	@Success		204			"Import cancelled"
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		404			{object}	dto.ErrorResponse
//	@Failure		409			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Security		BearerAuth
//	@Router			/imports/{id}/cancel [post]
func (h *ImportHandler) CancelImport(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID")
		return
	}

	if err := h.historyService.CancelImport(c.Request.Context(), tenantID, historyID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
