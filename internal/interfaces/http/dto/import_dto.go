package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bos/backend/internal/domain/bulk"
	csvimport "github.com/bos/backend/internal/infrastructure/import"
)

// ClientImportResponse summarizes one bulk client import run
// @Description Result of a bulk client CSV import
type ClientImportResponse struct {
	HistoryID   uuid.UUID            `json:"history_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TotalRows   int                  `json:"total_rows" example:"100"`
	SuccessRows int                  `json:"success_rows" example:"95"`
	FailedRows  int                  `json:"failed_rows" example:"5"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated bool                 `json:"is_truncated,omitempty" example:"false"`
	TotalErrors int                  `json:"total_errors,omitempty" example:"0"`
}

// ImportHistoryListQuery represents query parameters for listing import runs
type ImportHistoryListQuery struct {
	EntityType string `form:"entity_type" binding:"omitempty,oneof=clients"`
	Status     string `form:"status" binding:"omitempty,oneof=pending processing completed failed cancelled"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ImportHistoryResponse represents one import history record
// @Description A recorded CSV import run
type ImportHistoryResponse struct {
	ID           uuid.UUID                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EntityType   string                   `json:"entity_type" example:"clients"`
	FileName     string                   `json:"file_name" example:"clients.csv"`
	FileSize     int64                    `json:"file_size" example:"20480"`
	TotalRows    int                      `json:"total_rows" example:"100"`
	SuccessRows  int                      `json:"success_rows" example:"95"`
	FailedRows   int                      `json:"failed_rows" example:"5"`
	Status       string                   `json:"status" example:"completed"`
	ErrorDetails []bulk.ImportErrorDetail `json:"error_details,omitempty"`
	ImportedBy   *uuid.UUID               `json:"imported_by,omitempty"`
	StartedAt    *time.Time               `json:"started_at,omitempty"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// ToImportHistoryResponse converts an import history entity to its response DTO
func ToImportHistoryResponse(h *bulk.ImportHistory) ImportHistoryResponse {
	return ImportHistoryResponse{
		ID:           h.ID,
		EntityType:   string(h.EntityType),
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		TotalRows:    h.TotalRows,
		SuccessRows:  h.SuccessRows,
		FailedRows:   h.FailedRows,
		Status:       string(h.Status),
		ErrorDetails: h.ErrorDetails,
		ImportedBy:   h.ImportedBy,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		CreatedAt:    h.CreatedAt,
	}
}

// ToImportHistoryResponses converts a slice of import history entities
func ToImportHistoryResponses(items []*bulk.ImportHistory) []ImportHistoryResponse {
	out := make([]ImportHistoryResponse, 0, len(items))
	for _, h := range items {
		out = append(out, ToImportHistoryResponse(h))
	}
	return out
}
