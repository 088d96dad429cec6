package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bos/backend/internal/domain/bulk"
	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	csvimport "github.com/bos/backend/internal/infrastructure/import"
	"github.com/google/uuid"
)

// requiredColumns are the headers a client CSV must carry. The person and
// contact columns are optional per row.
var requiredColumns = []string{"name", "client_type"}

// maxCollectedErrors caps how many row errors one run keeps
const maxCollectedErrors = 100

// RowRepos bundles the repositories one row writes through. Each row runs
// against a transaction-scoped set so a failed row leaves nothing behind.
type RowRepos struct {
	Clients        client.ClientRepository
	People         client.PersonRepository
	ContactMethods client.ContactMethodRepository
}

// TxRunner executes fn with repositories bound to a single transaction
type TxRunner func(ctx context.Context, fn func(repos RowRepos) error) error

// ClientImportResult summarizes one import run
type ClientImportResult struct {
	HistoryID   uuid.UUID            `json:"history_id"`
	TotalRows   int                  `json:"total_rows"`
	SuccessRows int                  `json:"success_rows"`
	FailedRows  int                  `json:"failed_rows"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
	TotalErrors int                  `json:"total_errors,omitempty"`
}

// ClientImportService imports clients from CSV files. Each row creates a
// client, optionally with a person and their contact methods, in its own
// transaction; row failures are collected instead of aborting the file.
type ClientImportService struct {
	contactRepo    client.ContactMethodRepository
	historyRepo    bulk.ImportHistoryRepository
	runInTx        TxRunner
	eventPublisher shared.EventPublisher
	codeSeqMu      sync.Mutex
	codeSeqDate    string
	codeSeqNum     int64
}

// NewClientImportService creates a new ClientImportService
func NewClientImportService(
	contactRepo client.ContactMethodRepository,
	historyRepo bulk.ImportHistoryRepository,
	runInTx TxRunner,
) *ClientImportService {
	return &ClientImportService{
		contactRepo: contactRepo,
		historyRepo: historyRepo,
		runInTx:     runInTx,
	}
}

// SetEventPublisher wires a publisher for created-entity events
func (s *ClientImportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetValidationRules returns the validation rules for client import
func (s *ClientImportService) GetValidationRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().MinLength(1).MaxLength(255).Build(),
		csvimport.Field("client_type").Required().String().Custom(validateClientTypeValue).Build(),
		csvimport.Field("person_first").String().MaxLength(100).Build(),
		csvimport.Field("person_last").String().MaxLength(100).Build(),
		csvimport.Field("email").String().Email().MaxLength(255).Build(),
		csvimport.Field("phone").String().MaxLength(50).Build(),
	}
}

// validateClientTypeValue validates the client_type column
func validateClientTypeValue(value string) error {
	if value == "" {
		return nil // will be caught by required check
	}
	switch strings.ToLower(value) {
	case "residential", "home", "commercial", "business", "company":
		return nil
	default:
		return fmt.Errorf("client_type must be 'residential' or 'commercial'")
	}
}

// normalizeClientType maps a CSV value onto a client type
func normalizeClientType(value string) client.ClientType {
	switch strings.ToLower(value) {
	case "commercial", "business", "company":
		return client.ClientTypeCommercial
	default:
		return client.ClientTypeResidential
	}
}

// Import parses, validates and imports a client CSV in one run. File-level
// failures (empty file, missing header, missing required columns) are
// recorded on the history and returned as errors; row-level failures only
// mark their row.
func (s *ClientImportService) Import(
	ctx context.Context,
	tenantID, userID uuid.UUID,
	fileName string,
	fileSize int64,
	file io.Reader,
) (*ClientImportResult, error) {
	history, err := bulk.NewImportHistory(tenantID, bulk.ImportEntityClients, fileName, fileSize, userID)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}

	rows, err := s.parseFile(ctx, history, file)
	if err != nil {
		return nil, err
	}

	if err := history.StartProcessing(len(rows)); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}

	result := &ClientImportResult{
		HistoryID: history.ID,
		TotalRows: len(rows),
	}
	collected := csvimport.NewErrorCollection(maxCollectedErrors)
	seen := newHandleSet()

	for _, row := range rows {
		select {
		case <-ctx.Done():
			// The run stays processing; the pending-import recovery
			// path closes it out.
			return nil, ctx.Err()
		default:
		}

		if err := s.importRow(ctx, tenantID, row, seen, result, collected); err != nil {
			s.failRun(ctx, history, collected)
			return nil, err
		}
	}

	result.Errors = collected.Errors()
	result.IsTruncated = collected.IsTruncated()
	result.TotalErrors = collected.TotalCount()

	if err := history.Complete(result.SuccessRows, result.FailedRows, toErrorDetails(collected.Errors())); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}

	return result, nil
}

// parseFile parses the CSV and checks its header, recording any file-level
// failure on the history record
func (s *ClientImportService) parseFile(ctx context.Context, history *bulk.ImportHistory, file io.Reader) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewCSVParser(file)
	if err != nil {
		s.recordFileFailure(ctx, history, err.Error())
		return nil, err
	}

	if err := parser.ParseHeader(); err != nil {
		s.recordFileFailure(ctx, history, err.Error())
		return nil, err
	}

	if missing := parser.ValidateHeaders(requiredColumns); len(missing) > 0 {
		err := shared.NewDomainError("IMPORT_MISSING_COLUMNS",
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
		s.recordFileFailure(ctx, history, err.Error())
		return nil, err
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		s.recordFileFailure(ctx, history, err.Error())
		return nil, err
	}
	if len(rows) == 0 {
		s.recordFileFailure(ctx, history, csvimport.ErrNoDataRows.Error())
		return nil, csvimport.ErrNoDataRows
	}

	return rows, nil
}

// importRow validates and imports a single row. Row-level problems are
// collected and return nil; only infrastructure failures propagate.
func (s *ClientImportService) importRow(
	ctx context.Context,
	tenantID uuid.UUID,
	row *csvimport.Row,
	seen *handleSet,
	result *ClientImportResult,
	collected *csvimport.ErrorCollection,
) error {
	validator := csvimport.NewFieldValidator(s.GetValidationRules(), maxCollectedErrors)
	if !validator.ValidateRow(row) {
		for _, e := range validator.Errors().Errors() {
			collected.Add(e)
		}
		result.FailedRows++
		return nil
	}

	name := strings.TrimSpace(row.Get("name"))
	clientType := normalizeClientType(row.Get("client_type"))
	personFirst := strings.TrimSpace(row.Get("person_first"))
	personLast := strings.TrimSpace(row.Get("person_last"))
	email := strings.TrimSpace(row.Get("email"))
	phone := strings.TrimSpace(row.Get("phone"))

	hasPerson := personFirst != "" || personLast != ""
	if (email != "" || phone != "") && !hasPerson {
		collected.Add(csvimport.NewRowError(row.LineNumber, "person_first", csvimport.ErrCodeImportValidation,
			"email and phone require a person_first or person_last"))
		result.FailedRows++
		return nil
	}

	// Normalize handles up front so duplicate checks run on canonical values
	ok, err := s.checkHandle(ctx, tenantID, row, "email", client.ContactTypeEmail, email, seen, result, collected)
	if err != nil || !ok {
		return err
	}
	ok, err = s.checkHandle(ctx, tenantID, row, "phone", client.ContactTypePhone, phone, seen, result, collected)
	if err != nil || !ok {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		collected.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, "failed to generate client code"))
		result.FailedRows++
		return nil
	}

	var createdClient *client.Client
	var createdPerson *client.Person
	var createdMethods []*client.ContactMethod

	txErr := s.runInTx(ctx, func(repos RowRepos) error {
		c, err := client.NewClient(tenantID, code, name, clientType)
		if err != nil {
			return err
		}
		if err := repos.Clients.Save(ctx, c); err != nil {
			return err
		}

		var p *client.Person
		var methods []*client.ContactMethod
		if hasPerson {
			p, err = client.NewPerson(tenantID, c.ID, personFirst, personLast)
			if err != nil {
				return err
			}
			if err := repos.People.Save(ctx, p); err != nil {
				return err
			}

			for _, contact := range []struct {
				contactType client.ContactType
				value       string
			}{
				{client.ContactTypeEmail, email},
				{client.ContactTypePhone, phone},
			} {
				if contact.value == "" {
					continue
				}
				cm, err := client.NewContactMethod(tenantID, p.ID, contact.contactType, contact.value)
				if err != nil {
					return err
				}
				// First method of its type on a fresh person
				cm.MarkPrimary()
				if err := repos.ContactMethods.Save(ctx, cm); err != nil {
					return err
				}
				methods = append(methods, cm)
			}
		}

		createdClient = c
		createdPerson = p
		createdMethods = methods
		return nil
	})
	if txErr != nil {
		var domainErr *shared.DomainError
		if errors.As(txErr, &domainErr) {
			collected.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, domainErr.Message))
			result.FailedRows++
			return nil
		}
		return fmt.Errorf("failed to import row %d: %w", row.LineNumber, txErr)
	}

	s.publishCreatedEvents(ctx, createdClient, createdPerson, createdMethods)

	result.SuccessRows++
	return nil
}

// checkHandle normalizes a contact value and rejects duplicates, both
// within the file and against handles already registered in the tenant.
// ok is false when the row was marked failed.
func (s *ClientImportService) checkHandle(
	ctx context.Context,
	tenantID uuid.UUID,
	row *csvimport.Row,
	column string,
	contactType client.ContactType,
	value string,
	seen *handleSet,
	result *ClientImportResult,
	collected *csvimport.ErrorCollection,
) (bool, error) {
	if value == "" {
		return true, nil
	}

	normalized, err := client.Normalize(contactType, value)
	if err != nil {
		collected.Add(csvimport.NewRowErrorWithValue(row.LineNumber, column, csvimport.ErrCodeImportInvalidFormat, err.Error(), value))
		result.FailedRows++
		return false, nil
	}

	if !seen.add(contactType, normalized) {
		collected.Add(csvimport.NewRowErrorWithValue(row.LineNumber, column, csvimport.ErrCodeImportDuplicateInFile,
			fmt.Sprintf("duplicate %s in file", column), value))
		result.FailedRows++
		return false, nil
	}

	exists, err := s.contactRepo.ExistsByNormalizedValue(ctx, tenantID, contactType, normalized)
	if err != nil {
		return false, fmt.Errorf("failed to check existing %s: %w", column, err)
	}
	if exists {
		collected.Add(csvimport.NewRowErrorWithValue(row.LineNumber, column, csvimport.ErrCodeImportDuplicateInDB,
			fmt.Sprintf("%s '%s' is already registered", column, value), value))
		result.FailedRows++
		return false, nil
	}

	return true, nil
}

// publishCreatedEvents drains created-entity events onto the bus so the
// activity trail records imports like any other create
func (s *ClientImportService) publishCreatedEvents(ctx context.Context, c *client.Client, p *client.Person, methods []*client.ContactMethod) {
	if s.eventPublisher == nil {
		return
	}

	var events []shared.DomainEvent
	if c != nil {
		events = append(events, c.GetDomainEvents()...)
		c.ClearDomainEvents()
	}
	if p != nil {
		events = append(events, p.GetDomainEvents()...)
		p.ClearDomainEvents()
	}
	for _, cm := range methods {
		events = append(events, cm.GetDomainEvents()...)
		cm.ClearDomainEvents()
	}
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// failRun closes the history for an infrastructure failure mid-run
func (s *ClientImportService) failRun(ctx context.Context, history *bulk.ImportHistory, collected *csvimport.ErrorCollection) {
	if err := history.Fail(toErrorDetails(collected.Errors())); err != nil {
		return
	}
	_ = s.historyRepo.Save(ctx, history)
}

// recordFileFailure closes the history for a failure that prevented any
// row from being processed
func (s *ClientImportService) recordFileFailure(ctx context.Context, history *bulk.ImportHistory, message string) {
	detail := bulk.ImportErrorDetail{
		Row:     0,
		Code:    csvimport.ErrCodeImportInvalidFile,
		Message: message,
	}
	if err := history.Fail([]bulk.ImportErrorDetail{detail}); err != nil {
		return
	}
	_ = s.historyRepo.Save(ctx, history)
}

// toErrorDetails converts collected row errors into history error details
func toErrorDetails(rowErrors []csvimport.RowError) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, len(rowErrors))
	for i, e := range rowErrors {
		details[i] = bulk.ImportErrorDetail{
			Row:     e.Row,
			Column:  e.Column,
			Code:    e.Code,
			Message: e.Message,
			Value:   e.Value,
		}
	}
	return details
}

// generateCode generates a unique client code in the format CLI-{YYYYMMDD}-{SEQ}.
// The sequence is reseeded from the clock each day so it stays unique
// across service restarts.
func (s *ClientImportService) generateCode() (string, error) {
	s.codeSeqMu.Lock()
	defer s.codeSeqMu.Unlock()

	today := time.Now().Format("20060102")
	if s.codeSeqDate != today {
		s.codeSeqDate = today
		s.codeSeqNum = time.Now().UnixMilli() % 100000
	}

	s.codeSeqNum++
	return fmt.Sprintf("CLI-%s-%06d", today, s.codeSeqNum), nil
}

// ResetCodeSequence resets the code sequence (useful for testing)
func (s *ClientImportService) ResetCodeSequence() {
	s.codeSeqMu.Lock()
	defer s.codeSeqMu.Unlock()
	s.codeSeqDate = ""
	s.codeSeqNum = 0
}

// handleSet tracks contact handles already claimed by earlier rows of the
// same file
type handleSet struct {
	values map[string]struct{}
}

func newHandleSet() *handleSet {
	return &handleSet{values: make(map[string]struct{})}
}

// add claims a handle; it returns false when an earlier row already holds it
func (h *handleSet) add(contactType client.ContactType, normalized string) bool {
	key := string(contactType) + ":" + normalized
	if _, ok := h.values[key]; ok {
		return false
	}
	h.values[key] = struct{}{}
	return true
}
