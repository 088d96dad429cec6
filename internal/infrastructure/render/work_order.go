package render

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/work_order.html
var workOrderTemplateHTML string

// WorkOrderData is the template model for a printed work order
type WorkOrderData struct {
	Company     WorkOrderCompany
	Job         WorkOrderJob
	Client      WorkOrderClient
	Contact     *WorkOrderContact
	Tasks       []WorkOrderTask
	Assignees   []WorkOrderAssignee
	GeneratedAt time.Time
}

// WorkOrderCompany identifies the tenant issuing the document
type WorkOrderCompany struct {
	Name string
}

// WorkOrderJob carries the job fields shown on the document
type WorkOrderJob struct {
	Number      string
	Title       string
	Description string
	Status      string
	Priority    string
	DueAt       *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	QuotedTotal decimal.Decimal
	CreatedAt   time.Time
}

// WorkOrderClient carries the client fields shown on the document
type WorkOrderClient struct {
	Code    string
	Name    string
	Type    string
	Address string
}

// WorkOrderContact is the on-site contact block, when the client has one
type WorkOrderContact struct {
	Name  string
	Title string
	Phone string
	Email string
}

// WorkOrderTask is one checklist row
type WorkOrderTask struct {
	Position int
	Title    string
	Status   string
	Done     bool
}

// WorkOrderAssignee is one assigned technician
type WorkOrderAssignee struct {
	Name  string
	Email string
}

// BuildWorkOrderData maps the loaded aggregates into the template model.
// Contact details come from the given person and their methods (primary
// first, as the repository orders them); pass nil when the client has no
// people.
func BuildWorkOrderData(
	tenant *identity.Tenant,
	j *job.Job,
	c *client.Client,
	contact *client.Person,
	methods []client.ContactMethod,
	tasks []job.Task,
	assignees []identity.User,
) *WorkOrderData {
	data := &WorkOrderData{
		Company: WorkOrderCompany{Name: tenant.Name},
		Job: WorkOrderJob{
			Number:      WorkOrderNumber(j),
			Title:       j.Title,
			Description: j.Description,
			Status:      string(j.Status),
			Priority:    string(j.Priority),
			DueAt:       j.DueAt,
			StartedAt:   j.StartedAt,
			CompletedAt: j.CompletedAt,
			QuotedTotal: j.QuotedTotal,
			CreatedAt:   j.CreatedAt,
		},
		Client: WorkOrderClient{
			Code:    c.Code,
			Name:    c.Name,
			Type:    string(c.Type),
			Address: c.Address,
		},
		GeneratedAt: time.Now(),
	}

	if contact != nil {
		wc := &WorkOrderContact{
			Name:  contact.FullName(),
			Title: contact.Title,
		}
		for _, m := range methods {
			switch m.Type {
			case client.ContactTypePhone:
				if wc.Phone == "" {
					wc.Phone = m.Value
				}
			case client.ContactTypeEmail:
				if wc.Email == "" {
					wc.Email = m.Value
				}
			}
		}
		data.Contact = wc
	}

	for _, t := range tasks {
		data.Tasks = append(data.Tasks, WorkOrderTask{
			Position: t.Position,
			Title:    t.Title,
			Status:   string(t.Status),
			Done:     t.Status == job.TaskStatusCompleted,
		})
	}

	for _, u := range assignees {
		data.Assignees = append(data.Assignees, WorkOrderAssignee{
			Name:  u.Name,
			Email: u.Email,
		})
	}

	return data
}

// WorkOrderNumber derives the printed document number from the job ID
func WorkOrderNumber(j *job.Job) string {
	return "WO-" + strings.ToUpper(j.ID.String()[:8])
}

// WorkOrderRenderer fills the embedded work-order template and hands the
// HTML to a PDF renderer
type WorkOrderRenderer struct {
	pdf    Renderer
	tmpl   *template.Template
	logger *zap.Logger
}

// NewWorkOrderRenderer parses the embedded template once and wires the PDF
// backend
func NewWorkOrderRenderer(pdf Renderer, logger *zap.Logger) (*WorkOrderRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("work_order").Funcs(workOrderFuncMap()).Parse(workOrderTemplateHTML)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse work order template", err)
	}

	return &WorkOrderRenderer{
		pdf:    pdf,
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// RenderHTML executes the work-order template with the given data
func (r *WorkOrderRenderer) RenderHTML(data *WorkOrderData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "work order data is nil", nil)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute work order template", err)
	}
	return buf.String(), nil
}

// RenderPDF renders the work order to PDF
func (r *WorkOrderRenderer) RenderPDF(ctx context.Context, data *WorkOrderData) (*RenderResult, error) {
	html, err := r.RenderHTML(data)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:  html,
		Title: "Work Order " + data.Job.Number,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("work order rendered",
		zap.String("number", data.Job.Number),
		zap.Int("pages", result.PageCount))

	return result, nil
}

// Close releases the underlying PDF renderer
func (r *WorkOrderRenderer) Close() error {
	return r.pdf.Close()
}

// workOrderFuncMap returns the template functions used by the work-order
// template
func workOrderFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatMoney":    formatMoney,
		"title":          titleCase,
		"statusLabel":    statusLabel,
	}
}

// formatDate formats a time value as a date string
func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// formatDateTime formats a time value as a datetime string
func formatDateTime(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// formatMoney formats a decimal as dollars with thousand separators.
// Example: 1234.5 -> "$1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + "$" + result.String() + "." + decPart
}

// titleCase converts a string to title case
func titleCase(s string) string {
	caser := cases.Title(language.AmericanEnglish)
	return caser.String(s)
}

// statusLabel turns a snake_case status value into a printable label.
// Example: "waiting_for_customer" -> "Waiting For Customer"
func statusLabel(s string) string {
	return titleCase(strings.ReplaceAll(s, "_", " "))
}

// toTime coerces time values and pointers used in the template model
func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t == nil {
			return time.Time{}
		}
		return *t
	}
	return time.Time{}
}
