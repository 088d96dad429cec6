package render

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubRenderer is a placeholder implementation of Renderer that produces a
// minimal one-page PDF without launching Chrome. Use it for development
// environments without a browser and in handler tests.
type StubRenderer struct {
	// LastRequest holds the most recent request for test assertions
	LastRequest *RenderRequest
	// Err, when set, is returned from every Render call
	Err error
}

// NewStubRenderer creates a new StubRenderer
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

// Render returns a skeletal single-page PDF that carries the request title.
// The output parses as a PDF but renders blank.
func (s *StubRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	s.LastRequest = req

	start := time.Now()
	pdf := fmt.Sprintf(`%%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >> endobj
4 0 obj << /Title (%s) >> endobj
trailer << /Root 1 0 R /Info 4 0 R >>
%%%%EOF
`, req.Title)

	return &RenderResult{
		PDFData:        []byte(pdf),
		PageCount:      1,
		RenderDuration: time.Since(start),
	}, nil
}

// Close is a no-op
func (s *StubRenderer) Close() error {
	return nil
}

// Ensure StubRenderer implements Renderer
var _ Renderer = (*StubRenderer)(nil)
