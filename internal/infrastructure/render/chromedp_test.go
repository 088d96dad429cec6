package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrintParams_Defaults(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{HTML: "<html>test</html>"})

	// Letter is 215.9mm x 279.4mm
	assert.InDelta(t, 8.5, params.paperWidth, 0.01)
	assert.InDelta(t, 11.0, params.paperHeight, 0.01)
	assert.InDelta(t, 0.5, params.margin, 0.01)
	assert.False(t, params.landscape)
	assert.Equal(t, 1.0, params.scale)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:      "<html>test</html>",
		Landscape: true,
	})

	assert.True(t, params.landscape)
}

func TestBuildPrintParams_MarginOverride(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:     "<html>test</html>",
		MarginMM: 25.4,
	})

	assert.InDelta(t, 1.0, params.margin, 0.001)
}

func TestBuildCompleteHTML_WithDoctype(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	html := "<!DOCTYPE html><html><head></head><body>test</body></html>"
	result := r.buildCompleteHTML(&RenderRequest{HTML: html})

	// Should return as-is since it has DOCTYPE
	assert.Equal(t, html, result)
}

func TestBuildCompleteHTML_WithHtmlTag(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	html := "<html><head></head><body>test</body></html>"
	result := r.buildCompleteHTML(&RenderRequest{HTML: html})

	assert.Equal(t, html, result)
}

func TestBuildCompleteHTML_FragmentOnly(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	result := r.buildCompleteHTML(&RenderRequest{
		HTML:  "<div>Hello World</div>",
		Title: "Test Document",
	})

	assert.Contains(t, result, "<!DOCTYPE html>")
	assert.Contains(t, result, "<meta charset=\"UTF-8\">")
	assert.Contains(t, result, "<title>Test Document</title>")
	assert.Contains(t, result, "<div>Hello World</div>")
	assert.Contains(t, result, "</body></html>")
}

func TestMmToInches(t *testing.T) {
	tests := []struct {
		mm       float64
		expected float64
	}{
		{0, 0},
		{25.4, 1.0},
		{215.9, 8.5},  // Letter width
		{279.4, 11.0}, // Letter height
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, mmToInches(tt.mm), 0.001)
	}
}

func TestEstimatePageCount(t *testing.T) {
	t.Run("two pages", func(t *testing.T) {
		pdf := []byte("<< /Type /Pages /Kids [] >> << /Type /Page >> << /Type /Page >>")
		assert.Equal(t, 2, estimatePageCount(pdf))
	})

	t.Run("no page markers floors at one", func(t *testing.T) {
		assert.Equal(t, 1, estimatePageCount([]byte("not a pdf")))
	})
}

func TestChromedpRenderer_Close(t *testing.T) {
	// Close must not panic with a nil allocCancel
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	assert.NoError(t, r.Close())
}
