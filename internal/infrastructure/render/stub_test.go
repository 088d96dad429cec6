package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubRenderer_Render(t *testing.T) {
	ctx := context.Background()
	stub := NewStubRenderer()

	result, err := stub.Render(ctx, &RenderRequest{
		HTML:  "<html><body>hello</body></html>",
		Title: "Test Doc",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Contains(t, string(result.PDFData), "%PDF-1.4")
	assert.Contains(t, string(result.PDFData), "Test Doc")
	assert.Equal(t, 1, estimatePageCount(result.PDFData))
	require.NotNil(t, stub.LastRequest)
	assert.Equal(t, "Test Doc", stub.LastRequest.Title)
}

func TestStubRenderer_EmptyHTML(t *testing.T) {
	stub := NewStubRenderer()

	_, err := stub.Render(context.Background(), &RenderRequest{HTML: "   "})

	require.Error(t, err)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestStubRenderer_InjectedError(t *testing.T) {
	stub := NewStubRenderer()
	stub.Err = assert.AnError

	_, err := stub.Render(context.Background(), &RenderRequest{HTML: "<div>x</div>"})

	assert.ErrorIs(t, err, assert.AnError)
}
