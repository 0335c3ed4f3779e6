package pdf_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/parser/pdf"
)

func TestNewExtractor(t *testing.T) {
	extractor := pdf.NewExtractor()
	require.NotNil(t, extractor)
}

func TestExtractText_MissingFile(t *testing.T) {
	extractor := pdf.NewExtractor()

	_, err := extractor.ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)

	var notFound *model.FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Path, "nope.pdf")
}
