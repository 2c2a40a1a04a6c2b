package exports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwnholic/pdfdemo/internal/document"
)

func twoPageDoc(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.New(document.Options{})
	require.NoError(t, err)
	doc.TextAt("page one", 100, 80, document.TextOptions{})
	doc.AddPage()
	doc.TextAt("page two", 100, 80, document.TextOptions{})
	require.NoError(t, doc.Err())
	return doc
}

func TestWaitForData(t *testing.T) {
	url, err := WaitForData(context.Background(), twoPageDoc(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:application/pdf;base64,"))

	pdf, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))

	pages, err := PageCount(pdf)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestWaitForDataRejectsOnStreamError(t *testing.T) {
	doc, err := document.New(document.Options{})
	require.NoError(t, err)
	doc.Font("Missing")

	url, err := WaitForData(context.Background(), doc)
	assert.ErrorIs(t, err, document.ErrUnknownFont)
	assert.Empty(t, url)
}

func TestDecodeDataURLRejectsOtherURLs(t *testing.T) {
	_, err := DecodeDataURL("data:image/png;base64,AAAA")
	assert.Error(t, err)
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := NewDocumentExporter(dir).Export(context.Background(), "simple", twoPageDoc(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "simple.pdf"), path)

	pages, err := PageCountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestPipeToFileRemovesPartialOutput(t *testing.T) {
	doc, err := document.New(document.Options{})
	require.NoError(t, err)
	doc.FillColor("not-a-colour")

	path := filepath.Join(t.TempDir(), "out", "broken.pdf")
	err = PipeToFile(context.Background(), doc, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrInvalidColor))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSecondDrainFails(t *testing.T) {
	doc := twoPageDoc(t)
	url, err := WaitForData(context.Background(), doc)
	require.NoError(t, err)
	require.Greater(t, len(url), len(DataURLPrefix))

	url, err = WaitForData(context.Background(), doc)
	assert.ErrorIs(t, err, document.ErrStreamConsumed)
	assert.Empty(t, url)

	path := filepath.Join(t.TempDir(), "simple.pdf")
	err = PipeToFile(context.Background(), doc, path)
	assert.ErrorIs(t, err, document.ErrStreamConsumed)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
