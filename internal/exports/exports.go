// Package exports drains finished documents into their destinations: an
// in-memory data URL for display, or a file on disk.
package exports

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pwnholic/pdfdemo/internal/document"
)

const DataURLPrefix = "data:application/pdf;base64,"

// WaitForData ends doc and resolves to a base64 data URL once the stream
// signals its end. A stream error is returned as is.
func WaitForData(ctx context.Context, doc *document.Document) (string, error) {
	var buf bytes.Buffer
	err := doc.End().Each(ctx, func(chunk []byte) error {
		buf.Write(chunk)
		return nil
	})
	if err != nil {
		return "", err
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL returns the PDF bytes held by a URL made by WaitForData.
func DecodeDataURL(u string) ([]byte, error) {
	if len(u) < len(DataURLPrefix) || u[:len(DataURLPrefix)] != DataURLPrefix {
		return nil, fmt.Errorf("not a PDF data URL")
	}
	return base64.StdEncoding.DecodeString(u[len(DataURLPrefix):])
}

// PipeTo ends doc and copies its stream into w.
func PipeTo(ctx context.Context, doc *document.Document, w io.Writer) error {
	return doc.End().Each(ctx, func(chunk []byte) error {
		_, err := w.Write(chunk)
		return err
	})
}

// PipeToFile ends doc and writes it to path. A partial file is removed when
// the stream fails.
func PipeToFile(ctx context.Context, doc *document.Document, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := PipeTo(ctx, doc, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DocumentExporter writes named documents into one directory.
type DocumentExporter struct {
	Dir string
}

func NewDocumentExporter(dir string) *DocumentExporter {
	return &DocumentExporter{Dir: dir}
}

// Export writes doc as <Dir>/<name>.pdf and returns the path.
func (e *DocumentExporter) Export(ctx context.Context, name string, doc *document.Document) (string, error) {
	path := filepath.Join(e.Dir, name+".pdf")
	if err := PipeToFile(ctx, doc, path); err != nil {
		return "", err
	}
	return path, nil
}
