// Package assembler builds the two demo documents. The construction
// scripts are fixed; everything that depends on where they run is reached
// through a Platform.
package assembler

import (
	"context"
	"fmt"

	logger "github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/document"
)

// PrefetchedImagePath is where the prefetch step stores the test image and
// where the lazy placement reads it back.
const PrefetchedImagePath = "images/test.jpeg"

// LazyImageFallback is written when the lazy image cannot be placed.
const LazyImageFallback = "Image not loaded. Try again later."

// Platform supplies the environment-specific steps of construction.
type Platform interface {
	TestImageURL() string
	FetchAsset(ctx context.Context, ref string) ([]byte, error)
	StoreAsset(path string, data []byte) error
	RegisterFonts(doc *document.Document) error
	PlaceEagerImage(doc *document.Document) error
	PlaceLazyImage(doc *document.Document) error
}

// prefetch copies the test image into the platform's storage. Failures
// are logged and construction carries on.
func prefetch(ctx context.Context, p Platform) {
	ref := p.TestImageURL()
	data, err := p.FetchAsset(ctx, ref)
	if err != nil {
		continueOnFetchFailure(ref, err)
		return
	}
	if err := p.StoreAsset(PrefetchedImagePath, data); err != nil {
		continueOnFetchFailure(ref, err)
		return
	}
	logger.Debug("Prefetched %s into %s (%d bytes)", ref, PrefetchedImagePath, len(data))
}

func continueOnFetchFailure(ref string, err error) {
	logger.Error("Prefetch of %s failed: %s", ref, err)
}

// placeLazyImage places the lazy image, writing the failure and a notice
// into the document instead when it cannot.
func placeLazyImage(doc *document.Document, p Platform) {
	if err := p.PlaceLazyImage(doc); err != nil {
		fallbackOnPlacementFailure(doc, err)
	}
}

func fallbackOnPlacementFailure(doc *document.Document, err error) {
	logger.Warn("Lazy image not placed: %s", err)
	doc.MoveDown(1)
	doc.Text(err.Error(), document.TextOptions{})
	doc.Text(LazyImageFallback, document.TextOptions{})
}

func newDocument(p Platform, opts document.Options) (*document.Document, error) {
	doc, err := document.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	if err := p.RegisterFonts(doc); err != nil {
		return nil, fmt.Errorf("failed to register fonts: %w", err)
	}
	return doc, nil
}

func finish(doc *document.Document) (*document.Document, error) {
	if err := doc.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
