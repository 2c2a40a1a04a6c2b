// Package platform holds the environment adapters the assembler builds
// documents with: Standalone works on the local filesystem, Browser
// fetches over HTTP into an in-memory virtual filesystem.
package platform

import (
	"context"
	"fmt"

	logger "github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/assembler"
	"github.com/pwnholic/pdfdemo/internal/assets"
	"github.com/pwnholic/pdfdemo/internal/config"
	"github.com/pwnholic/pdfdemo/internal/document"
)

// Lazy image geometry, measured from the right page edge.
const (
	lazyImageRightOffset = 160
	lazyImageTop         = 90
	lazyImageWidth       = 96
	lazyImageHeight      = 36
)

type Standalone struct {
	cfg     config.StandaloneConfig
	storage Storage
	log     *logger.Logger
}

var _ assembler.Platform = (*Standalone)(nil)

// NewStandalone returns the filesystem adapter. storage holds both the
// assets read by FetchAsset and the prefetched test image.
func NewStandalone(cfg config.StandaloneConfig, storage Storage) *Standalone {
	return &Standalone{
		cfg:     cfg,
		storage: storage,
		log:     logger.GetDefaultLogger().With("standalone"),
	}
}

func (s *Standalone) TestImageURL() string {
	return s.cfg.TestImage
}

func (s *Standalone) FetchAsset(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load(ref)
}

func (s *Standalone) load(ref string) ([]byte, error) {
	if assets.IsBundled(ref) {
		return assets.Load(ref)
	}
	return s.storage.ReadFile(ref)
}

func (s *Standalone) StoreAsset(name string, data []byte) error {
	return s.storage.WriteFile(name, data)
}

// RegisterFonts registers Roboto and Helvetica from the configured
// references.
func (s *Standalone) RegisterFonts(doc *document.Document) error {
	for _, f := range []struct{ name, ref string }{
		{"Roboto", s.cfg.RobotoFont},
		{"Helvetica", s.cfg.HelveticaFont},
	} {
		ttf, err := s.load(f.ref)
		if err != nil {
			return fmt.Errorf("load font %s: %w", f.name, err)
		}
		if err := doc.RegisterFont(f.name, ttf); err != nil {
			return err
		}
		s.log.Debug("Registered font %s from %s", f.name, f.ref)
	}
	return nil
}

func (s *Standalone) PlaceEagerImage(doc *document.Document) error {
	data, err := s.load(s.cfg.EagerImage)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	return doc.Image(data, 0, 0)
}

// PlaceLazyImage draws the prefetched test image in the top-right corner.
// It fails when the prefetch did not store the image.
func (s *Standalone) PlaceLazyImage(doc *document.Document) error {
	data, err := s.storage.ReadFile(assembler.PrefetchedImagePath)
	if err != nil {
		return err
	}
	return doc.ImageAt(data, doc.PageWidth()-lazyImageRightOffset, lazyImageTop, lazyImageWidth, lazyImageHeight)
}
