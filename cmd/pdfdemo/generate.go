package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/assembler"
	"github.com/pwnholic/pdfdemo/internal/config"
	"github.com/pwnholic/pdfdemo/internal/document"
	"github.com/pwnholic/pdfdemo/internal/exports"
	"github.com/pwnholic/pdfdemo/internal/platform"
)

type constructor func(context.Context, assembler.Platform) (*document.Document, error)

type output struct {
	name  string
	build constructor
}

var outputs = []output{
	{"simple", assembler.CreateSimplePdf},
	{"table", assembler.CreateTablePdf},
}

type generateProcess struct {
	platform *platform.Standalone
	exporter *exports.DocumentExporter
}

func newGenerateProcess(cfg config.Config) *generateProcess {
	return &generateProcess{
		platform: platform.NewStandalone(cfg.Standalone, platform.NewDirStorage(cfg.Standalone.WorkDir)),
		exporter: exports.NewDocumentExporter(cfg.OutputDir),
	}
}

// run builds every output concurrently and writes each one as soon as it
// is built.
func (gp *generateProcess) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, out := range outputs {
		g.Go(func() error {
			doc, err := out.build(ctx, gp.platform)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", out.name, err)
			}
			path, err := gp.exporter.Export(ctx, out.name, doc)
			if err != nil {
				return err
			}
			report(path)
			return nil
		})
	}
	return g.Wait()
}

func report(path string) {
	pages, err := exports.PageCountFile(path)
	if err != nil {
		internal.Warn("Wrote %s but could not inspect it: %s", path, err)
		return
	}
	internal.Info("Wrote %s (%d pages)", path, pages)
}
