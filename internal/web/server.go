// Package web serves the in-browser demo: a page showing both documents
// in iframes fed by data URLs, the raw PDFs, and the asset routes the
// browser adapter fetches from.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	logger "github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/assembler"
	"github.com/pwnholic/pdfdemo/internal/assets"
	"github.com/pwnholic/pdfdemo/internal/clients"
	"github.com/pwnholic/pdfdemo/internal/config"
	"github.com/pwnholic/pdfdemo/internal/document"
	"github.com/pwnholic/pdfdemo/internal/exports"
	"github.com/pwnholic/pdfdemo/internal/platform"
)

const lazyAssetDir = "lazy-assets"

type constructor func(context.Context, assembler.Platform) (*document.Document, error)

type Server struct {
	cfg          config.BrowserConfig
	client       *clients.AssetClient
	buildTimeout time.Duration
	log          *logger.Logger
	mux          *http.ServeMux
}

// NewServer wires the routes. buildTimeout bounds the construction and
// draining of the documents for one request.
func NewServer(cfg config.BrowserConfig, client *clients.AssetClient, buildTimeout time.Duration) *Server {
	s := &Server{
		cfg:          cfg,
		client:       client,
		buildTimeout: buildTimeout,
		log:          logger.GetDefaultLogger().With("web"),
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleDemo)
	s.mux.HandleFunc("GET /simple.pdf", s.handlePDF(assembler.CreateSimplePdf))
	s.mux.HandleFunc("GET /table.pdf", s.handlePDF(assembler.CreateTablePdf))
	s.mux.HandleFunc("GET "+cfg.ManifestPath, s.handleManifest)
	s.mux.HandleFunc("GET /"+lazyAssetDir+"/{name}", s.handleLazyAsset)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Debug("%s %s in %v", r.Method, r.URL.Path, time.Since(start))
}

// origin is the URL the browser adapter reaches this server at.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) newPlatform(ctx context.Context, r *http.Request) (*platform.Browser, error) {
	return platform.NewBrowser(ctx, origin(r), s.cfg, s.client)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.log.Error("%s: %s", what, err)
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	http.Error(w, what, status)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.buildTimeout)
	defer cancel()

	p, err := s.newPlatform(ctx, r)
	if err != nil {
		s.fail(w, "failed to prepare assets", err)
		return
	}

	frames := []frame{
		{ID: "simple", Title: "Simple document"},
		{ID: "table", Title: "Table document"},
	}
	builds := []constructor{assembler.CreateSimplePdf, assembler.CreateTablePdf}

	g, gctx := errgroup.WithContext(ctx)
	for i, build := range builds {
		g.Go(func() error {
			doc, err := build(gctx, p)
			if err != nil {
				return fmt.Errorf("build %s: %w", frames[i].ID, err)
			}
			dataURL, err := exports.WaitForData(gctx, doc)
			if err != nil {
				return fmt.Errorf("drain %s: %w", frames[i].ID, err)
			}
			frames[i].Src = template.URL(dataURL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, "failed to build documents", err)
		return
	}

	var buf bytes.Buffer
	if err := demoPage.Execute(&buf, frames); err != nil {
		s.fail(w, "failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePDF(build constructor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.buildTimeout)
		defer cancel()

		p, err := s.newPlatform(ctx, r)
		if err != nil {
			s.fail(w, "failed to prepare assets", err)
			return
		}
		doc, err := build(ctx, p)
		if err != nil {
			s.fail(w, "failed to build document", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(r.URL.Path)))
		if err := exports.PipeTo(ctx, doc, w); err != nil {
			// Headers are gone by now; the client sees a truncated body.
			s.log.Error("Streaming %s failed: %s", r.URL.Path, err)
		}
	}
}

// lazyAssets lists the bundled files served under /lazy-assets/.
func lazyAssets() []string {
	var out []string
	for _, name := range assets.Names() {
		if strings.HasPrefix(name, lazyAssetDir+"/") {
			out = append(out, name)
		}
	}
	return out
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := manifestPage.Execute(&buf, lazyAssets()); err != nil {
		s.fail(w, "failed to render manifest", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleLazyAsset(w http.ResponseWriter, r *http.Request) {
	data, err := assets.Load(path.Join(lazyAssetDir, r.PathValue("name")))
	if errors.Is(err, assets.ErrNotBundled) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "failed to load asset", err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
