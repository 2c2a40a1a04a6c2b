package platform

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"sync"

	logger "github.com/pwnholic/pdfdemo/internal"
	"github.com/pwnholic/pdfdemo/internal/assembler"
	"github.com/pwnholic/pdfdemo/internal/assets"
	"github.com/pwnholic/pdfdemo/internal/clients"
	"github.com/pwnholic/pdfdemo/internal/config"
	"github.com/pwnholic/pdfdemo/internal/document"
)

const beeVirtualPath = "images/bee.png"

// inlineFiles maps virtual filesystem paths to the bundled assets shipped
// inline, base64 encoded, with the demo page.
var inlineFiles = map[string]string{
	"fonts/Roboto-Regular.ttf": assets.FontRegular,
	"fonts/Roboto-Medium.ttf":  assets.FontMedium,
	beeVirtualPath:             assets.BeeImage,
}

var inlineBundle = sync.OnceValues(func() (map[string]string, error) {
	bundle := make(map[string]string, len(inlineFiles))
	for vpath, name := range inlineFiles {
		data, err := assets.Load(name)
		if err != nil {
			return nil, err
		}
		bundle[vpath] = base64.StdEncoding.EncodeToString(data)
	}
	return bundle, nil
})

type Browser struct {
	cfg          config.BrowserConfig
	baseURL      string
	client       *clients.AssetClient
	vfs          *MemStorage
	testImageURL string
	log          *logger.Logger
}

var _ assembler.Platform = (*Browser)(nil)

// NewBrowser returns the in-browser adapter for the page served at
// baseURL. It seeds a fresh virtual filesystem from the inline bundle and
// resolves the lazy asset URL from the manifest page.
func NewBrowser(ctx context.Context, baseURL string, cfg config.BrowserConfig, client *clients.AssetClient) (*Browser, error) {
	bundle, err := inlineBundle()
	if err != nil {
		return nil, fmt.Errorf("failed to build inline bundle: %w", err)
	}
	vfs := NewMemStorage()
	for vpath, encoded := range bundle {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline file %s: %w", vpath, err)
		}
		if err := vfs.WriteFile(vpath, data); err != nil {
			return nil, err
		}
	}

	b := &Browser{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		vfs:     vfs,
		log:     logger.GetDefaultLogger().With("browser"),
	}
	b.testImageURL, err = client.ResolveAssetURL(ctx, clients.AssetManifest{
		PageURL:  b.baseURL + cfg.ManifestPath,
		Selector: cfg.LazyAssetSelector,
		Attr:     cfg.LazyAssetAttr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lazy asset: %w", err)
	}
	b.log.Debug("Lazy asset resolved to %s", b.testImageURL)
	return b, nil
}

func (b *Browser) TestImageURL() string {
	return b.testImageURL
}

// FetchAsset downloads ref. Relative references resolve against the page.
func (b *Browser) FetchAsset(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid asset reference %q: %w", ref, err)
	}
	if !u.IsAbs() {
		base, err := url.Parse(b.baseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		ref = base.ResolveReference(u).String()
	}
	return b.client.FetchAsset(ctx, ref)
}

func (b *Browser) StoreAsset(name string, data []byte) error {
	return b.vfs.WriteFile(name, data)
}

// Files lists the virtual filesystem.
func (b *Browser) Files() []string {
	return b.vfs.Names()
}

// RegisterFonts registers Roboto from the virtual filesystem. The other
// fonts the documents use are the builder's standard fonts.
func (b *Browser) RegisterFonts(doc *document.Document) error {
	ttf, err := b.vfs.ReadFile(b.cfg.RobotoFont)
	if err != nil {
		return fmt.Errorf("load font Roboto: %w", err)
	}
	return doc.RegisterFont("Roboto", ttf)
}

func (b *Browser) PlaceEagerImage(doc *document.Document) error {
	data, err := b.vfs.ReadFile(beeVirtualPath)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	return doc.Image(data, 0, 0)
}

// PlaceLazyImage flows the prefetched test image at the cursor.
func (b *Browser) PlaceLazyImage(doc *document.Document) error {
	data, err := b.vfs.ReadFile(assembler.PrefetchedImagePath)
	if err != nil {
		return err
	}
	return doc.Image(data, 0, 0)
}
