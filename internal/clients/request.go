package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/image/webp"
	"golang.org/x/net/html/charset"
	"resty.dev/v3"

	logger "github.com/pwnholic/pdfdemo/internal"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrNoAssetLink      = errors.New("no asset link found")
)

var supportedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

type AssetClient struct {
	client *resty.Client
}

func NewAssetClient(t *HTTPClientOptions) *AssetClient {
	client := resty.New().
		SetRetryCount(t.RetryCount).
		SetRetryWaitTime(t.RetryWaitTime).
		SetRetryMaxWaitTime(t.RetryMaxWaitTime).
		SetTimeout(t.Timeout)
	if t.UserAgent != "" {
		client.SetHeader("User-Agent", t.UserAgent)
	}
	return &AssetClient{client: client}
}

func (c *AssetClient) Close() error {
	return c.client.Close()
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited (429)", ErrUnexpectedStatus)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: not found (404)", ErrUnexpectedStatus)
	}
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
}

func completeURL(inputURL, baseURL string) (string, error) {
	if inputURL == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	parsedURL, err := url.Parse(inputURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.IsAbs() {
		return inputURL, nil
	}
	if baseURL == "" {
		return "", fmt.Errorf("base URL needed for relative URL %q", inputURL)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}
	return base.ResolveReference(parsedURL).String(), nil
}

// imageExtension returns the lower-case extension of the file named by
// rawURL, or "" when it is not a supported image type.
func imageExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	if !supportedExtensions[ext] {
		return ""
	}
	return ext
}

// FetchAsset downloads the bytes behind assetURL. WebP images are
// re-encoded as JPEG so the PDF builder can embed them.
func (c *AssetClient) FetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(assetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", assetURL, err)
	}

	buff := new(bytes.Buffer)
	if _, err := buff.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read asset data: %w", err)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "image/webp" || imageExtension(assetURL) == "webp" {
		logger.Debug("Decoding webp image %s", assetURL)
		img, err := webp.Decode(buff)
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp image: %w", err)
		}
		outputBuff := new(bytes.Buffer)
		if err := jpeg.Encode(outputBuff, img, &jpeg.Options{Quality: 100}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return outputBuff.Bytes(), nil
	}
	logger.Debug("Fetched %d bytes from %s", buff.Len(), assetURL)
	return buff.Bytes(), nil
}

// CollectAssetLinks loads the manifest page and returns the absolute URL
// of every element matching the selector that carries the attribute.
func (c *AssetClient) CollectAssetLinks(ctx context.Context, m AssetManifest) ([]string, error) {
	response, err := c.client.R().SetContext(ctx).Get(m.PageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer response.Body.Close()

	if err := checkStatus(response); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", m.PageURL, err)
	}

	contentType := response.Header().Get("Content-Type")
	bodyReader, err := charset.NewReader(response.Body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to create charset reader: %w", err)
	}

	document, err := goquery.NewDocumentFromReader(bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	var links []string
	document.Find(m.Selector).Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr(m.Attr)
		if !exists {
			return
		}
		result, err := completeURL(href, m.PageURL)
		if err != nil {
			logger.Warn("Skipping asset link %q: %s", href, err)
			return
		}
		links = append(links, result)
	})
	logger.Debug("Found %d asset links on %s", len(links), m.PageURL)
	return links, nil
}

// ResolveAssetURL returns the first asset link of the manifest.
func (c *AssetClient) ResolveAssetURL(ctx context.Context, m AssetManifest) (string, error) {
	links, err := c.CollectAssetLinks(ctx, m)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "", fmt.Errorf("%s matching %q: %w", m.PageURL, m.Selector, ErrNoAssetLink)
	}
	return links[0], nil
}
