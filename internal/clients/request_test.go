package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestPage = `<!doctype html>
<html><body>
<img class="lazy-asset" src="/lazy-assets/test.jpeg">
<img class="lazy-asset" data-src="/ignored.png">
<img class="static" src="/static/bee.png">
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/assets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(manifestPage))
	})
	mux.HandleFunc("/lazy-assets/test.jpeg", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdfdemo-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *AssetClient {
	t.Helper()
	c := NewAssetClient(&HTTPClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "pdfdemo-test",
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFetchAsset(t *testing.T) {
	srv := newTestServer(t)
	data, err := newTestClient(t).FetchAsset(context.Background(), srv.URL+"/lazy-assets/test.jpeg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xD9}, data)
}

func TestFetchAssetNotFound(t *testing.T) {
	srv := newTestServer(t)
	_, err := newTestClient(t).FetchAsset(context.Background(), srv.URL+"/missing.jpeg")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestResolveAssetURL(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t)
	m := AssetManifest{PageURL: srv.URL + "/assets", Selector: "img.lazy-asset", Attr: "src"}

	links, err := c.CollectAssetLinks(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/lazy-assets/test.jpeg"}, links)

	u, err := c.ResolveAssetURL(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/lazy-assets/test.jpeg", u)

	m.Selector = "video"
	_, err = c.ResolveAssetURL(context.Background(), m)
	assert.ErrorIs(t, err, ErrNoAssetLink)
}

func TestCompleteURL(t *testing.T) {
	got, err := completeURL("/a/b.png", "http://example.com/assets")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/b.png", got)

	got, err = completeURL("https://cdn.example.com/x.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.jpg", got)

	_, err = completeURL("rel.png", "")
	assert.Error(t, err)
	_, err = completeURL("", "http://example.com")
	assert.Error(t, err)
}

func TestImageExtension(t *testing.T) {
	for in, want := range map[string]string{
		"http://x/test.JPEG":        "jpeg",
		"http://x/a.webp?v=2":       "webp",
		"images/test.jpg":           "jpg",
		"http://x/font.ttf":         "",
		"http://x/no-extension/abc": "",
	} {
		assert.Equal(t, want, imageExtension(in), in)
	}
}
