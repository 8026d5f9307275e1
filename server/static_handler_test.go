package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticHandler(t *testing.T) {
	assets := t.TempDir()
	pngBytes := []byte{0x89, 'P', 'N', 'G'}
	if err := os.WriteFile(filepath.Join(assets, "Nothing Playing Dark.png"), pngBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.AssetsDir = assets
	handler := NewStaticHandler(cfg)

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://overlay.local", nil)
		req.URL.Path = path
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("serves an asset", func(t *testing.T) {
		rec := serve("/assets/Nothing Playing Dark.png")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000" {
			t.Errorf("Cache-Control = %q", got)
		}
		if rec.Body.Len() != len(pngBytes) {
			t.Errorf("body length = %d, want %d", rec.Body.Len(), len(pngBytes))
		}
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		if rec := serve("/assets/nope.png"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("directory is not found", func(t *testing.T) {
		if rec := serve("/assets/"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("traversal out of the root is rejected", func(t *testing.T) {
		if rec := serve("/assets/../outside.txt"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
