package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// 1x1 transparent PNG header is enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDataURL(t *testing.T) {
	got := DataURL(pngBytes)
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("DataURL() = %q", got)
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantItems int
		wantErr   string
	}{
		{"items", http.StatusOK, `{"todos":[{"title":"Milk"},{"title":"","description":"eggs"}]}`, 2, ""},
		{"no todos field", http.StatusOK, `{}`, 0, ""},
		{"service error", http.StatusUnprocessableEntity, `{"error":"No text found"}`, 0, "No text found"},
		{"opaque failure", http.StatusBadGateway, `<html>`, 0, "import failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotImage string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req struct{ Image string }
				_ = json.NewDecoder(r.Body).Decode(&req)
				gotImage = req.Image
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			items, err := NewClient(srv.URL, nil).Extract(context.Background(), pngBytes)
			if !strings.HasPrefix(gotImage, "data:image/png;base64,") {
				t.Errorf("posted image = %q", gotImage)
			}
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Extract() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if items == nil || len(items) != tt.wantItems {
				t.Errorf("Extract() = %#v, want %d items", items, tt.wantItems)
			}
		})
	}
}

func TestExtract_EmptyImage(t *testing.T) {
	if _, err := NewClient("http://unused", nil).Extract(context.Background(), nil); err == nil {
		t.Error("expected error for empty image")
	}
}
