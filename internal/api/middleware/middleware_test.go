package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestSession(t *testing.T) {
	var gotID, gotName string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotName, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Session(testSecret)(next)

	valid := signToken(t, testSecret, jwt.MapClaims{
		"userId":   "u-1",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"valid", valid, http.StatusNoContent},
		{"no cookie", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", signToken(t, "other", jwt.MapClaims{"userId": "u-1"}), http.StatusUnauthorized},
		{"expired", signToken(t, testSecret, jwt.MapClaims{
			"userId": "u-1",
			"exp":    time.Now().Add(-time.Hour).Unix(),
		}), http.StatusUnauthorized},
		{"missing user id", signToken(t, testSecret, jwt.MapClaims{"username": "alice"}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotName = "", ""
			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && (gotID != "u-1" || gotName != "alice") {
				t.Errorf("context user = (%q, %q), want (u-1, alice)", gotID, gotName)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/health", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}
