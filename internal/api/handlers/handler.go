package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/rohits-web03/accountabilabuddy/internal/api/services"
	"github.com/rohits-web03/accountabilabuddy/internal/config"
	"github.com/rohits-web03/accountabilabuddy/internal/repositories"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
	"golang.org/x/oauth2"
)

// Handler serves the HTTP API over a Store. It keeps no per-request state.
type Handler struct {
	store *repositories.Store
	cfg   config.Config

	oauth       *oauth2.Config
	userInfoURL string
}

func NewHandler(store *repositories.Store, cfg config.Config) *Handler {
	return &Handler{
		store:       store,
		cfg:         cfg,
		oauth:       services.NewGoogleOauthConfig(cfg.Google),
		userInfoURL: services.GoogleUserInfoURL,
	}
}

// decodeJSON decodes a request body strictly: unknown fields are rejected.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// storeError reports an unexpected store failure with its message verbatim.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "store error", "method", r.Method, "path", r.URL.Path, "error", err)
	utils.ErrorResponse(w, http.StatusInternalServerError, err.Error())
}

type successResponse struct {
	Success bool `json:"success"`
}

type dbInfoResponse struct {
	Engine  string `json:"engine"`
	Version string `json:"version"`
}

// DBInfo godoc
// @Summary Database engine and version
// @Tags System
// @Produce json
// @Success 200 {object} dbInfoResponse
// @Failure 500 {object} utils.ErrorPayload
// @Router /dbinfo [get]
func (h *Handler) DBInfo(w http.ResponseWriter, r *http.Request) {
	engine, version, err := h.store.DatabaseVersion(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, dbInfoResponse{Engine: engine, Version: version})
}
