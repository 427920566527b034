package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rohits-web03/accountabilabuddy/internal/api/middleware"
	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
)

const (
	sessionTTL  = 24 * time.Hour
	stateCookie = "oauthstate"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// JWT Claims struct
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CreateUser godoc
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Username and password"
// @Success 200 {object} models.Session
// @Failure 400 {object} utils.ErrorPayload "Missing fields"
// @Failure 409 {object} utils.ErrorPayload "Username already exists"
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := decodeJSON(r.Body, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing fields")
		return
	}

	id := utils.NewID()
	if err := h.store.CreateUser(r.Context(), id, input.Username, input.Password); err != nil {
		if errors.Is(err, apperr.ErrConstraintViolation) {
			utils.ErrorResponse(w, http.StatusConflict, "Username already exists")
			return
		}
		storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user created", "id", id, "username", input.Username)
	utils.JSONResponse(w, http.StatusOK, models.Session{ID: id, Username: input.Username})
}

// LoginUser godoc
// @Summary Log in
// @Description Verifies credentials and sets the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Username and password"
// @Success 200 {object} models.Session
// @Failure 400 {object} utils.ErrorPayload "Missing fields"
// @Failure 401 {object} utils.ErrorPayload "Invalid credentials"
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := decodeJSON(r.Body, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing fields")
		return
	}

	user, err := h.store.GetUserByCredentials(r.Context(), input.Username, input.Password)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if user == nil {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.setSessionCookie(w, user); err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create token")
		return
	}
	utils.JSONResponse(w, http.StatusOK, user.Session())
}

// Session godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} models.Session
// @Failure 401 {object} utils.ErrorPayload
// @Router /api/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	id, username, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.JSONResponse(w, http.StatusOK, models.Session{ID: id, Username: username})
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} successResponse
// @Router /api/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// maxAge < 0 deletes the cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.JSONResponse(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, user *models.User) error {
	if h.cfg.JWTSecret == "" {
		return errors.New("no config found for JWT")
	}

	now := time.Now()
	expiration := now.Add(sessionTTL)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	isProd := h.cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// HandleGoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param redirect query string false "login or register"
// @Success 307
// @Failure 404 {object} utils.ErrorPayload "Google sign-in is not configured"
// @Router /api/auth/google/login [get]
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	flow := flowLogin
	if r.URL.Query().Get("redirect") == flowRegister {
		flow = flowRegister
	}

	state, err := GenerateState(flow)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback godoc
// @Summary Finish Google sign-in
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {object} utils.ErrorPayload "Invalid OAuth state"
// @Router /api/auth/google/callback [get]
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state := r.FormValue("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	flow, err := DecodeState(state)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	ctx := r.Context()

	token, err := h.oauth.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		slog.WarnContext(ctx, "google code exchange failed", "error", err)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Code exchange failed")
		return
	}

	resp, err := h.oauth.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}
	defer resp.Body.Close()

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil || googleUser.Email == "" {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to parse user info")
		return
	}

	user, err := h.store.GetUserByUsername(ctx, googleUser.Email)
	if err != nil {
		storeError(w, r, err)
		return
	}

	switch flow {
	case flowRegister:
		if user != nil {
			http.Redirect(w, r, h.cfg.FrontendURL+"/login?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		// Google-authenticated users get an unguessable password.
		password, err := utils.GenerateSecureToken(32)
		if err != nil {
			utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		id := utils.NewID()
		if err := h.store.CreateUser(ctx, id, googleUser.Email, password); err != nil {
			storeError(w, r, err)
			return
		}
		user = &models.User{ID: id, Username: googleUser.Email}

	default:
		if user == nil {
			http.Redirect(w, r, h.cfg.FrontendURL+"/register?error=user_not_found", http.StatusTemporaryRedirect)
			return
		}
	}

	if err := h.setSessionCookie(w, user); err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create JWT")
		return
	}

	redirectURL := h.cfg.FrontendURL + "/?status=success_login"
	if flow == flowRegister {
		redirectURL = h.cfg.FrontendURL + "/?status=success_register"
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
