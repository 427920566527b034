package api

import (
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/rohits-web03/accountabilabuddy/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/accountabilabuddy/internal/api/handlers"
	"github.com/rohits-web03/accountabilabuddy/internal/api/middleware"
	"github.com/rohits-web03/accountabilabuddy/internal/config"
	"github.com/rs/cors"
)

func SetupRouter(h *handlers.Handler, cfg config.Config) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mainMux.HandleFunc("GET /dbinfo", h.DBInfo)
	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("POST /api/users", h.CreateUser)
	mainMux.HandleFunc("POST /api/login", h.LoginUser)
	mainMux.HandleFunc("POST /api/logout", h.Logout)
	mainMux.HandleFunc("GET /api/auth/google/login", h.HandleGoogleLogin)
	mainMux.HandleFunc("GET /api/auth/google/callback", h.HandleGoogleCallback)

	mainMux.HandleFunc("GET /api/todos/{user_id}", h.ListTodos)
	mainMux.HandleFunc("POST /api/todos", h.CreateTodo)
	mainMux.HandleFunc("PATCH /api/todos/{id}", h.UpdateTodo)
	mainMux.HandleFunc("DELETE /api/todos/{id}", h.DeleteTodo)

	mainMux.HandleFunc("GET /api/friends/{user_id}/todos", h.ListFriendTodos)
	mainMux.HandleFunc("POST /api/friends", h.AddFriend)

	// ---------- PROTECTED ROUTES ----------
	mainMux.Handle("GET /api/session",
		middleware.Session(cfg.JWTSecret)(http.HandlerFunc(h.Session)),
	)

	slog.Debug("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
