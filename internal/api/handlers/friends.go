package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Bounds concurrent username lookups per request.
const usernameLookupLimit = 8

type addFriendInput struct {
	UserID         string `json:"user_id"`
	FriendUsername string `json:"friend_username"`
}

type addFriendResponse struct {
	Success        bool   `json:"success"`
	FriendUserID   string `json:"friend_user_id"`
	FriendUsername string `json:"friend_username"`
}

// ListFriendTodos godoc
// @Summary Public todos of a user's friends
// @Description Each todo carries its owner's username, or the raw owner id when the user is gone.
// @Tags Friends
// @Produce json
// @Param user_id path string true "Viewer id"
// @Success 200 {array} models.FriendTodo
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/friends/{user_id}/todos [get]
func (h *Handler) ListFriendTodos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	todos, err := h.store.GetPublicTodosFromFriends(ctx, r.PathValue("user_id"))
	if err != nil {
		storeError(w, r, err)
		return
	}

	ownerIDs := make([]string, 0, len(todos))
	for _, t := range todos {
		ownerIDs = append(ownerIDs, t.UserID)
	}
	usernames, err := resolveUsernames(ctx, ownerIDs, h.store.GetUserByID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	result := make([]models.FriendTodo, 0, len(todos))
	for _, t := range todos {
		result = append(result, models.FriendTodo{Todo: t, Username: usernames[t.UserID]})
	}
	utils.JSONResponse(w, http.StatusOK, result)
}

type userLookup func(ctx context.Context, id string) (*models.User, error)

// resolveUsernames maps each distinct owner id to its username, falling back
// to the id itself when no such user exists.
func resolveUsernames(ctx context.Context, ownerIDs []string, lookup userLookup) (map[string]string, error) {
	usernames := make(map[string]string, len(ownerIDs))
	var unique []string
	for _, id := range ownerIDs {
		if _, seen := usernames[id]; !seen {
			usernames[id] = id
			unique = append(unique, id)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(usernameLookupLimit)
	for _, id := range unique {
		g.Go(func() error {
			user, err := lookup(gctx, id)
			if err != nil {
				return err
			}
			if user != nil {
				mu.Lock()
				usernames[id] = user.Username
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return usernames, nil
}

// AddFriend godoc
// @Summary Follow another user's public todos
// @Description Adds a one-way edge from user_id to the user named friend_username.
// @Tags Friends
// @Accept json
// @Produce json
// @Param body body addFriendInput true "Acting user id and friend's username"
// @Success 200 {object} addFriendResponse
// @Failure 400 {object} utils.ErrorPayload "Missing user_id or friend_username"
// @Failure 404 {object} utils.ErrorPayload "Friend username not found"
// @Failure 409 {object} utils.ErrorPayload "Already friends"
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/friends [post]
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var input addFriendInput
	if err := decodeJSON(r.Body, &input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserID == "" || input.FriendUsername == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing user_id or friend_username")
		return
	}

	ctx := r.Context()
	friend, err := h.store.GetUserByUsername(ctx, input.FriendUsername)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if friend == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Friend username not found")
		return
	}

	self, err := h.store.GetUserByID(ctx, input.UserID)
	if err != nil {
		storeError(w, r, err)
		return
	}
	if self == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if self.ID == friend.ID {
		utils.ErrorResponse(w, http.StatusBadRequest, "Cannot add yourself as a friend")
		return
	}

	if err := h.store.AddFriendEdge(ctx, self.ID, friend.ID); err != nil {
		switch {
		case errors.Is(err, apperr.ErrConstraintViolation):
			utils.ErrorResponse(w, http.StatusConflict, "Already friends")
		case errors.Is(err, apperr.ErrNotFound):
			utils.ErrorResponse(w, http.StatusNotFound, "User not found")
		default:
			storeError(w, r, err)
		}
		return
	}

	utils.JSONResponse(w, http.StatusOK, addFriendResponse{
		Success:        true,
		FriendUserID:   friend.ID,
		FriendUsername: input.FriendUsername,
	})
}
