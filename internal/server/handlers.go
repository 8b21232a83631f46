package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/repositories"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
)

// Error codes sent in {"error": ...} bodies.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidUserID      = "INVALID_USER_ID"
	CodeInvalidEventID     = "INVALID_EVENT_ID"
	CodeInternal           = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// FavoriteStatus is the body returned by add and remove.
type FavoriteStatus struct {
	EventID string `json:"eventId"`
	Saved   bool   `json:"saved"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return nil
}

// AuthHandler serves sign-in and sign-up.
type AuthHandler struct {
	accounts *repositories.AccountRepository
	logger   *log.Logger
}

// NewAuthHandler creates an [AuthHandler].
func NewAuthHandler(accounts *repositories.AccountRepository, logger *log.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

func (h *AuthHandler) Routes() []string {
	return []string{"POST /api/auth/signin", "POST /api/auth/signup"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/signin":
		h.signIn(w, r)
	case "/api/auth/signup":
		h.signUp(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req services.SignInRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, CodeValidation)
		return
	}

	account, err := h.accounts.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, CodeInvalidCredentials)
	case err != nil:
		h.logger.Error("sign-in failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, CodeInternal)
	default:
		writeJSON(w, http.StatusOK, account.User())
	}
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req services.SignUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation)
		return
	}

	account, err := h.accounts.Create(req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, shared.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, CodeEmailExists)
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, CodeValidation)
	case err != nil:
		h.logger.Error("sign-up failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, CodeInternal)
	default:
		h.logger.Info("account created", "account", account.ID)
		writeJSON(w, http.StatusOK, account.User())
	}
}

// FavoritesHandler serves the per-account favorites routes.
type FavoritesHandler struct {
	accounts  *repositories.AccountRepository
	favorites *repositories.FavoriteRepository
	logger    *log.Logger
}

// NewFavoritesHandler creates a [FavoritesHandler].
func NewFavoritesHandler(accounts *repositories.AccountRepository, favorites *repositories.FavoriteRepository, logger *log.Logger) *FavoritesHandler {
	return &FavoritesHandler{accounts: accounts, favorites: favorites, logger: logger}
}

func (h *FavoritesHandler) Routes() []string {
	return []string{
		"GET /api/favorites/{userId}",
		"POST /api/favorites/{userId}/bulk",
		"POST /api/favorites/{userId}/{eventId}",
		"DELETE /api/favorites/{userId}/{eventId}",
	}
}

func (h *FavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.account(w, r)
	if !ok {
		return
	}

	switch {
	case r.Method == http.MethodGet:
		h.list(w, r, userID)
	case r.Method == http.MethodPost && r.PathValue("eventId") == "":
		h.bulk(w, r, userID)
	case r.Method == http.MethodPost:
		h.add(w, r, userID)
	case r.Method == http.MethodDelete:
		h.remove(w, r, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// account resolves {userId} to an existing account or writes the error response.
func (h *FavoritesHandler) account(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidUserID)
		return 0, false
	}

	exists, err := h.accounts.Exists(id)
	if err != nil {
		h.internal(w, r, err)
		return 0, false
	}
	if !exists {
		writeError(w, http.StatusNotFound, CodeUserNotFound)
		return 0, false
	}
	return id, true
}

func (h *FavoritesHandler) internal(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("favorites request failed", "error", err, "path", r.URL.Path, "request_id", RequestID(r.Context()))
	writeError(w, http.StatusInternalServerError, CodeInternal)
}

func (h *FavoritesHandler) list(w http.ResponseWriter, r *http.Request, userID int64) {
	ids, err := h.favorites.List(userID)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *FavoritesHandler) add(w http.ResponseWriter, r *http.Request, userID int64) {
	id := models.FavoriteID(strings.TrimSpace(r.PathValue("eventId")))
	if err := h.favorites.Add(userID, id); err != nil {
		if errors.Is(err, shared.ErrInvalidEventID) {
			writeError(w, http.StatusBadRequest, CodeInvalidEventID)
			return
		}
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteStatus{EventID: string(id), Saved: true})
}

func (h *FavoritesHandler) remove(w http.ResponseWriter, r *http.Request, userID int64) {
	id := models.FavoriteID(strings.TrimSpace(r.PathValue("eventId")))
	if err := h.favorites.Remove(userID, id); err != nil {
		if errors.Is(err, shared.ErrInvalidEventID) {
			writeError(w, http.StatusBadRequest, CodeInvalidEventID)
			return
		}
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteStatus{EventID: string(id), Saved: false})
}

func (h *FavoritesHandler) bulk(w http.ResponseWriter, r *http.Request, userID int64) {
	var req services.BulkFavoritesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation)
		return
	}

	ids := make([]models.FavoriteID, 0, len(req.EventIDs))
	for _, id := range req.EventIDs {
		ids = append(ids, models.FavoriteID(id))
	}

	all, err := h.favorites.AddAll(userID, ids)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	h.logger.Info("bulk favorites saved", "account", userID, "received", len(ids), "total", len(all))
	writeJSON(w, http.StatusOK, all)
}

// EventsHandler serves the read-only catalog.
type EventsHandler struct {
	catalog *catalog.Catalog
}

// NewEventsHandler creates an [EventsHandler].
func NewEventsHandler(c *catalog.Catalog) *EventsHandler {
	return &EventsHandler{catalog: c}
}

func (h *EventsHandler) Routes() []string {
	return []string{"GET /api/events", "GET /api/events/{eventId}"}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id := r.PathValue("eventId"); id != "" {
		ev, ok := h.catalog.Find(models.FavoriteID(id))
		if !ok {
			writeError(w, http.StatusNotFound, "EVENT_NOT_FOUND")
			return
		}
		writeJSON(w, http.StatusOK, ev)
		return
	}

	q := r.URL.Query()
	events := h.catalog.Filter(q.Get("category"), q.Get("q"))
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
