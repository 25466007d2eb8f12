package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/service"
)

type PlayerHandler struct {
	svc *service.PlayerService
}

func NewPlayerHandler(svc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

type createCharacterRequest struct {
	Username string `json:"username"`
}

type createCharacterResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	PlayerID string `json:"player_id"`
}

func (h *PlayerHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	p, err := h.svc.Create(r.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrPlayerConflict) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create character")
		return
	}

	writeJSON(w, http.StatusOK, createCharacterResponse{
		Status:   "success",
		Message:  "Character created successfully!",
		PlayerID: p.ID.String(),
	})
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlayerID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get player")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PlayerHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePlayerID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.svc.ListEvents(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
