package handlers

import (
	"errors"
	"net/http"

	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/service"
)

type EchoChamberHandler struct {
	svc *service.EchoChamberService
}

func NewEchoChamberHandler(svc *service.EchoChamberService) *EchoChamberHandler {
	return &EchoChamberHandler{svc: svc}
}

type playerIDRequest struct {
	PlayerID string `json:"player_id"`
}

type resolveRequest struct {
	PlayerID string `json:"player_id"`
	Choice   string `json:"choice"`
}

type resolveResponse struct {
	Status     string              `json:"status"`
	NewBeliefs domain.BeliefVector `json:"new_beliefs"`
}

func (h *EchoChamberHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req playerIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	playerID, ok := parsePlayerID(w, req.PlayerID)
	if !ok {
		return
	}

	reflection, err := h.svc.Enter(r.Context(), playerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLLMUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrPlayerNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrReflectionFailed):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to enter echo chamber")
		}
		return
	}

	writeJSON(w, http.StatusOK, reflection)
}

func (h *EchoChamberHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	playerID, ok := parsePlayerID(w, req.PlayerID)
	if !ok {
		return
	}

	beliefs, err := h.svc.Resolve(r.Context(), playerID, req.Choice)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidChoice):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlayerNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrBeliefConflict):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to resolve echo chamber")
		}
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Status: "success", NewBeliefs: beliefs})
}
