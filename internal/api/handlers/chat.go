package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	PlayerID string `json:"player_id"`
	NPCID    string `json:"npc_id"`
	Message  string `json:"message"`
}

type chatResponse struct {
	CharacterID   string             `json:"character_id"`
	CharacterName string             `json:"character_name"`
	Dialogue      string             `json:"dialogue"`
	BeliefImpact  domain.BeliefDelta `json:"belief_impact"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	playerID, ok := parsePlayerID(w, req.PlayerID)
	if !ok {
		return
	}
	if req.NPCID == "" {
		writeError(w, http.StatusBadRequest, "npc_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	res, err := h.svc.Chat(r.Context(), playerID, req.NPCID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLLMUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, service.ErrNPCNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrBeliefConflict):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to process chat")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		CharacterID:   res.NPC.ID,
		CharacterName: res.NPC.Name,
		Dialogue:      res.Dialogue,
		BeliefImpact:  res.BeliefImpact,
	})
}
