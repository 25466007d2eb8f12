package handlers

import (
	"net/http"

	"github.com/helios-game/helios/internal/domain"
)

type NPCHandler struct {
	npcs domain.NPCStore
}

func NewNPCHandler(npcs domain.NPCStore) *NPCHandler {
	return &NPCHandler{npcs: npcs}
}

func (h *NPCHandler) List(w http.ResponseWriter, r *http.Request) {
	npcs, err := h.npcs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list npcs")
		return
	}
	if npcs == nil {
		npcs = []domain.NPC{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"npcs": npcs})
}
