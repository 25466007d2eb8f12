package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
	"go.uber.org/zap"
)

// FallbackDialogueLine is what the NPC says when dialogue generation fails.
const FallbackDialogueLine = "My thoughts are a little scattered right now..."

var (
	ErrNPCNotFound    = errors.New("npc not found")
	ErrLLMUnavailable = errors.New("llm client not configured")
)

type ChatService struct {
	players      domain.PlayerStore
	npcs         domain.NPCStore
	history      domain.HistoryStore
	llm          domain.LLMClient
	historyTurns int
	logger       *zap.Logger
}

func NewChatService(
	players domain.PlayerStore,
	npcs domain.NPCStore,
	history domain.HistoryStore,
	llmClient domain.LLMClient,
	historyTurns int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		players:      players,
		npcs:         npcs,
		history:      history,
		llm:          llmClient,
		historyTurns: historyTurns,
		logger:       logger,
	}
}

// ChatResult is one NPC reply and the belief shift the player's message caused.
type ChatResult struct {
	NPC          domain.NPC
	Dialogue     string
	BeliefImpact domain.BeliefDelta
	Beliefs      domain.BeliefVector
}

// Chat relays a player message to an NPC. Dialogue and sentiment failures
// degrade to fixed fallbacks; persistence failures are returned.
func (s *ChatService) Chat(ctx context.Context, playerID uuid.UUID, npcID, message string) (*ChatResult, error) {
	if s.llm == nil {
		return nil, ErrLLMUnavailable
	}

	player, err := getPlayer(ctx, s.players, playerID)
	if err != nil {
		return nil, err
	}
	npc, err := s.npcs.GetByID(ctx, npcID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNPCNotFound
		}
		return nil, err
	}

	dialogue, err := s.llm.GenerateDialogue(ctx, domain.DialogueRequest{
		NPC:      *npc,
		Username: player.Username,
		History:  s.recentTurns(ctx, playerID, npc.ID),
		Message:  message,
	})
	if err != nil {
		s.logger.Warn("dialogue generation failed, using fallback line",
			zap.String("player_id", playerID.String()),
			zap.String("npc_id", npc.ID),
			zap.Error(err))
		dialogue = FallbackDialogueLine
	}

	delta, err := s.llm.ScoreSentiment(ctx, message)
	if err != nil {
		s.logger.Warn("sentiment scoring failed, using zero delta",
			zap.String("player_id", playerID.String()),
			zap.Error(err))
		delta = domain.BeliefDelta{}
	}

	updated, err := updateBeliefs(ctx, s.players, player,
		func(current domain.BeliefVector) (domain.BeliefVector, error) {
			return domain.ApplySentimentDelta(current, delta), nil
		},
		func(_, _ domain.BeliefVector) *domain.Event {
			return &domain.Event{
				PlayerID:     playerID,
				Description:  fmt.Sprintf("Spoke to %s: '%s'", npc.Name, message),
				BeliefImpact: delta,
			}
		})
	if err != nil {
		return nil, err
	}
	if !updated.Beliefs.InRange() {
		s.logger.Debug("beliefs left [0, 1] after sentiment delta",
			zap.String("player_id", playerID.String()),
			zap.Float64("survival", updated.Beliefs.Survival),
			zap.Float64("idealism", updated.Beliefs.Idealism))
	}

	s.appendTurns(ctx, playerID, npc.ID, message, dialogue)

	s.logger.Info("chat event recorded",
		zap.String("player_id", playerID.String()),
		zap.String("npc_id", npc.ID),
		zap.Float64("survival_delta", delta.Survival),
		zap.Float64("idealism_delta", delta.Idealism))

	return &ChatResult{
		NPC:          *npc,
		Dialogue:     dialogue,
		BeliefImpact: delta,
		Beliefs:      updated.Beliefs,
	}, nil
}

func (s *ChatService) recentTurns(ctx context.Context, playerID uuid.UUID, npcID string) []domain.Turn {
	if s.history == nil || s.historyTurns <= 0 {
		return nil
	}
	turns, err := s.history.Recent(ctx, playerID, npcID, s.historyTurns)
	if err != nil {
		s.logger.Warn("failed to load conversation history",
			zap.String("player_id", playerID.String()),
			zap.String("npc_id", npcID),
			zap.Error(err))
		return nil
	}
	return turns
}

func (s *ChatService) appendTurns(ctx context.Context, playerID uuid.UUID, npcID, message, dialogue string) {
	if s.history == nil {
		return
	}
	err := s.history.Append(ctx, playerID, npcID,
		domain.Turn{Role: domain.TurnRolePlayer, Content: message},
		domain.Turn{Role: domain.TurnRoleNPC, Content: dialogue},
	)
	if err != nil {
		s.logger.Warn("failed to save conversation history",
			zap.String("player_id", playerID.String()),
			zap.String("npc_id", npcID),
			zap.Error(err))
	}
}
