package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"go.uber.org/zap"
)

var ErrReflectionFailed = errors.New("failed to generate echo chamber reflection")

// EchoChamberService runs the reflection flow: a monologue built from recent
// events, then a discrete choice that shifts the belief vector.
type EchoChamberService struct {
	players domain.PlayerStore
	events  domain.EventStore
	llm     domain.LLMClient
	logger  *zap.Logger
}

func NewEchoChamberService(players domain.PlayerStore, events domain.EventStore, llmClient domain.LLMClient, logger *zap.Logger) *EchoChamberService {
	return &EchoChamberService{
		players: players,
		events:  events,
		llm:     llmClient,
		logger:  logger,
	}
}

func (s *EchoChamberService) Enter(ctx context.Context, playerID uuid.UUID) (*domain.Reflection, error) {
	if s.llm == nil {
		return nil, ErrLLMUnavailable
	}

	player, err := getPlayer(ctx, s.players, playerID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListRecentByPlayer(ctx, playerID, domain.DefaultEventWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent events: %w", err)
	}

	descriptions := make([]string, 0, len(events))
	for _, e := range events {
		descriptions = append(descriptions, e.Description)
	}

	reflection, err := s.llm.GenerateReflection(ctx, domain.ReflectionRequest{
		Username: player.Username,
		Beliefs:  player.Beliefs,
		Events:   descriptions,
	})
	if err != nil {
		s.logger.Error("reflection generation failed",
			zap.String("player_id", playerID.String()),
			zap.Error(err))
		return nil, ErrReflectionFailed
	}
	return reflection, nil
}

// Resolve applies the chosen adjustment and, in the same write, records an event carrying
// the realized (post-clamp) delta. The choice is validated before any store access.
func (s *EchoChamberService) Resolve(ctx context.Context, playerID uuid.UUID, rawChoice string) (domain.BeliefVector, error) {
	choice, err := domain.ParseChoice(rawChoice)
	if err != nil {
		return domain.BeliefVector{}, err
	}

	player, err := getPlayer(ctx, s.players, playerID)
	if err != nil {
		return domain.BeliefVector{}, err
	}

	updated, err := updateBeliefs(ctx, s.players, player,
		func(current domain.BeliefVector) (domain.BeliefVector, error) {
			return domain.ApplyChoiceAdjustment(current, choice)
		},
		func(before, after domain.BeliefVector) *domain.Event {
			return &domain.Event{
				PlayerID:     playerID,
				Description:  fmt.Sprintf("Chose %s in the echo chamber", choice),
				BeliefImpact: after.Sub(before),
			}
		})
	if err != nil {
		return domain.BeliefVector{}, err
	}

	s.logger.Info("echo chamber resolved",
		zap.String("player_id", playerID.String()),
		zap.String("choice", string(choice)),
		zap.Float64("survival", updated.Beliefs.Survival),
		zap.Float64("idealism", updated.Beliefs.Idealism))

	return updated.Beliefs, nil
}
