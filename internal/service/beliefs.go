package service

import (
	"context"
	"errors"

	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/store"
)

const maxBeliefUpdateAttempts = 3

var ErrBeliefConflict = errors.New("beliefs changed concurrently, please retry")

// beliefUpdate computes the next vector from the current one.
type beliefUpdate func(current domain.BeliefVector) (domain.BeliefVector, error)

// beliefEvent describes the change from before to after as an event.
type beliefEvent func(before, after domain.BeliefVector) *domain.Event

// updateBeliefs writes next(player.Beliefs) guarded by the player's version,
// together with the event record builds for that change. On a version
// conflict the player is re-read and next is applied again to the fresh vector.
func updateBeliefs(ctx context.Context, players domain.PlayerStore, player *domain.Player, next beliefUpdate, record beliefEvent) (*domain.Player, error) {
	current := player
	for attempt := 1; ; attempt++ {
		beliefs, err := next(current.Beliefs)
		if err != nil {
			return nil, err
		}

		event := record(current.Beliefs, beliefs)
		updated, err := players.UpdateBeliefs(ctx, current.ID, beliefs, current.Version, event)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrPlayerNotFound
		case !errors.Is(err, store.ErrVersionConflict):
			return nil, err
		}

		if attempt == maxBeliefUpdateAttempts {
			return nil, ErrBeliefConflict
		}
		if current, err = getPlayer(ctx, players, player.ID); err != nil {
			return nil, err
		}
	}
}
