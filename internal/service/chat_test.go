package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/helios-game/helios/internal/domain"
	"github.com/helios-game/helios/internal/history"
	"github.com/helios-game/helios/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var kael = domain.NPC{ID: "kael", Name: "Kael", CorePrompt: "A scavenger who trusts no one."}

type chatFixture struct {
	players *mockPlayerStore
	events  *mockEventStore
	history *history.MemoryStore
	llm     *llm.MockClient
	svc     *ChatService
	player  *domain.Player
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	events := newMockEventStore()
	f := &chatFixture{
		players: newMockPlayerStore(events),
		events:  events,
		history: history.NewMemoryStore(10),
		llm:     llm.NewMockClient(),
	}
	f.svc = NewChatService(f.players, newMockNPCStore(kael), f.history, f.llm, 10, zap.NewNop())

	p, err := NewPlayerService(f.players, f.events).Create(context.Background(), "Ada")
	require.NoError(t, err)
	f.player = p
	return f
}

func TestChatService_Chat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.llm.DialogueResponse = "Survival comes first."
	f.llm.SentimentResponse = domain.BeliefDelta{Survival: 0.1, Idealism: -0.1}

	res, err := f.svc.Chat(ctx, f.player.ID, "kael", "Leave them behind.")
	require.NoError(t, err)

	assert.Equal(t, "kael", res.NPC.ID)
	assert.Equal(t, "Kael", res.NPC.Name)
	assert.Equal(t, "Survival comes first.", res.Dialogue)
	assert.Equal(t, domain.BeliefDelta{Survival: 0.1, Idealism: -0.1}, res.BeliefImpact)
	assert.Equal(t, domain.BeliefVector{Survival: 0.6, Idealism: 0.4}, res.Beliefs)

	stored, _ := f.players.GetByID(ctx, f.player.ID)
	assert.Equal(t, domain.BeliefVector{Survival: 0.6, Idealism: 0.4}, stored.Beliefs)

	events := f.events.forPlayer(f.player.ID)
	require.Len(t, events, 1)
	assert.Equal(t, "Spoke to Kael: 'Leave them behind.'", events[0].Description)
	assert.Equal(t, res.BeliefImpact, events[0].BeliefImpact)

	require.Len(t, f.llm.DialogueCalls, 1)
	call := f.llm.DialogueCalls[0]
	assert.Equal(t, "Ada", call.Username)
	assert.Equal(t, kael, call.NPC)
	assert.Empty(t, call.History)
	assert.Equal(t, []string{"Leave them behind."}, f.llm.SentimentCalls)
}

func TestChatService_Chat_ReplaysHistory(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.llm.DialogueResponse = "What do you want?"
	_, err := f.svc.Chat(ctx, f.player.ID, "kael", "Hello")
	require.NoError(t, err)

	f.llm.DialogueResponse = "No."
	_, err = f.svc.Chat(ctx, f.player.ID, "kael", "Share your water?")
	require.NoError(t, err)

	require.Len(t, f.llm.DialogueCalls, 2)
	assert.Equal(t, []domain.Turn{
		{Role: domain.TurnRolePlayer, Content: "Hello"},
		{Role: domain.TurnRoleNPC, Content: "What do you want?"},
	}, f.llm.DialogueCalls[1].History)
}

func TestChatService_Chat_LLMFailuresDegrade(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.llm.DialogueError = errors.New("timeout")
	f.llm.SentimentError = errors.New("malformed json")

	res, err := f.svc.Chat(ctx, f.player.ID, "kael", "Hello?")
	require.NoError(t, err)
	assert.Equal(t, FallbackDialogueLine, res.Dialogue)
	assert.True(t, res.BeliefImpact.IsZero())
	assert.Equal(t, domain.InitialBeliefs(), res.Beliefs)

	events := f.events.forPlayer(f.player.ID)
	require.Len(t, events, 1)
	assert.True(t, events[0].BeliefImpact.IsZero())
}

func TestChatService_Chat_SentimentIsNotClamped(t *testing.T) {
	f := newChatFixture(t)
	f.llm.SentimentResponse = domain.BeliefDelta{Survival: 0.7, Idealism: -0.7}

	res, err := f.svc.Chat(context.Background(), f.player.ID, "kael", "Whatever it takes.")
	require.NoError(t, err)
	assert.InDelta(t, 1.2, res.Beliefs.Survival, 1e-9)
	assert.InDelta(t, -0.2, res.Beliefs.Idealism, 1e-9)
}

func TestChatService_Chat_HistoryFailureDoesNotAbort(t *testing.T) {
	f := newChatFixture(t)
	svc := NewChatService(f.players, newMockNPCStore(kael), failingHistoryStore{}, f.llm, 10, zap.NewNop())

	res, err := svc.Chat(context.Background(), f.player.ID, "kael", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Mock dialogue", res.Dialogue)
	assert.Empty(t, f.llm.DialogueCalls[0].History)
}

func TestChatService_Chat_NoLLM(t *testing.T) {
	f := newChatFixture(t)
	svc := NewChatService(f.players, newMockNPCStore(kael), f.history, nil, 10, zap.NewNop())
	f.players.getCalls = 0

	_, err := svc.Chat(context.Background(), f.player.ID, "kael", "Hello")
	if !errors.Is(err, ErrLLMUnavailable) {
		t.Fatalf("expected ErrLLMUnavailable, got %v", err)
	}
	if f.players.getCalls != 0 {
		t.Fatalf("expected no store access, got %d reads", f.players.getCalls)
	}
}

func TestChatService_Chat_NotFound(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, uuid.New(), "kael", "Hello")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = f.svc.Chat(ctx, f.player.ID, "ghost", "Hello")
	assert.ErrorIs(t, err, ErrNPCNotFound)

	assert.Empty(t, f.llm.DialogueCalls)
	assert.Empty(t, f.events.forPlayer(f.player.ID))
}

func TestChatService_Chat_EventWriteFailureKeepsBeliefs(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	f.llm.SentimentResponse = domain.BeliefDelta{Survival: 0.1, Idealism: -0.1}
	f.events.createErr = errors.New("disk full")

	_, err := f.svc.Chat(ctx, f.player.ID, "kael", "Hello")
	require.Error(t, err)

	stored, _ := f.players.GetByID(ctx, f.player.ID)
	assert.Equal(t, domain.InitialBeliefs(), stored.Beliefs)
	assert.Equal(t, 0, stored.Version)
	assert.Empty(t, f.events.forPlayer(f.player.ID))

	// Retrying once the event store recovers applies the delta exactly once.
	f.events.createErr = nil
	res, err := f.svc.Chat(ctx, f.player.ID, "kael", "Hello")
	require.NoError(t, err)
	assert.Equal(t, domain.BeliefVector{Survival: 0.6, Idealism: 0.4}, res.Beliefs)
	require.Len(t, f.events.forPlayer(f.player.ID), 1)
}
