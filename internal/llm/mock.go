package llm

import (
	"context"
	"sync"

	"github.com/helios-game/helios/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	mu sync.Mutex

	DialogueResponse   string
	DialogueError      error
	SentimentResponse  domain.BeliefDelta
	SentimentError     error
	ReflectionResponse *domain.Reflection
	ReflectionError    error

	// Call tracking for assertions
	DialogueCalls   []domain.DialogueRequest
	SentimentCalls  []string
	ReflectionCalls []domain.ReflectionRequest
}

func NewMockClient() *MockClient {
	c := &MockClient{}
	c.Reset()
	return c
}

func (c *MockClient) GenerateDialogue(ctx context.Context, req domain.DialogueRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DialogueCalls = append(c.DialogueCalls, req)
	if c.DialogueError != nil {
		return "", c.DialogueError
	}
	return c.DialogueResponse, nil
}

func (c *MockClient) ScoreSentiment(ctx context.Context, message string) (domain.BeliefDelta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SentimentCalls = append(c.SentimentCalls, message)
	if c.SentimentError != nil {
		return domain.BeliefDelta{}, c.SentimentError
	}
	return c.SentimentResponse, nil
}

func (c *MockClient) GenerateReflection(ctx context.Context, req domain.ReflectionRequest) (*domain.Reflection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReflectionCalls = append(c.ReflectionCalls, req)
	if c.ReflectionError != nil {
		return nil, c.ReflectionError
	}
	if c.ReflectionResponse == nil {
		return &domain.Reflection{ChoiceA: DefaultChoiceA, ChoiceB: DefaultChoiceB}, nil
	}
	r := *c.ReflectionResponse
	return &r, nil
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DialogueResponse = "Mock dialogue"
	c.DialogueError = nil
	c.SentimentResponse = domain.BeliefDelta{}
	c.SentimentError = nil
	c.ReflectionResponse = &domain.Reflection{
		Monologue: "Mock monologue",
		ChoiceA:   DefaultChoiceA,
		ChoiceB:   DefaultChoiceB,
	}
	c.ReflectionError = nil
	c.DialogueCalls = nil
	c.SentimentCalls = nil
	c.ReflectionCalls = nil
}
