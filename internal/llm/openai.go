package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helios-game/helios/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dialogueTemperature   = 0.8
	sentimentTemperature  = 0.0
	reflectionTemperature = 0.7
	requestTimeout        = 60 * time.Second
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
// DeepSeek is reached by pointing BaseURL at its endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	system string
	tracer trace.Tracer
}

// NewOpenAIClient builds a client that makes exactly one attempt per call;
// callers degrade on failure instead of retrying.
func NewOpenAIClient(opts Options) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(requestTimeout),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		client: &client,
		model:  opts.Model,
		system: systemName(opts.BaseURL),
		tracer: otel.Tracer("helios/llm"),
	}
}

func systemName(baseURL string) string {
	if strings.Contains(baseURL, "deepseek") {
		return "deepseek"
	}
	return "openai"
}

// completeJSON runs one chat completion constrained to a JSON object reply
// and returns the raw message content.
func (c *OpenAIClient) completeJSON(ctx context.Context, operation string, messages []openai.ChatCompletionMessageParamUnion, temp float64) (string, error) {
	ctx, span := c.tracer.Start(ctx, "llm."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.system", c.system),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Float64("gen_ai.request.temperature", temp),
			attribute.String("game.operation_type", operation),
		),
	)
	defer span.End()

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(temp),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: func() *shared.ResponseFormatJSONObjectParam {
				p := shared.NewResponseFormatJSONObjectParam()
				return &p
			}(),
		},
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return "", fmt.Errorf("%s completion failed: %w", operation, err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%s completion returned no choices", operation)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	content := resp.Choices[0].Message.Content
	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.String("gen_ai.response.finish_reason", string(resp.Choices[0].FinishReason)),
		attribute.Int64("response_time_ms", time.Since(start).Milliseconds()),
	)
	return content, nil
}

func (c *OpenAIClient) GenerateDialogue(ctx context.Context, req domain.DialogueRequest) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(dialogueSystemPrompt, req.NPC.Name, req.NPC.CorePrompt, req.Username)),
	}
	for _, turn := range req.History {
		switch turn.Role {
		case domain.TurnRoleNPC:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(fmt.Sprintf(dialogueUserPrompt, req.Message)))

	result, err := c.completeJSON(ctx, "dialogue", messages, dialogueTemperature)
	if err != nil {
		return "", err
	}
	return parseDialogue(result)
}

func (c *OpenAIClient) ScoreSentiment(ctx context.Context, message string) (domain.BeliefDelta, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(sentimentPrompt, message)),
	}

	result, err := c.completeJSON(ctx, "sentiment", messages, sentimentTemperature)
	if err != nil {
		return domain.BeliefDelta{}, err
	}
	return parseSentiment(result)
}

func (c *OpenAIClient) GenerateReflection(ctx context.Context, req domain.ReflectionRequest) (*domain.Reflection, error) {
	events := noRecentEvents
	if len(req.Events) > 0 {
		var sb strings.Builder
		for i, e := range req.Events {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- ")
			sb.WriteString(e)
		}
		events = sb.String()
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(reflectionPrompt,
			req.Username, req.Beliefs.Survival, req.Beliefs.Idealism, events,
			DefaultChoiceA, DefaultChoiceB)),
	}

	result, err := c.completeJSON(ctx, "reflection", messages, reflectionTemperature)
	if err != nil {
		return nil, err
	}
	return parseReflection(result)
}
