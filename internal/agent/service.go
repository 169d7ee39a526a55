package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"

	"github.com/aivanahq/aivana-backend/internal/agent/tools"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
	"github.com/aivanahq/aivana-backend/pkg/logger"
	"github.com/aivanahq/aivana-backend/pkg/metrics"
)

// ChatCompleter is the model surface the orchestrator needs. Pass nil tools
// to force a plain text answer.
type ChatCompleter interface {
	Complete(
		ctx context.Context,
		messages []openai.ChatCompletionMessageParamUnion,
		tools []openai.ChatCompletionToolUnionParam,
	) (*openai.ChatCompletionMessage, error)
}

// ConversationStore persists the append-only conversation log.
type ConversationStore interface {
	Append(ctx context.Context, userID, message string, actor enums.ConversationActor) (*models.Conversation, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Conversation, error)
}

// Reply is what the chat endpoint returns. Tool payloads stay internal; the
// model's prose is the only surface.
type Reply struct {
	Response string `json:"response"`
}

// Service runs the two-pass tool-calling conversation loop.
type Service struct {
	llm      ChatCompleter
	store    ConversationStore
	registry *tools.Registry
	window   int
	logg     *logger.Logger
	metrics  *metrics.AgentMetrics
}

func NewService(
	llm ChatCompleter,
	store ConversationStore,
	registry *tools.Registry,
	historyWindow int,
	logg *logger.Logger,
	agentMetrics *metrics.AgentMetrics,
) *Service {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Service{
		llm:      llm,
		store:    store,
		registry: registry,
		window:   historyWindow,
		logg:     logg,
		metrics:  agentMetrics,
	}
}

// ProcessMessage handles one chat turn. It always returns a reply: any
// failure past input validation collapses into a fixed apology so the
// customer never sees an internal error.
func (s *Service) ProcessMessage(ctx context.Context, userID, userMessage string) Reply {
	started := time.Now()
	ctx = s.logg.WithSessionID(ctx, userID)

	reply, ok := s.processMessage(ctx, userID, userMessage)
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	s.metrics.ObserveTurn(outcome, time.Since(started))
	return reply
}

func (s *Service) processMessage(ctx context.Context, userID, userMessage string) (Reply, bool) {
	if _, err := s.store.Append(ctx, userID, userMessage, enums.ActorUser); err != nil {
		// The turn proceeds; the log just loses one entry.
		s.logg.Warn(ctx, "failed to persist user turn: "+err.Error())
	}

	history, err := s.store.RecentByUser(ctx, userID, s.window)
	if err != nil {
		s.logg.Error(ctx, "loading conversation window", err)
		return Reply{Response: apologeticReply}, false
	}

	msgs := buildMessages(history, userMessage)

	first, err := s.llm.Complete(ctx, msgs, s.registry.Manifest())
	if err != nil {
		s.logg.Error(ctx, "first model call failed", err)
		return Reply{Response: apologeticReply}, false
	}

	final := first.Content
	if len(first.ToolCalls) > 0 {
		msgs = append(msgs, first.ToParam())
		for _, result := range s.dispatchToolCalls(ctx, userID, first.ToolCalls) {
			payload, err := json.Marshal(result.Payload)
			if err != nil {
				payload = []byte(`{"error":"tool result could not be serialized"}`)
			}
			msgs = append(msgs, openai.ToolMessage(string(payload), result.CallID))
		}

		second, err := s.llm.Complete(ctx, msgs, nil)
		if err != nil {
			s.logg.Error(ctx, "second model call failed", err)
			return Reply{Response: apologeticReply}, false
		}
		final = second.Content
	}

	if strings.TrimSpace(final) == "" {
		s.logg.Warn(ctx, "model returned empty content")
		return Reply{Response: apologeticReply}, false
	}

	if _, err := s.store.Append(ctx, userID, final, enums.ActorAssistant); err != nil {
		s.logg.Warn(ctx, "failed to persist assistant turn: "+err.Error())
	}

	return Reply{Response: final}, true
}

// dispatchToolCalls executes the model's tool calls sequentially, in model
// order, producing exactly one result per call. Failures become error
// payloads the model can read; they never abort the turn.
func (s *Service) dispatchToolCalls(ctx context.Context, userID string, calls []openai.ChatCompletionMessageToolCallUnion) []tools.Result {
	results := make([]tools.Result, 0, len(calls))
	for _, call := range calls {
		name := call.Function.Name
		result := tools.Result{CallID: call.ID}

		tool, ok := s.registry.Get(name)
		if !ok {
			result.Payload = tools.ErrorPayload(fmt.Sprintf("Unknown tool: %s", name))
			results = append(results, result)
			s.metrics.IncToolCall(name, "unknown")
			continue
		}

		args := map[string]any{}
		if raw := call.Function.Arguments; raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				result.Payload = tools.ErrorPayload(fmt.Sprintf("invalid arguments for %s: %v", name, err))
				results = append(results, result)
				s.metrics.IncToolCall(name, "error")
				continue
			}
		}

		// The model talks to one customer at a time; when it forgets the
		// session it means the current one.
		if _, declared := tool.Parameters().Properties["sessionId"]; declared {
			if v, ok := args["sessionId"].(string); !ok || strings.TrimSpace(v) == "" {
				args["sessionId"] = userID
			}
		}

		payload := tools.SafeExecute(ctx, tool, args)
		result.Payload = payload

		outcome := "ok"
		if m, isMap := payload.(map[string]any); isMap {
			if _, hasErr := m["error"]; hasErr {
				outcome = "error"
			}
		}
		s.metrics.IncToolCall(name, outcome)
		results = append(results, result)
	}
	return results
}

// GetConversationHistory returns the user's turns in chronological order.
func (s *Service) GetConversationHistory(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "user id is required")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.store.RecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading conversation history")
	}
	return rows, nil
}
