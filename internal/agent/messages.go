package agent

import (
	"github.com/openai/openai-go/v2"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

// buildMessages assembles the prompt for the first model call: system frame,
// the recent window in chronological order, then the new user message unless
// the window already ends with it (the turn was persisted before the window
// was read).
func buildMessages(history []models.Conversation, userMessage string) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(systemPrompt))

	for i := range history {
		turn := &history[i]
		switch turn.Actor {
		case enums.ActorAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Message))
		default:
			msgs = append(msgs, openai.UserMessage(turn.Message))
		}
	}

	if n := len(history); n == 0 ||
		history[n-1].Actor != enums.ActorUser ||
		history[n-1].Message != userMessage {
		msgs = append(msgs, openai.UserMessage(userMessage))
	}
	return msgs
}
