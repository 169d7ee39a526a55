package enums

import "fmt"

// ConversationActor identifies which side of the exchange authored a turn.
type ConversationActor string

const (
	ActorUser      ConversationActor = "user"
	ActorAssistant ConversationActor = "assistant"
)

var validConversationActors = []ConversationActor{
	ActorUser,
	ActorAssistant,
}

// IsValid reports whether the value matches the canonical conversation actor enum.
func (a ConversationActor) IsValid() bool {
	for _, candidate := range validConversationActors {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseConversationActor converts the raw string to ConversationActor.
func ParseConversationActor(value string) (ConversationActor, error) {
	for _, candidate := range validConversationActors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid conversation actor %q", value)
}
