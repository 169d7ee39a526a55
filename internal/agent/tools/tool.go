package tools

import (
	"context"
	"fmt"

	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

// Property describes one argument in a tool's JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema is the JSON-Schema object advertised to the model for a tool.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// AsMap renders the schema in the wire shape the completion API expects.
func (s Schema) AsMap() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		entry := map[string]any{"type": prop.Type}
		if prop.Description != "" {
			entry["description"] = prop.Description
		}
		props[name] = entry
	}
	out := map[string]any{
		"type":       s.Type,
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// Tool is one capability the model can invoke. Descriptors are immutable
// after registration.
type Tool interface {
	Name() string
	Description() string
	Parameters() Schema
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Result pairs a tool payload with the model's call ID.
type Result struct {
	CallID  string
	Payload any
}

// ErrorPayload is the shape handed back to the model when a tool fails. The
// model reads it and apologizes; nothing escalates past the registry.
func ErrorPayload(reason string) map[string]any {
	return map[string]any{"error": reason}
}

// SafeExecute runs a tool and converts returned errors and panics into error
// payloads.
func SafeExecute(ctx context.Context, tool Tool, args map[string]any) (payload any) {
	defer func() {
		if r := recover(); r != nil {
			payload = ErrorPayload(fmt.Sprintf("%s failed: %v", tool.Name(), r))
		}
	}()

	out, err := tool.Execute(ctx, args)
	if err != nil {
		if typed := apperrors.As(err); typed != nil {
			return ErrorPayload(typed.Message())
		}
		return ErrorPayload(err.Error())
	}
	return out
}
