package tools

import (
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
)

// Registry holds the tools exposed to the model. Registration order is
// preserved so the manifest is deterministic.
type Registry struct {
	order  []string
	byName map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds tools. Re-registering a name replaces the previous tool and
// keeps its original position.
func (r *Registry) Register(toolset ...Tool) {
	for _, tool := range toolset {
		name := tool.Name()
		if _, exists := r.byName[name]; !exists {
			r.order = append(r.order, name)
		}
		r.byName[name] = tool
	}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Manifest renders the function-calling manifest in registration order.
func (r *Registry) Manifest() []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(r.order))
	for _, name := range r.order {
		tool := r.byName[name]
		out = append(out, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        tool.Name(),
			Description: openai.String(tool.Description()),
			Parameters:  shared.FunctionParameters(tool.Parameters().AsMap()),
		}))
	}
	return out
}
