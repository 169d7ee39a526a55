package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v2"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/internal/agent/tools"
	cartsvc "github.com/aivanahq/aivana-backend/internal/cart"
	"github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	"github.com/aivanahq/aivana-backend/pkg/logger"
	"github.com/aivanahq/aivana-backend/pkg/metrics"
)

type fakeStore struct {
	turns      []models.Conversation
	failAppend bool
	failRecent bool
}

func (f *fakeStore) Append(_ context.Context, userID, message string, actor enums.ConversationActor) (*models.Conversation, error) {
	if f.failAppend {
		return nil, errors.New("store down")
	}
	turn := models.Conversation{ID: uuid.New(), UserID: userID, Message: message, Actor: actor}
	f.turns = append(f.turns, turn)
	return &turn, nil
}

func (f *fakeStore) RecentByUser(_ context.Context, userID string, limit int) ([]models.Conversation, error) {
	if f.failRecent {
		return nil, errors.New("store down")
	}
	var rows []models.Conversation
	for _, turn := range f.turns {
		if turn.UserID == userID {
			rows = append(rows, turn)
		}
	}
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

type llmCall struct {
	messages []openai.ChatCompletionMessageParamUnion
	tools    []openai.ChatCompletionToolUnionParam
}

type fakeLLM struct {
	responses []*openai.ChatCompletionMessage
	errs      []error
	calls     []llmCall
}

func (f *fakeLLM) Complete(_ context.Context, messages []openai.ChatCompletionMessageParamUnion, toolset []openai.ChatCompletionToolUnionParam) (*openai.ChatCompletionMessage, error) {
	f.calls = append(f.calls, llmCall{messages: messages, tools: toolset})
	idx := len(f.calls) - 1
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return &openai.ChatCompletionMessage{Content: "fallback"}, nil
}

func textReply(content string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{Content: content}
}

func toolCallReply(name, args string) *openai.ChatCompletionMessage {
	return &openai.ChatCompletionMessage{
		ToolCalls: []openai.ChatCompletionMessageToolCallUnion{{
			ID:   "call_1",
			Type: "function",
			Function: openai.ChatCompletionMessageFunctionToolCallFunction{
				Name:      name,
				Arguments: args,
			},
		}},
	}
}

func newCartStack(t *testing.T) (*cartsvc.Service, *gorm.DB) {
	t.Helper()
	dsn := "file:agent_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.CartSession{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return cartsvc.NewService(cartsvc.NewRepository(db), products.NewRepository(db)), db
}

func newAgent(llm ChatCompleter, store ConversationStore, registry *tools.Registry) *Service {
	logg := logger.New(logger.Options{ServiceName: "agent-test"})
	return NewService(llm, store, registry, 10, logg, metrics.NewAgentMetrics(nil))
}

func TestProcessMessagePlainReply(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{textReply("Hello, how can I help?")}}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "hi")
	if reply.Response != "Hello, how can I help?" {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}
	if len(llm.calls) != 1 {
		t.Fatalf("expected a single model call, got %d", len(llm.calls))
	}
	if len(store.turns) != 2 {
		t.Fatalf("expected exactly 2 persisted turns, got %d", len(store.turns))
	}
	if store.turns[0].Actor != enums.ActorUser || store.turns[1].Actor != enums.ActorAssistant {
		t.Fatalf("turns persisted in wrong order: %+v", store.turns)
	}
}

func TestProcessMessageSurvivesStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failRecent: true}
	llm := &fakeLLM{}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "hi")
	if reply.Response == "" {
		t.Fatal("reply must never be empty")
	}
	if !strings.Contains(reply.Response, "I'm sorry") {
		t.Fatalf("expected the apology, got %q", reply.Response)
	}
}

func TestProcessMessageSurvivesModelFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	llm := &fakeLLM{errs: []error{errors.New("upstream 500")}}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "hi")
	if !strings.Contains(reply.Response, "I'm sorry") {
		t.Fatalf("expected the apology, got %q", reply.Response)
	}
}

func TestProcessMessageEmptyModelContent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{textReply("   ")}}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "hi")
	if !strings.Contains(reply.Response, "I'm sorry") {
		t.Fatalf("expected the apology, got %q", reply.Response)
	}
}

func TestProcessMessageAppendFailureStillReplies(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failAppend: true, failRecent: false}
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{textReply("still here")}}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "hi")
	if reply.Response != "still here" {
		t.Fatalf("append failure must not break the turn: %q", reply.Response)
	}
}

func TestProcessMessageToolRoundTrip(t *testing.T) {
	t.Parallel()

	carts, db := newCartStack(t)
	price := decimal.RequireFromString("10.00")
	product := models.Product{
		ID: uuid.New(), SellerID: uuid.New(), Name: "Widget",
		Price: price, Currency: "USD", StockQuantity: 9, Status: "active",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewAddToCart(carts))

	store := &fakeStore{}
	args := fmt.Sprintf(`{"productId":%q,"quantity":3}`, product.ID)
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{
		toolCallReply("add_to_cart", args),
		textReply("Added 3 Widgets to your cart."),
	}}
	svc := newAgent(llm, store, registry)

	reply := svc.ProcessMessage(context.Background(), "user-1", "add 3 widgets")
	if reply.Response != "Added 3 Widgets to your cart." {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}
	if len(llm.calls) != 2 {
		t.Fatalf("expected two model calls, got %d", len(llm.calls))
	}
	if len(llm.calls[0].tools) != 1 {
		t.Fatalf("first call should carry the manifest, got %d tools", len(llm.calls[0].tools))
	}
	if len(llm.calls[1].tools) != 0 {
		t.Fatal("second call must not offer tools")
	}

	// The model omitted sessionId, so the caller's userID was injected.
	var item models.CartItem
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("load cart item: %v", err)
	}
	if item.Quantity != 3 || item.ProductID != product.ID {
		t.Fatalf("unexpected cart item: %+v", item)
	}
	var session models.CartSession
	if err := db.First(&session, "id = ?", item.CartSessionID).Error; err != nil {
		t.Fatalf("load session: %v", err)
	}
	if session.SessionID != "user-1" {
		t.Fatalf("expected injected session id user-1, got %q", session.SessionID)
	}

	if len(store.turns) != 2 {
		t.Fatalf("expected exactly 2 persisted turns, got %d", len(store.turns))
	}
}

func TestProcessMessageUnknownTool(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{
		toolCallReply("time_travel", `{}`),
		textReply("I can't do that."),
	}}
	svc := newAgent(llm, store, tools.NewRegistry())

	reply := svc.ProcessMessage(context.Background(), "user-1", "go back in time")
	if reply.Response != "I can't do that." {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}

	// The error payload went back to the model as a tool message.
	second := llm.calls[1].messages
	last := second[len(second)-1]
	if last.OfTool == nil {
		t.Fatalf("expected a tool message, got %+v", last)
	}
	content := last.OfTool.Content.OfString.Value
	if !strings.Contains(content, "Unknown tool: time_travel") {
		t.Fatalf("unexpected tool payload: %q", content)
	}
}

func TestProcessMessageMalformedToolArguments(t *testing.T) {
	t.Parallel()

	carts, _ := newCartStack(t)
	registry := tools.NewRegistry()
	registry.Register(tools.NewAddToCart(carts))

	store := &fakeStore{}
	llm := &fakeLLM{responses: []*openai.ChatCompletionMessage{
		toolCallReply("add_to_cart", `{not json`),
		textReply("Something went wrong with that request."),
	}}
	svc := newAgent(llm, store, registry)

	reply := svc.ProcessMessage(context.Background(), "user-1", "add widget")
	if reply.Response != "Something went wrong with that request." {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}

	second := llm.calls[1].messages
	last := second[len(second)-1]
	if last.OfTool == nil {
		t.Fatalf("expected a tool message, got %+v", last)
	}
	if !strings.Contains(last.OfTool.Content.OfString.Value, "invalid arguments for add_to_cart") {
		t.Fatalf("unexpected tool payload: %q", last.OfTool.Content.OfString.Value)
	}
}

func TestGetConversationHistoryIdempotent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := newAgent(&fakeLLM{}, store, tools.NewRegistry())
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		if _, err := store.Append(ctx, "user-1", msg, enums.ActorUser); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	first, err := svc.GetConversationHistory(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.GetConversationHistory(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 turns, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order differs at %d", i)
		}
	}
}

func TestBuildMessagesSkipsDuplicateUserTurn(t *testing.T) {
	t.Parallel()

	history := []models.Conversation{
		{Actor: enums.ActorUser, Message: "hello"},
	}
	msgs := buildMessages(history, "hello")
	// system + the single historical turn, no duplicate append.
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	msgs = buildMessages(nil, "hello")
	if len(msgs) != 2 {
		t.Fatalf("expected system plus user message, got %d", len(msgs))
	}
}
