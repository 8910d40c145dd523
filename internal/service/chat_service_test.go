package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finverse-be/internal/constant"
	"finverse-be/internal/dto"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/internal/repository/memory"
	"finverse-be/pkg/assistant"
	"finverse-be/pkg/chat"
	"finverse-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// stubAssistant returns queued replies in order, or blocks on gate when set.
type stubAssistant struct {
	mu      sync.Mutex
	replies []*assistant.Reply
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (s *stubAssistant) next() (*assistant.Reply, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return &assistant.Reply{Kind: assistant.ReplyAnswer, Body: "ok"}, nil
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func (s *stubAssistant) Chat(context.Context, string, string) (*assistant.Reply, error) {
	return s.next()
}

func (s *stubAssistant) ProductChat(context.Context, string, string, string) (*assistant.Reply, error) {
	return s.next()
}

func (s *stubAssistant) Compare(context.Context, []string, string) (*assistant.Reply, error) {
	return s.next()
}

type emptySet struct{}

func (emptySet) Count() int                 { return 0 }
func (emptySet) Items() []entity.ProductRef { return nil }
func (emptySet) Ids() []string              { return nil }

func newChatService(provider assistant.Provider, pub events.Publisher) IChatService {
	router := chat.NewRouter(provider, emptySet{}, nopLogger{})
	return NewChatService(router, memory.NewSessionRepository(), pub, nopLogger{})
}

func TestChatHistorySeedsWelcomeMessage(t *testing.T) {
	svc := newChatService(&stubAssistant{}, nil)

	history, err := svc.GetChatHistory(context.Background(), "surface-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, constant.ChatMessageRoleModel, history[0].Role)
	assert.Equal(t, constant.ChatWelcomeMessage, history[0].Chat)
}

func TestSendChatAppendsBothMessages(t *testing.T) {
	provider := &stubAssistant{replies: []*assistant.Reply{
		{Kind: assistant.ReplyAnswer, Body: "the yearly cost", ConversationID: "conv-1"},
	}}
	svc := newChatService(provider, nil)

	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SurfaceId: "s", Chat: "what is APR"})
	require.NoError(t, err)
	assert.Equal(t, "what is APR", res.Sent.Chat)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Sent.Role)
	assert.Equal(t, "the yearly cost", res.Reply.Chat)
	assert.Equal(t, constant.ChatMessageRoleModel, res.Reply.Role)
	assert.Equal(t, "conv-1", res.ConversationId)

	history, err := svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, history, 3) // welcome + user + reply
}

func TestSendChatRejectsEmptyQuery(t *testing.T) {
	svc := newChatService(&stubAssistant{}, nil)

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SurfaceId: "s", Chat: "   "})
	require.ErrorIs(t, err, apperr.ErrEmptyQuery)

	history, err := svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, history, 1, "rejected send must not touch the log")
}

func TestSendChatFailureLeavesNoPhantomReply(t *testing.T) {
	pub := &capturePublisher{}
	svc := newChatService(&stubAssistant{err: errors.New("connection refused")}, pub)

	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SurfaceId: "s", Chat: "hello"})
	require.ErrorIs(t, err, apperr.ErrAssistantUnavailable)

	history, err := svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, history, 2, "user message stays, no model reply appended")
	assert.Equal(t, constant.ChatMessageRoleUser, history[1].Role)

	assert.Contains(t, pub.types(), events.TypeAssistantUnavailable)
}

func TestSendChatConversationIdIsMonotonic(t *testing.T) {
	provider := &stubAssistant{replies: []*assistant.Reply{
		{Kind: assistant.ReplyAnswer, Body: "first", ConversationID: "conv-1"},
		{Kind: assistant.ReplyAnswer, Body: "second", ConversationID: ""},
		{Kind: assistant.ReplyAnswer, Body: "third", ConversationID: "conv-2"},
	}}
	svc := newChatService(provider, nil)
	ctx := context.Background()

	res, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "one"})
	require.NoError(t, err)
	assert.Equal(t, "conv-1", res.ConversationId)

	res, err = svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "two"})
	require.NoError(t, err)
	assert.Equal(t, "conv-1", res.ConversationId, "empty id must not downgrade the session")

	res, err = svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "three"})
	require.NoError(t, err)
	assert.Equal(t, "conv-2", res.ConversationId)
}

func TestSendChatOneInFlightPerSurface(t *testing.T) {
	provider := &stubAssistant{gate: make(chan struct{}), entered: make(chan struct{}, 2)}
	svc := newChatService(provider, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "slow"})
		firstDone <- err
	}()
	<-provider.entered // first send is now blocked upstream

	// Second send on the same surface is rejected, not queued.
	_, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "fast"})
	require.ErrorIs(t, err, apperr.ErrSendInProgress)

	// A different surface is not blocked.
	otherDone := make(chan error, 1)
	go func() {
		_, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "other", Chat: "hi"})
		otherDone <- err
	}()

	close(provider.gate)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-otherDone)
}

// History reads land on other request goroutines while a send is appending
// to the same log; run with -race.
func TestGetChatHistoryDuringSend(t *testing.T) {
	provider := &stubAssistant{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := newChatService(provider, nil)
	ctx := context.Background()

	sendDone := make(chan error, 1)
	go func() {
		_, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "slow"})
		sendDone <- err
	}()
	<-provider.entered // user message appended, reply still pending

	history, err := svc.GetChatHistory(ctx, "s")
	require.NoError(t, err)
	require.Len(t, history, 2, "in-flight send shows welcome + user message")

	// Keep reading while the send completes and appends the reply.
	close(provider.gate)
	require.Eventually(t, func() bool {
		history, err := svc.GetChatHistory(ctx, "s")
		require.NoError(t, err)
		return len(history) == 3
	}, time.Second, time.Millisecond)
	require.NoError(t, <-sendDone)
}

func TestClearChatStartsFresh(t *testing.T) {
	provider := &stubAssistant{replies: []*assistant.Reply{
		{Kind: assistant.ReplyAnswer, Body: "reply", ConversationID: "conv-1"},
	}}
	svc := newChatService(provider, nil)
	ctx := context.Background()

	_, err := svc.SendChat(ctx, &dto.SendChatRequest{SurfaceId: "s", Chat: "hello"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearChat(ctx, "s"))

	history, err := svc.GetChatHistory(ctx, "s")
	require.NoError(t, err)
	require.Len(t, history, 1, "cleared surface reseeds only the welcome message")
	assert.Equal(t, constant.ChatWelcomeMessage, history[0].Chat)
}
