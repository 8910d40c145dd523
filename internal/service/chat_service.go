package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"finverse-be/internal/constant"
	"finverse-be/internal/dto"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/internal/pkg/logger"
	"finverse-be/internal/repository/memory"
	"finverse-be/pkg/chat"
	"finverse-be/pkg/events"
	"finverse-be/pkg/store"

	"github.com/google/uuid"
)

// IChatService defines the chat surface service interface
type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, surfaceId string) ([]*dto.GetChatHistoryResponse, error)
	ClearChat(ctx context.Context, surfaceId string) error
}

// chatService owns the per-surface conversation log and delegates capability
// selection to the context router.
type chatService struct {
	router      *chat.Router
	sessionRepo *memory.SessionRepository
	publisher   events.Publisher
	logger      logger.ILogger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewChatService creates a new chat service.
func NewChatService(
	router *chat.Router,
	sessionRepo *memory.SessionRepository,
	publisher events.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		router:      router,
		sessionRepo: sessionRepo,
		publisher:   publisher,
		logger:      log,
		inFlight:    make(map[string]struct{}),
	}
}

// SendChat appends the user's message, routes the query to exactly one
// capability and appends the normalized reply. A surface accepts one send at
// a time; a failed capability call leaves the log without a phantom reply.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	query := strings.TrimSpace(request.Chat)
	if query == "" {
		return nil, apperr.ErrEmptyQuery
	}

	if !cs.acquire(request.SurfaceId) {
		return nil, apperr.ErrSendInProgress
	}
	defer cs.release(request.SurfaceId)

	session := cs.loadOrSeed(request.SurfaceId)

	sent := entity.ChatMessage{
		Id:        uuid.New(),
		Chat:      query,
		Role:      constant.ChatMessageRoleUser,
		CreatedAt: time.Now(),
	}
	session.Append(sent)
	cs.sessionRepo.Save(session)

	result, err := cs.router.Route(ctx, chat.RouteRequest{
		Query:          query,
		ProductID:      request.ProductId,
		ConversationID: session.ConversationID(),
	})
	if err != nil {
		cs.logger.Error("ChatService", "Send failed", map[string]interface{}{
			"surface_id": request.SurfaceId,
			"error":      err.Error(),
		})
		cs.notify(ctx, events.TypeAssistantUnavailable, map[string]interface{}{
			"surface_id": request.SurfaceId,
		})
		return nil, err
	}

	session.AdoptConversationID(result.ConversationID)

	reply := entity.ChatMessage{
		Id:         uuid.New(),
		Chat:       result.Body,
		Role:       constant.ChatMessageRoleModel,
		CreatedAt:  time.Now(),
		References: result.References,
	}
	session.Append(reply)
	cs.sessionRepo.Save(session)

	return &dto.SendChatResponse{
		SurfaceId:      session.ID,
		ConversationId: session.ConversationID(),
		Target:         string(result.Target),
		Sent:           toResponseChat(sent),
		Reply:          toResponseChat(reply),
	}, nil
}

// GetChatHistory returns the ordered conversation log for a surface. A
// surface that has never sent anything still shows the welcome message.
func (cs *chatService) GetChatHistory(ctx context.Context, surfaceId string) ([]*dto.GetChatHistoryResponse, error) {
	session := cs.loadOrSeed(surfaceId)

	messages := session.Snapshot()
	history := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		history = append(history, &dto.GetChatHistoryResponse{
			Id:         msg.Id,
			Role:       msg.Role,
			Chat:       msg.Chat,
			CreatedAt:  msg.CreatedAt,
			References: dto.ToProductRefDTOs(msg.References),
		})
	}
	return history, nil
}

// ClearChat discards the surface's session. The next interaction starts a
// fresh conversation with no continuity token.
func (cs *chatService) ClearChat(ctx context.Context, surfaceId string) error {
	cs.sessionRepo.Delete(surfaceId)
	return nil
}

// loadOrSeed returns the surface's session, creating it with the welcome
// message when the surface is new or its previous session expired.
func (cs *chatService) loadOrSeed(surfaceId string) *store.Session {
	if session, found := cs.sessionRepo.Get(surfaceId); found {
		return session
	}
	session := store.NewSession(surfaceId, entity.ChatMessage{
		Id:        uuid.New(),
		Chat:      constant.ChatWelcomeMessage,
		Role:      constant.ChatMessageRoleModel,
		CreatedAt: time.Now(),
	})
	cs.sessionRepo.Save(session)
	return session
}

func (cs *chatService) acquire(surfaceId string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, busy := cs.inFlight[surfaceId]; busy {
		return false
	}
	cs.inFlight[surfaceId] = struct{}{}
	return true
}

func (cs *chatService) release(surfaceId string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.inFlight, surfaceId)
}

func (cs *chatService) notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.publisher == nil {
		return
	}
	if err := cs.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		cs.logger.Warn("ChatService", "Event publish failed", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toResponseChat(msg entity.ChatMessage) *dto.SendChatResponseChat {
	return &dto.SendChatResponseChat{
		Id:         msg.Id,
		Chat:       msg.Chat,
		Role:       msg.Role,
		CreatedAt:  msg.CreatedAt,
		References: dto.ToProductRefDTOs(msg.References),
	}
}
