package chat

import (
	"context"
	"fmt"
	"strings"

	"finverse-be/internal/constant"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/internal/pkg/logger"
	"finverse-be/pkg/assistant"
)

// SetReader is the read-only view of the shared comparison set the router
// consults at send time.
type SetReader interface {
	Count() int
	Items() []entity.ProductRef
	Ids() []string
}

// Target names the capability a query was routed to.
type Target string

const (
	TargetProductChat Target = "product_chat"
	TargetCompare     Target = "compare"
	TargetGeneralChat Target = "general_chat"
)

// RouteRequest is one outgoing user query plus its navigation context.
type RouteRequest struct {
	Query string

	// ProductID is set when the user is viewing a single product's detail
	// page. It takes priority over every other routing rule.
	ProductID string

	ConversationID string
}

// RouteResult is the normalized assistant reply.
type RouteResult struct {
	Target         Target
	Body           string
	ConversationID string
	References     []entity.ProductRef
}

// Router selects exactly one backend capability per user query and translates
// its response into one message shape. Routing is decided by navigation
// context, never by classifying the query text.
type Router struct {
	provider assistant.Provider
	set      SetReader
	logger   logger.ILogger
}

// NewRouter creates a new context router.
func NewRouter(provider assistant.Provider, set SetReader, log logger.ILogger) *Router {
	return &Router{
		provider: provider,
		set:      set,
		logger:   log,
	}
}

// Route invokes the capability selected by context priority: single-product
// context first, then multi-product comparison when the set holds at least
// two entries, then general chat. Any transport failure or unusable body
// collapses into apperr.ErrAssistantUnavailable.
func (r *Router) Route(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	target, reply, err := r.invoke(ctx, req)
	if err != nil {
		r.logger.Error("Router", "Capability call failed", map[string]interface{}{
			"target": string(target),
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", apperr.ErrAssistantUnavailable, err)
	}
	if !reply.Usable() {
		r.logger.Error("Router", "Capability returned no usable body", map[string]interface{}{
			"target": string(target),
		})
		return nil, apperr.ErrAssistantUnavailable
	}

	return &RouteResult{
		Target:         target,
		Body:           reply.Body,
		ConversationID: reply.ConversationID,
		References:     r.extractReferences(reply.Sources),
	}, nil
}

func (r *Router) invoke(ctx context.Context, req RouteRequest) (Target, *assistant.Reply, error) {
	if req.ProductID != "" {
		reply, err := r.provider.ProductChat(ctx, req.ProductID, req.Query, req.ConversationID)
		return TargetProductChat, reply, err
	}
	if r.set.Count() >= 2 {
		reply, err := r.provider.Compare(ctx, r.set.Ids(), req.ConversationID)
		return TargetCompare, reply, err
	}
	reply, err := r.provider.Chat(ctx, req.Query, req.ConversationID)
	return TargetGeneralChat, reply, err
}

// extractReferences resolves the reply's reference list. When no usable
// source exists but the comparison set is non-empty, the set itself becomes
// the reference list: its entries are the richer basis anyway, since they
// carry full attribute maps.
func (r *Router) extractReferences(sources []assistant.Source) []entity.ProductRef {
	refs := SourceReferences(sources)
	if len(refs) > 0 {
		return refs
	}
	if items := r.set.Items(); len(items) > 0 {
		return items
	}
	return nil
}

// SourceReferences maps reply sources into product references, dropping
// entries with a missing id or name and entries carrying the known
// placeholder name.
func SourceReferences(sources []assistant.Source) []entity.ProductRef {
	refs := make([]entity.ProductRef, 0, len(sources))
	for _, src := range sources {
		if src.ProductId == "" || src.ProductName == "" {
			continue
		}
		if src.ProductName == constant.SentinelProductName {
			continue
		}
		refs = append(refs, entity.ProductRef{
			Id:        src.ProductId,
			Name:      src.ProductName,
			Type:      inferProductType(src.ProductName),
			Relevance: src.Relevance,
		})
	}
	return refs
}

// inferProductType derives a coarse product type from the display name.
func inferProductType(name string) string {
	if strings.Contains(name, constant.ProductTypeCreditCard) {
		return constant.ProductTypeCreditCard
	}
	return constant.ProductTypePersonalLoan
}
