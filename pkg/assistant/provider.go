package assistant

import "context"

// Source is one product the capability grounded its reply on.
type Source struct {
	ProductId   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	Relevance   *float64 `json:"relevance,omitempty"`
}

// ReplyKind tags which wire field a reply body was taken from. The three
// capabilities answer in different shapes; normalization is an explicit match
// over this union rather than optional-field probing.
type ReplyKind int

const (
	// ReplyEmpty means no usable body field was populated.
	ReplyEmpty ReplyKind = iota
	// ReplyAnswer is the general/product chat shape (`answer`).
	ReplyAnswer
	// ReplySummary is the comparison shape (`summary`).
	ReplySummary
	// ReplyLegacyData is the legacy fallback shape (`data`).
	ReplyLegacyData
)

// Reply is the normalized result of one capability call.
type Reply struct {
	Kind           ReplyKind
	Body           string
	ConversationID string
	Sources        []Source
}

// Usable reports whether the reply carries a body the chat surface can show.
func (r *Reply) Usable() bool {
	return r != nil && r.Kind != ReplyEmpty && r.Body != ""
}

// Provider defines the contract for the AI chatbot capability set.
type Provider interface {
	// Chat processes a general financial query.
	Chat(ctx context.Context, query, conversationID string) (*Reply, error)

	// ProductChat processes a query about one specific product.
	ProductChat(ctx context.Context, productID, query, conversationID string) (*Reply, error)

	// Compare requests a side-by-side comparison of two or more products.
	Compare(ctx context.Context, productIDs []string, conversationID string) (*Reply, error)
}
