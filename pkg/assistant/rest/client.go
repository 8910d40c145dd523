package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finverse-be/internal/constant"
	"finverse-be/pkg/assistant"
)

// Client consumes the AI chatbot capability over HTTP.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure Client implements assistant.Provider
var _ assistant.Provider = &Client{}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Query          string `json:"query"`
	ConversationId string `json:"conversation_id,omitempty"`
	IncludeHistory bool   `json:"include_history"`
}

type productChatRequest struct {
	Query          string `json:"query"`
	ProductId      string `json:"product_id"`
	ConversationId string `json:"conversation_id,omitempty"`
	IncludeHistory bool   `json:"include_history"`
}

type compareRequest struct {
	ProductIds     []string `json:"product_ids"`
	ConversationId string   `json:"conversation_id,omitempty"`
}

// wireResponse is the superset of the three capability response shapes. Which
// body field is populated depends on the endpoint; normalize() resolves that
// into the tagged union.
type wireResponse struct {
	Answer         string             `json:"answer"`
	Summary        string             `json:"summary"`
	Data           string             `json:"data"`
	ConversationId string             `json:"conversation_id"`
	Sources        []assistant.Source `json:"sources"`
	Products       []assistant.Source `json:"products"`
}

// normalize picks the reply body in priority order: answer, summary, then the
// legacy data field. An empty result is returned as ReplyEmpty, not an error;
// the router decides how to signal it.
func (w *wireResponse) normalize() *assistant.Reply {
	switch {
	case w.Answer != "":
		return &assistant.Reply{
			Kind:           assistant.ReplyAnswer,
			Body:           w.Answer,
			ConversationID: w.ConversationId,
			Sources:        w.Sources,
		}
	case w.Summary != "":
		return &assistant.Reply{
			Kind:           assistant.ReplySummary,
			Body:           w.Summary,
			ConversationID: w.ConversationId,
			Sources:        w.Products,
		}
	case w.Data != "":
		return &assistant.Reply{
			Kind: assistant.ReplyLegacyData,
			Body: w.Data,
		}
	}
	return &assistant.Reply{Kind: assistant.ReplyEmpty}
}

// --- Interface Implementation ---

func (c *Client) Chat(ctx context.Context, query, conversationID string) (*assistant.Reply, error) {
	return c.post(ctx, constant.ChatEndpoint, chatRequest{
		Query:          query,
		ConversationId: conversationID,
	})
}

func (c *Client) ProductChat(ctx context.Context, productID, query, conversationID string) (*assistant.Reply, error) {
	return c.post(ctx, constant.ProductChatEndpoint, productChatRequest{
		Query:          query,
		ProductId:      productID,
		ConversationId: conversationID,
	})
}

func (c *Client) Compare(ctx context.Context, productIDs []string, conversationID string) (*assistant.Reply, error) {
	return c.post(ctx, constant.CompareProductsEndpoint, compareRequest{
		ProductIds:     productIDs,
		ConversationId: conversationID,
	})
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*assistant.Reply, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatbot request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chatbot error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var wire wireResponse
	if err := json.Unmarshal(bodyBytes, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return wire.normalize(), nil
}
