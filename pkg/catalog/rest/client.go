package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finverse-be/internal/constant"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/pkg/catalog"
)

// Client consumes the product catalog capability over HTTP.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure Client implements catalog.Provider
var _ catalog.Provider = &Client{}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Response structs (Internal to this package) ---

type productResponse struct {
	Id            string                  `json:"id"`
	Name          string                  `json:"name"`
	CategoryId    string                  `json:"categoryId"`
	InstitutionId string                  `json:"institutionId"`
	Details       map[string]entity.Value `json:"details"`
}

type organizationResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// --- Interface Implementation ---

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var out productResponse
	if err := c.get(ctx, constant.ProductDetailEndpoint+"/"+id, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrEntityFetchFailed, err)
	}

	details := out.Details
	if details == nil {
		details = map[string]entity.Value{}
	}

	return &entity.Product{
		Id:            out.Id,
		Name:          out.Name,
		CategoryId:    out.CategoryId,
		InstitutionId: out.InstitutionId,
		Details:       details,
	}, nil
}

func (c *Client) GetOrganization(ctx context.Context, id string) (*catalog.Organization, error) {
	var out organizationResponse
	if err := c.get(ctx, constant.OrganizationEndpoint+"/"+id, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrOwnerLookupFailed, err)
	}
	return &catalog.Organization{Id: out.Id, Name: out.Name}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
