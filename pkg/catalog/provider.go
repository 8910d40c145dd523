package catalog

import (
	"context"

	"finverse-be/internal/entity"
)

// Organization is the catalog's view of a product issuer.
type Organization struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Provider defines the contract for the product catalog capability.
type Provider interface {
	// GetProduct fetches the full record for one product id.
	GetProduct(ctx context.Context, id string) (*entity.Product, error)

	// GetOrganization fetches the issuing organization for an institution id.
	GetOrganization(ctx context.Context, id string) (*Organization, error)
}
