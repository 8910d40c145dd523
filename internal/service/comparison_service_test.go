package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finverse-be/internal/dto"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/pkg/assistant"
	"finverse-be/pkg/catalog"
	"finverse-be/pkg/comparison"
	"finverse-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products map[string]*entity.Product
	orgs     map[string]*catalog.Organization
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return p, nil
}

func (s *stubCatalog) GetOrganization(_ context.Context, id string) (*catalog.Organization, error) {
	org, ok := s.orgs[id]
	if !ok {
		return nil, errors.New("organization not found")
	}
	return org, nil
}

func cardRequest(id string) *dto.AddProductRequest {
	return &dto.AddProductRequest{
		Id:            id,
		Name:          "Card " + id,
		CategoryId:    "credit-cards",
		InstitutionId: "inst-1",
		Details: map[string]entity.Value{
			"type":      entity.StringValue("credit_card"),
			"annualFee": entity.NumberValue(5000),
		},
	}
}

func newComparisonService(provider assistant.Provider, pub events.Publisher) IComparisonService {
	set := comparison.NewStore(comparison.DefaultMaxProducts, pub)
	agg := comparison.NewAggregator(&stubCatalog{
		orgs: map[string]*catalog.Organization{
			"inst-1": {Id: "inst-1", Name: "Ceylon National Bank"},
		},
	}, nopLogger{})
	return NewComparisonService(set, agg, provider, pub, nopLogger{})
}

func TestAddProductDedupAndCapacity(t *testing.T) {
	svc := newComparisonService(&stubAssistant{}, nil)
	ctx := context.Background()

	res, err := svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 1, res.Count)

	res, err = svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	assert.False(t, res.Added, "duplicate id is a no-op")
	assert.Equal(t, 1, res.Count)

	for _, id := range []string{"b", "c", "d"} {
		_, err = svc.AddProduct(ctx, cardRequest(id))
		require.NoError(t, err)
	}
	res, err = svc.AddProduct(ctx, cardRequest("e"))
	require.NoError(t, err)
	assert.False(t, res.Added, "set is capped")
	assert.Equal(t, 4, res.Count)
}

func TestRemoveProduct(t *testing.T) {
	svc := newComparisonService(&stubAssistant{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)

	res, err := svc.RemoveProduct(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, 0, res.Count)

	res, err = svc.RemoveProduct(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Removed)
}

func TestGetMatrix(t *testing.T) {
	svc := newComparisonService(&stubAssistant{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, cardRequest("b"))
	require.NoError(t, err)

	matrix, err := svc.GetMatrix(ctx)
	require.NoError(t, err)
	require.Len(t, matrix.Products, 2)
	assert.False(t, matrix.CategoryMismatch)
	assert.Equal(t, "Ceylon National Bank", matrix.OwnerNames["inst-1"])

	require.NotEmpty(t, matrix.Rows)
	assert.Equal(t, "Provider", matrix.Rows[0].Label)
	assert.Len(t, matrix.Rows[0].Values, 2)
}

func TestRegenerateSummaryRequiresTwoProducts(t *testing.T) {
	svc := newComparisonService(&stubAssistant{}, nil)
	ctx := context.Background()

	_, err := svc.RegenerateSummary(ctx, &dto.SummaryRequest{})
	require.ErrorIs(t, err, apperr.ErrInsufficientProducts)

	_, err = svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	_, err = svc.RegenerateSummary(ctx, &dto.SummaryRequest{})
	require.ErrorIs(t, err, apperr.ErrInsufficientProducts)
}

func TestRegenerateSummary(t *testing.T) {
	provider := &stubAssistant{replies: []*assistant.Reply{
		{
			Kind: assistant.ReplySummary,
			Body: "Card a wins on fees.",
			Sources: []assistant.Source{
				{ProductId: "a", ProductName: "Card a"},
				{ProductId: "x", ProductName: "aaaaaaaaaaaaaaaaaa"},
			},
		},
	}}
	svc := newComparisonService(provider, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, cardRequest("b"))
	require.NoError(t, err)

	res, err := svc.RegenerateSummary(ctx, &dto.SummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Card a wins on fees.", res.Summary)
	require.Len(t, res.References, 1, "placeholder sources are filtered out")
	assert.Equal(t, "a", res.References[0].Id)
}

func TestRegenerateSummaryFailurePublishesEvent(t *testing.T) {
	pub := &capturePublisher{}
	svc := newComparisonService(&stubAssistant{err: errors.New("upstream down")}, pub)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, cardRequest("b"))
	require.NoError(t, err)

	_, err = svc.RegenerateSummary(ctx, &dto.SummaryRequest{})
	require.ErrorIs(t, err, apperr.ErrSummaryGenerationFailed)
	assert.Contains(t, pub.types(), events.TypeSummaryFailed)
}

func TestExportComparison(t *testing.T) {
	svc := newComparisonService(&stubAssistant{}, nil)
	ctx := context.Background()

	_, _, err := svc.ExportComparison(ctx)
	require.ErrorIs(t, err, apperr.ErrInsufficientProducts)

	_, err = svc.AddProduct(ctx, cardRequest("a"))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, cardRequest("b"))
	require.NoError(t, err)

	data, filename, err := svc.ExportComparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, "comparison.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Attribute,Card a,Card b", lines[0])
	assert.Contains(t, string(data), "Provider,Ceylon National Bank,Ceylon National Bank")
	assert.Contains(t, string(data), "Annual Fee,\"LKR 5,000\",\"LKR 5,000\"")
}
