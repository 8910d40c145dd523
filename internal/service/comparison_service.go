package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"

	"finverse-be/internal/dto"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/internal/pkg/logger"
	"finverse-be/pkg/assistant"
	"finverse-be/pkg/chat"
	"finverse-be/pkg/comparison"
	"finverse-be/pkg/events"
)

// IComparisonService defines the comparison surface service interface
type IComparisonService interface {
	AddProduct(ctx context.Context, request *dto.AddProductRequest) (*dto.AddProductResponse, error)
	RemoveProduct(ctx context.Context, productId string) (*dto.RemoveProductResponse, error)
	ClearSet(ctx context.Context) error
	GetMatrix(ctx context.Context) (*dto.ComparisonMatrixResponse, error)
	RegenerateSummary(ctx context.Context, request *dto.SummaryRequest) (*dto.SummaryResponse, error)
	ExportComparison(ctx context.Context) ([]byte, string, error)
}

// comparisonService wraps the shared set and the aggregation engine behind
// the transport layer.
type comparisonService struct {
	set        *comparison.Store
	aggregator *comparison.Aggregator
	assistant  assistant.Provider
	publisher  events.Publisher
	logger     logger.ILogger

	// lastMatrix is the most recently completed aggregation pass; served
	// when a concurrent mutation supersedes the in-flight one.
	mu         sync.Mutex
	lastMatrix *entity.ComparisonMatrix
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(
	set *comparison.Store,
	aggregator *comparison.Aggregator,
	provider assistant.Provider,
	publisher events.Publisher,
	log logger.ILogger,
) IComparisonService {
	return &comparisonService{
		set:        set,
		aggregator: aggregator,
		assistant:  provider,
		publisher:  publisher,
		logger:     log,
	}
}

func (cs *comparisonService) AddProduct(ctx context.Context, request *dto.AddProductRequest) (*dto.AddProductResponse, error) {
	added := cs.set.Add(request.ToEntityRef())
	return &dto.AddProductResponse{
		Added: added,
		Count: cs.set.Count(),
		Items: dto.ToProductRefDTOs(cs.set.Items()),
	}, nil
}

func (cs *comparisonService) RemoveProduct(ctx context.Context, productId string) (*dto.RemoveProductResponse, error) {
	removed := cs.set.Remove(productId)
	return &dto.RemoveProductResponse{
		Removed: removed,
		Count:   cs.set.Count(),
		Items:   dto.ToProductRefDTOs(cs.set.Items()),
	}, nil
}

func (cs *comparisonService) ClearSet(ctx context.Context) error {
	cs.set.Clear()
	return nil
}

// GetMatrix runs a full aggregation pass over the current set. A pass
// superseded by a concurrent set mutation is discarded; the latest completed
// matrix is served instead so the caller never sees a half-stale table.
func (cs *comparisonService) GetMatrix(ctx context.Context) (*dto.ComparisonMatrixResponse, error) {
	matrix, err := cs.aggregator.BuildMatrix(ctx, cs.set.Items())
	if err != nil {
		if errors.Is(err, apperr.ErrSuperseded) {
			if last := cs.latest(); last != nil {
				return dto.ToMatrixResponse(last), nil
			}
		}
		return nil, err
	}
	cs.remember(matrix)
	cs.notify(ctx, events.TypeComparisonUpdated, map[string]interface{}{
		"count": len(matrix.Products),
	})
	return dto.ToMatrixResponse(matrix), nil
}

// RegenerateSummary asks the comparison capability for a fresh narrative
// summary of the current set. Requires at least two products.
func (cs *comparisonService) RegenerateSummary(ctx context.Context, request *dto.SummaryRequest) (*dto.SummaryResponse, error) {
	if cs.set.Count() < 2 {
		return nil, apperr.ErrInsufficientProducts
	}

	reply, err := cs.assistant.Compare(ctx, cs.set.Ids(), "")
	if err != nil {
		cs.logger.Error("ComparisonService", "Summary generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		cs.notify(ctx, events.TypeSummaryFailed, nil)
		return nil, fmt.Errorf("%w: %v", apperr.ErrSummaryGenerationFailed, err)
	}
	if !reply.Usable() {
		cs.notify(ctx, events.TypeSummaryFailed, nil)
		return nil, apperr.ErrSummaryGenerationFailed
	}

	return &dto.SummaryResponse{
		Summary:    reply.Body,
		References: dto.ToProductRefDTOs(chat.SourceReferences(reply.Sources)),
	}, nil
}

// ExportComparison renders the current matrix as CSV, one column per product.
func (cs *comparisonService) ExportComparison(ctx context.Context) ([]byte, string, error) {
	if cs.set.Count() < 2 {
		return nil, "", apperr.ErrInsufficientProducts
	}

	matrix, err := cs.aggregator.BuildMatrix(ctx, cs.set.Items())
	if err != nil {
		if errors.Is(err, apperr.ErrSuperseded) {
			if last := cs.latest(); last != nil {
				matrix = last
			}
		}
		if matrix == nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(matrix.Products)+1)
	header = append(header, "Attribute")
	for _, p := range matrix.Products {
		header = append(header, p.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, row := range matrix.Rows {
		record := make([]string, 0, len(row.Values)+1)
		record = append(record, row.Label)
		for _, cell := range row.Values {
			record = append(record, cell.Value)
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush export: %w", err)
	}

	return buf.Bytes(), "comparison.csv", nil
}

func (cs *comparisonService) latest() *entity.ComparisonMatrix {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.lastMatrix
}

func (cs *comparisonService) remember(matrix *entity.ComparisonMatrix) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lastMatrix = matrix
}

func (cs *comparisonService) notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.publisher == nil {
		return
	}
	if err := cs.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		cs.logger.Warn("ComparisonService", "Event publish failed", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
