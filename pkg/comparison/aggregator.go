package comparison

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"finverse-be/internal/constant"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
	"finverse-be/internal/pkg/logger"
	"finverse-be/pkg/catalog"
)

const unknownOwner = "Unknown"

// Aggregator turns the current comparison selection into a rendered matrix of
// products x attributes.
type Aggregator struct {
	catalog catalog.Provider
	logger  logger.ILogger

	// generation of the most recently started pass; a pass that is no longer
	// current when it completes is discarded.
	generation atomic.Uint64
}

// NewAggregator creates a new comparison aggregator.
func NewAggregator(cat catalog.Provider, log logger.ILogger) *Aggregator {
	return &Aggregator{
		catalog: cat,
		logger:  log,
	}
}

// BuildMatrix hydrates the given references and flattens them into comparison
// rows. References already carrying a full attribute map are used as-is;
// others are fetched from the catalog. A product whose fetch fails is dropped
// from the pass rather than failing the whole matrix. When the selection
// changes while a pass is in flight, the superseded pass returns
// apperr.ErrSuperseded and its results must not be applied.
func (a *Aggregator) BuildMatrix(ctx context.Context, refs []entity.ProductRef) (*entity.ComparisonMatrix, error) {
	gen := a.generation.Add(1)

	products, ownerNames := a.hydrate(ctx, refs)

	if a.generation.Load() != gen {
		return nil, apperr.ErrSuperseded
	}

	matrix := &entity.ComparisonMatrix{
		Products:         products,
		OwnerNames:       ownerNames,
		CategoryMismatch: categoryMismatch(products),
	}
	if len(products) > 0 {
		matrix.Rows = buildRows(products, ownerNames)
	}
	return matrix, nil
}

// hydrate resolves full records sequentially. One product's record and owner
// lookups complete before the next product is started, which keeps the
// owner-name memo free of duplicate concurrent lookups.
func (a *Aggregator) hydrate(ctx context.Context, refs []entity.ProductRef) ([]entity.Product, map[string]string) {
	products := make([]entity.Product, 0, len(refs))
	ownerNames := make(map[string]string)

	for _, ref := range refs {
		var prod *entity.Product
		if ref.HasDetails() {
			prod = &entity.Product{
				Id:            ref.Id,
				Name:          ref.Name,
				CategoryId:    ref.CategoryId,
				InstitutionId: ref.InstitutionId,
				Details:       ref.Details,
			}
		} else if ref.Id != "" {
			fetched, err := a.catalog.GetProduct(ctx, ref.Id)
			if err != nil {
				// Partial results beat an all-or-nothing failure.
				a.logger.Warn("Aggregator", "Product hydration failed, dropping from pass", map[string]interface{}{
					"product_id": ref.Id,
					"error":      err.Error(),
				})
				continue
			}
			prod = fetched
		} else {
			continue
		}

		products = append(products, *prod)

		if prod.InstitutionId != "" {
			if _, memoized := ownerNames[prod.InstitutionId]; !memoized {
				ownerNames[prod.InstitutionId] = a.lookupOwner(ctx, prod.InstitutionId)
			}
		}
	}

	return products, ownerNames
}

func (a *Aggregator) lookupOwner(ctx context.Context, institutionID string) string {
	org, err := a.catalog.GetOrganization(ctx, institutionID)
	if err != nil || org == nil || org.Name == "" {
		if err != nil {
			a.logger.Warn("Aggregator", "Organization lookup failed", map[string]interface{}{
				"institution_id": institutionID,
				"error":          err.Error(),
			})
		}
		return unknownOwner
	}
	return org.Name
}

func categoryMismatch(products []entity.Product) bool {
	if len(products) < 2 {
		return false
	}
	first := products[0].CategoryId
	for _, p := range products[1:] {
		if p.CategoryId != first {
			return true
		}
	}
	return false
}

// buildRows emits the fixed Provider and Type rows, then one row per key of
// the union of all detail maps. Products lacking a key render "N/A", never a
// blank cell.
func buildRows(products []entity.Product, ownerNames map[string]string) []entity.ComparisonRow {
	rows := make([]entity.ComparisonRow, 0, 2)

	providerRow := entity.ComparisonRow{Label: "Provider"}
	for _, p := range products {
		name := notAvailable
		if p.InstitutionId != "" {
			if n, ok := ownerNames[p.InstitutionId]; ok && n != "" {
				name = n
			}
		}
		providerRow.Values = append(providerRow.Values, entity.RowCell{Value: name})
	}
	rows = append(rows, providerRow)

	typeRow := entity.ComparisonRow{Label: "Type"}
	for _, p := range products {
		typeRow.Values = append(typeRow.Values, entity.RowCell{Value: normalizedType(p)})
	}
	rows = append(rows, typeRow)

	for _, key := range unionKeys(products) {
		row := entity.ComparisonRow{Label: FormatFieldName(key)}
		for _, p := range products {
			row.Values = append(row.Values, entity.RowCell{Value: FormatValue(p.Detail(key))})
		}
		rows = append(rows, row)
	}

	return rows
}

// normalizedType resolves the product type from the first populated of the
// two known synonym keys, uppercased with underscores spaced out.
func normalizedType(p entity.Product) string {
	raw := ""
	for _, key := range []string{constant.DetailKeyType, constant.DetailKeyProductType} {
		v := p.Detail(key)
		if v.Kind == entity.ValueString && v.Str != "" {
			raw = v.Str
			break
		}
	}
	if raw == "" {
		return notAvailable
	}
	return strings.ToUpper(strings.ReplaceAll(raw, "_", " "))
}

// unionKeys collects every detail key across all products, sorted for a
// stable row order. The type synonym keys are excluded; they already feed
// the fixed Type row.
func unionKeys(products []entity.Product) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, p := range products {
		for k := range p.Details {
			if k == constant.DetailKeyType || k == constant.DetailKeyProductType {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
