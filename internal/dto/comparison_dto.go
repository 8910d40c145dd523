package dto

import "finverse-be/internal/entity"

type AddProductRequest struct {
	Id            string                  `json:"id" validate:"required"`
	Name          string                  `json:"name" validate:"required"`
	Provider      string                  `json:"provider,omitempty"`
	Type          string                  `json:"type,omitempty"`
	CategoryId    string                  `json:"category_id,omitempty"`
	InstitutionId string                  `json:"institution_id,omitempty"`
	Rating        float64                 `json:"rating,omitempty"`
	Details       map[string]entity.Value `json:"details,omitempty"`
}

type AddProductResponse struct {
	Added bool            `json:"added"`
	Count int             `json:"count"`
	Items []ProductRefDTO `json:"items"`
}

type RemoveProductResponse struct {
	Removed bool            `json:"removed"`
	Count   int             `json:"count"`
	Items   []ProductRefDTO `json:"items"`
}

type RowCellDTO struct {
	Value     string `json:"value"`
	Highlight bool   `json:"highlight,omitempty"`
}

type ComparisonRowDTO struct {
	Label  string       `json:"label"`
	Values []RowCellDTO `json:"values"`
}

type ComparisonProductDTO struct {
	Id            string                  `json:"id"`
	Name          string                  `json:"name"`
	CategoryId    string                  `json:"category_id,omitempty"`
	InstitutionId string                  `json:"institution_id,omitempty"`
	Details       map[string]entity.Value `json:"details,omitempty"`
}

type ComparisonMatrixResponse struct {
	Products         []ComparisonProductDTO `json:"products"`
	OwnerNames       map[string]string      `json:"owner_names"`
	Rows             []ComparisonRowDTO     `json:"rows"`
	CategoryMismatch bool                   `json:"category_mismatch"`
}

type SummaryRequest struct {
	SurfaceId string `json:"surface_id,omitempty"`
}

type SummaryResponse struct {
	Summary    string          `json:"summary"`
	References []ProductRefDTO `json:"references,omitempty"`
}

// ToEntityRef maps an add request into the canonical reference shape.
func (r AddProductRequest) ToEntityRef() entity.ProductRef {
	return entity.ProductRef{
		Id:            r.Id,
		Name:          r.Name,
		Provider:      r.Provider,
		Type:          r.Type,
		CategoryId:    r.CategoryId,
		InstitutionId: r.InstitutionId,
		Rating:        r.Rating,
		Details:       r.Details,
	}
}

// ToMatrixResponse maps the aggregated matrix into its transport shape.
func ToMatrixResponse(m *entity.ComparisonMatrix) *ComparisonMatrixResponse {
	rows := make([]ComparisonRowDTO, 0, len(m.Rows))
	for _, row := range m.Rows {
		cells := make([]RowCellDTO, 0, len(row.Values))
		for _, cell := range row.Values {
			cells = append(cells, RowCellDTO{Value: cell.Value, Highlight: cell.Highlight})
		}
		rows = append(rows, ComparisonRowDTO{Label: row.Label, Values: cells})
	}
	products := make([]ComparisonProductDTO, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, ComparisonProductDTO{
			Id:            p.Id,
			Name:          p.Name,
			CategoryId:    p.CategoryId,
			InstitutionId: p.InstitutionId,
			Details:       p.Details,
		})
	}
	return &ComparisonMatrixResponse{
		Products:         products,
		OwnerNames:       m.OwnerNames,
		Rows:             rows,
		CategoryMismatch: m.CategoryMismatch,
	}
}
