package entity

// RowCell is one formatted value of a comparison row.
type RowCell struct {
	Value     string `json:"value"`
	Highlight bool   `json:"highlight,omitempty"`
}

// ComparisonRow is one labeled matrix row with one cell per compared product.
type ComparisonRow struct {
	Label  string    `json:"label"`
	Values []RowCell `json:"values"`
}

// ComparisonMatrix is the rendered products x attributes table. Recomputed
// from scratch on every pass, never persisted.
type ComparisonMatrix struct {
	Products         []Product         `json:"products"`
	OwnerNames       map[string]string `json:"owner_names"`
	Rows             []ComparisonRow   `json:"rows"`
	CategoryMismatch bool              `json:"category_mismatch"`
}
