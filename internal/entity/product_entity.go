package entity

// ProductRef is a lightweight handle to a product record. Produced by browse
// and detail screens; the core borrows it and never mutates it.
type ProductRef struct {
	Id            string           `json:"id"`
	Name          string           `json:"name,omitempty"`
	Provider      string           `json:"provider,omitempty"`
	Type          string           `json:"type,omitempty"`
	CategoryId    string           `json:"category_id,omitempty"`
	InstitutionId string           `json:"institution_id,omitempty"`
	Rating        float64          `json:"rating,omitempty"`
	Relevance     *float64         `json:"relevance,omitempty"`
	Details       map[string]Value `json:"details,omitempty"`
}

// HasDetails reports whether the reference already carries a full attribute
// map and can skip catalog hydration.
func (r ProductRef) HasDetails() bool {
	return len(r.Details) > 0
}

// Product is the full catalog record hydrated for one reference. Owned
// transiently by one comparison pass.
type Product struct {
	Id            string           `json:"id"`
	Name          string           `json:"name"`
	CategoryId    string           `json:"category_id"`
	InstitutionId string           `json:"institution_id"`
	Details       map[string]Value `json:"details"`
}

// Detail returns the value for key, or a null value when absent.
func (p Product) Detail(key string) Value {
	if v, ok := p.Details[key]; ok {
		return v
	}
	return NullValue()
}
