package dto

import (
	"time"

	"github.com/google/uuid"

	"finverse-be/internal/entity"
)

type SendChatRequest struct {
	SurfaceId string `json:"surface_id" validate:"required"`
	Chat      string `json:"chat" validate:"required"`
	ProductId string `json:"product_id,omitempty"` // set when sent from a product detail page
}

type ProductRefDTO struct {
	Id            string                  `json:"id"`
	Name          string                  `json:"name"`
	Provider      string                  `json:"provider,omitempty"`
	Type          string                  `json:"type,omitempty"`
	CategoryId    string                  `json:"category_id,omitempty"`
	InstitutionId string                  `json:"institution_id,omitempty"`
	Rating        float64                 `json:"rating,omitempty"`
	Relevance     *float64                `json:"relevance,omitempty"`
	Details       map[string]entity.Value `json:"details,omitempty"`
}

type SendChatResponseChat struct {
	Id         uuid.UUID       `json:"id"`
	Chat       string          `json:"chat"`
	Role       string          `json:"role"`
	CreatedAt  time.Time       `json:"created_at"`
	References []ProductRefDTO `json:"references,omitempty"`
}

type SendChatResponse struct {
	SurfaceId      string                `json:"surface_id"`
	ConversationId string                `json:"conversation_id,omitempty"`
	Target         string                `json:"target"`
	Sent           *SendChatResponseChat `json:"sent"`
	Reply          *SendChatResponseChat `json:"reply"`
}

type GetChatHistoryResponse struct {
	Id         uuid.UUID       `json:"id"`
	Role       string          `json:"role"`
	Chat       string          `json:"chat"`
	CreatedAt  time.Time       `json:"created_at"`
	References []ProductRefDTO `json:"references,omitempty"`
}

// ToProductRefDTOs maps entity references into their transport shape.
func ToProductRefDTOs(refs []entity.ProductRef) []ProductRefDTO {
	if len(refs) == 0 {
		return nil
	}
	out := make([]ProductRefDTO, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ProductRefDTO{
			Id:            ref.Id,
			Name:          ref.Name,
			Provider:      ref.Provider,
			Type:          ref.Type,
			CategoryId:    ref.CategoryId,
			InstitutionId: ref.InstitutionId,
			Rating:        ref.Rating,
			Relevance:     ref.Relevance,
			Details:       ref.Details,
		})
	}
	return out
}
