package model

import "github.com/shopspring/decimal"

// Template is a date-plan template offered to members.
type Template struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	EstimatedCost   decimal.Decimal `json:"estimatedCost"`
	SortOrder       int             `json:"sortOrder"`
	IsActive        bool            `json:"isActive"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Timestamps
}

func (t Template) EntityID() string { return t.ID }
func (t Template) Active() bool     { return t.IsActive }

// ResolveMedia returns t with its image path passed through resolve.
func (t Template) ResolveMedia(resolve func(string) string) Template {
	t.ImageURL = resolve(t.ImageURL)
	return t
}

// TemplateDraft is the editable subset of a Template.
type TemplateDraft struct {
	Title           string          `json:"title" form:"title" label:"Title" validate:"required,max=120"`
	Description     string          `json:"description" form:"description" label:"Description" validate:"required"`
	Category        string          `json:"category,omitempty" form:"category" label:"Category"`
	DurationMinutes int             `json:"durationMinutes" form:"durationMinutes" label:"Duration" validate:"gte=0"`
	EstimatedCost   decimal.Decimal `json:"estimatedCost" form:"estimatedCost" label:"Estimated Cost" validate:"gte=0"`
	SortOrder       int             `json:"sortOrder" form:"sortOrder" label:"Sort Order" validate:"gte=0"`
	IsActive        bool            `json:"isActive" form:"isActive" label:"Active"`
}

// NewTemplateDraft returns the defaults used by the create form.
func NewTemplateDraft() TemplateDraft {
	return TemplateDraft{IsActive: true}
}

// TemplateDraftFrom seeds an edit form from an existing template.
func TemplateDraftFrom(t Template) TemplateDraft {
	return TemplateDraft{
		Title:           t.Title,
		Description:     t.Description,
		Category:        t.Category,
		DurationMinutes: t.DurationMinutes,
		EstimatedCost:   t.EstimatedCost,
		SortOrder:       t.SortOrder,
		IsActive:        t.IsActive,
	}
}
