package model

// FAQ is a frequently asked question shown in the member help center.
type FAQ struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category,omitempty"`
	SortOrder int    `json:"sortOrder"`
	IsActive  bool   `json:"isActive"`
	Timestamps
}

func (f FAQ) EntityID() string { return f.ID }
func (f FAQ) Active() bool     { return f.IsActive }

// FAQDraft is the editable subset of an FAQ.
type FAQDraft struct {
	Question  string `json:"question" form:"question" label:"Question" validate:"required,max=300"`
	Answer    string `json:"answer" form:"answer" label:"Answer" validate:"required"`
	Category  string `json:"category,omitempty" form:"category" label:"Category"`
	SortOrder int    `json:"sortOrder" form:"sortOrder" label:"Sort Order" validate:"gte=0"`
	IsActive  bool   `json:"isActive" form:"isActive" label:"Active"`
}

func NewFAQDraft() FAQDraft {
	return FAQDraft{IsActive: true}
}

func FAQDraftFrom(f FAQ) FAQDraft {
	return FAQDraft{
		Question:  f.Question,
		Answer:    f.Answer,
		Category:  f.Category,
		SortOrder: f.SortOrder,
		IsActive:  f.IsActive,
	}
}
