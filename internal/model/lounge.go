package model

// Lounge is a themed community space members can join.
type Lounge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	City        string `json:"city,omitempty"`
	Capacity    int    `json:"capacity"`
	MemberCount int    `json:"memberCount"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Timestamps
}

func (l Lounge) EntityID() string { return l.ID }
func (l Lounge) Active() bool     { return l.IsActive }

// ResolveMedia returns l with its image path passed through resolve.
func (l Lounge) ResolveMedia(resolve func(string) string) Lounge {
	l.ImageURL = resolve(l.ImageURL)
	return l
}

// LoungeDraft is the editable subset of a Lounge.
type LoungeDraft struct {
	Name        string `json:"name" form:"name" label:"Name" validate:"required,max=80"`
	Description string `json:"description,omitempty" form:"description" label:"Description"`
	City        string `json:"city,omitempty" form:"city" label:"City"`
	Capacity    int    `json:"capacity" form:"capacity" label:"Capacity" validate:"gte=0"`
	SortOrder   int    `json:"sortOrder" form:"sortOrder" label:"Sort Order" validate:"gte=0"`
	IsActive    bool   `json:"isActive" form:"isActive" label:"Active"`
}

func NewLoungeDraft() LoungeDraft {
	return LoungeDraft{IsActive: true}
}

func LoungeDraftFrom(l Lounge) LoungeDraft {
	return LoungeDraft{
		Name:        l.Name,
		Description: l.Description,
		City:        l.City,
		Capacity:    l.Capacity,
		SortOrder:   l.SortOrder,
		IsActive:    l.IsActive,
	}
}
