package model

import "time"

// MatchStatus represents where a pairing is in its lifecycle.
type MatchStatus string

const (
	MatchPending MatchStatus = "pending"
	MatchMatched MatchStatus = "matched"
	MatchBlocked MatchStatus = "blocked"
	MatchExpired MatchStatus = "expired"
)

// String returns the string representation of the match status.
func (s MatchStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchPending, MatchMatched, MatchBlocked, MatchExpired:
		return true
	}
	return false
}

// MatchMember is the summary of one side of a match.
type MatchMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match pairs two members. Admins can review, block, deactivate or delete
// matches but never create them.
type Match struct {
	ID        string      `json:"id"`
	UserA     MatchMember `json:"userA"`
	UserB     MatchMember `json:"userB"`
	Status    MatchStatus `json:"status"`
	Score     float64     `json:"score"`
	IsActive  bool        `json:"isActive"`
	MatchedAt *time.Time  `json:"matchedAt,omitempty"`
	Timestamps
}

func (m Match) EntityID() string { return m.ID }
func (m Match) Active() bool     { return m.IsActive }
