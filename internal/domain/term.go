package domain

import "time"

// TermRecord is one tracked search term within a scope domain. Popular
// terms carry a hit count incremented on every search; boosted terms carry
// an operator-set score.
type TermRecord struct {
	Domain    string    `json:"domain"`
	Term      string    `json:"term"`
	HitCount  int64     `json:"hitCount,omitempty"`
	Score     float64   `json:"score,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
