package usage

import "time"

// Usage is one principal's consumption within the current rolling week.
// Analyses and comparisons both spend from the same pool.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}
