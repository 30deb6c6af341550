// Package practicum is the client for the review-status API.
//
// Fetch returns the raw decoded payload; Validate turns it into a typed
// Report. Nothing outside this package touches untyped payload data.
package practicum

// WorkItem is one submitted assignment under remote review.
// Items are reconstructed fresh every cycle and never cached.
type WorkItem struct {
	Name   string `json:"homework_name"`
	Status string `json:"status"`
}

// Report is the validated view of one API response.
//
// HasDate reports whether the server supplied a usable current_date; when it
// is false the caller must not advance its cursor.
type Report struct {
	Items       []WorkItem
	CurrentDate int64
	HasDate     bool
}
