package model

import "time"

// Milestone is a snapshot of a platform milestone plus the derived
// completion metrics.
type Milestone struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	OpenIssues   int        `json:"openIssues"`
	ClosedIssues int        `json:"closedIssues"`
	CreatedAt    time.Time  `json:"createdAt"`
	DueOn        *time.Time `json:"dueOn,omitempty"`
}

// Total returns the issue count across both states.
func (m Milestone) Total() int {
	return m.OpenIssues + m.ClosedIssues
}

// CompletionPercentage returns closed/total*100, or 0 for an empty
// milestone.
func (m Milestone) CompletionPercentage() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.ClosedIssues) / float64(total) * 100
}

// IsCompleted reports whether every issue is closed and the milestone
// is non-empty.
func (m Milestone) IsCompleted() bool {
	return m.OpenIssues == 0 && m.Total() > 0
}

// Closure describes an auto-close performed by the tracker.
type Closure struct {
	CompletedAt  time.Time `json:"completedAt"`
	DurationDays int       `json:"durationDays"`
	ReportRef    int       `json:"reportRef,omitempty"`
}

// CompletionRecord is one analytics entry produced by a milestone
// check. Records are appended to the analytics log and purged after
// the configured retention window.
type CompletionRecord struct {
	Timestamp  time.Time `json:"ts"`
	Repo       string    `json:"repo"`
	Milestone  int       `json:"milestone"`
	Title      string    `json:"title"`
	Open       int       `json:"open"`
	Closed     int       `json:"closed"`
	Percentage float64   `json:"pct"`
	Completed  bool      `json:"completed"`
	Closure    *Closure  `json:"closure,omitempty"`
}
