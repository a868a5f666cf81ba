package db

import "time"

// DyeItem is one dyeable color item from the game catalog.
type DyeItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Hex        string `json:"hex"`
	Selectable bool   `json:"selectable"`
}

// Collection is a user-owned, named group of dyes.
type Collection struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is a community preset awaiting or past moderation.
type Submission struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	UserName  string           `json:"user_name"`
	Name      string           `json:"name"`
	Body      string           `json:"body"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// SubmissionStatus is the moderation state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionDenied   SubmissionStatus = "denied"
)

// KnownUser is a user the worker has seen, kept for moderation lookups.
type KnownUser struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	LastSeen time.Time `json:"last_seen"`
}
