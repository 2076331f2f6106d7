package models

import "time"

// Comment is a chat message posted on an event.
type Comment struct {
	ID        string
	EventID   string
	UserID    string
	UserName  string // For display
	Content   string
	Phase     Phase // optional; the phase the comment was written in
	CreatedAt time.Time
}

// CommentQuery filters and pages a comment listing. Zero Limit means the
// default page size.
type CommentQuery struct {
	Phase Phase
	Skip  int
	Limit int
}
