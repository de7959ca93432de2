package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// NoticeLevel is the severity of a user notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient message shown to the user until ExpiresAt.
type Notice struct {
	ID        string
	Level     NoticeLevel
	Text      string
	ExpiresAt time.Time
}

// Active reports whether the notice is still visible at now.
func (n Notice) Active(now time.Time) bool {
	return now.Before(n.ExpiresAt)
}

type notices struct {
	ttl   time.Duration
	items []Notice
}

func (q *notices) post(level NoticeLevel, text string, now time.Time) Notice {
	n := Notice{
		ID:        uuid.New().String(),
		Level:     level,
		Text:      text,
		ExpiresAt: now.Add(q.ttl),
	}
	q.items = append(q.items, n)
	return n
}

func (q *notices) active(now time.Time) []Notice {
	out := make([]Notice, 0, len(q.items))
	for _, n := range q.items {
		if n.Active(now) {
			out = append(out, n)
		}
	}
	return out
}

func (q *notices) dismiss(id string) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *notices) prune(now time.Time) int {
	kept := q.items[:0]
	for _, n := range q.items {
		if n.Active(now) {
			kept = append(kept, n)
		}
	}
	removed := len(q.items) - len(kept)
	q.items = kept
	return removed
}
