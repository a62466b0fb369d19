// Package realtime carries change events from services to cache invalidation
// and to connected admin dashboards.
package realtime

import "time"

// Kind names a change
type Kind string

// Change kinds
const (
	KindMessageCreated      Kind = "message.created"
	KindThreadReadChanged   Kind = "thread.read_changed"
	KindThreadLabelChanged  Kind = "thread.label_changed"
	KindThreadTagsChanged   Kind = "thread.tags_changed"
	KindThreadMemosChanged  Kind = "thread.memos_changed"
	KindEventChanged        Kind = "event.changed"
	KindRegistrationChanged Kind = "registration.changed"
	KindNoticeChanged       Kind = "notice.changed"
	KindGroupChanged        Kind = "group.changed"
	KindUserChanged         Kind = "user.changed"
)

// Event is one change notification
type Event struct {
	Kind      Kind      `json:"kind"`
	ThreadID  uint64    `json:"thread_id,omitempty"`
	EventID   uint64    `json:"event_id,omitempty"`
	NoticeID  uint64    `json:"notice_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ThreadEvent builds a DM thread change
func ThreadEvent(kind Kind, threadID uint64) Event {
	return Event{Kind: kind, ThreadID: threadID, Timestamp: time.Now()}
}

// EventChange builds a schedule/registration change
func EventChange(kind Kind, eventID uint64) Event {
	return Event{Kind: kind, EventID: eventID, Timestamp: time.Now()}
}

// NoticeChange builds a notice change
func NoticeChange(noticeID uint64) Event {
	return Event{Kind: KindNoticeChanged, NoticeID: noticeID, Timestamp: time.Now()}
}

// Change builds a change that is not tied to a single row id
func Change(kind Kind) Event {
	return Event{Kind: kind, Timestamp: time.Now()}
}
