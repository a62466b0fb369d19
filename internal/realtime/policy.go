package realtime

// Scope is a client-visible view that must be refetched after a change.
// Only some scopes are also cached server side.
type Scope string

// Scopes
const (
	ScopeThreadList Scope = "thread_list"
	ScopeThread     Scope = "thread"
	ScopeThreadMeta Scope = "thread_meta"
	ScopeMessages   Scope = "messages"
	ScopeUnread     Scope = "unread_count"
	ScopeSchedule   Scope = "schedule"
	ScopeCapacity   Scope = "capacity"
	ScopeNotices    Scope = "notices"
)

// Policy decides which views each change invalidates. Metadata edits never
// touch the message pane; the list is touched when ordering or a rendered
// column changes.
type Policy struct{}

// Scopes returns exactly the scopes invalidated by e
func (Policy) Scopes(e Event) []Scope {
	switch e.Kind {
	case KindMessageCreated:
		return []Scope{ScopeThreadList, ScopeThread, ScopeMessages, ScopeUnread}
	case KindThreadReadChanged:
		return []Scope{ScopeThreadList, ScopeThread, ScopeUnread}
	case KindThreadLabelChanged:
		// the list renders the label badge
		return []Scope{ScopeThreadList, ScopeThreadMeta}
	case KindThreadTagsChanged:
		// list rows carry tag chips
		return []Scope{ScopeThreadList, ScopeThreadMeta}
	case KindThreadMemosChanged:
		return []Scope{ScopeThreadMeta}
	case KindEventChanged, KindRegistrationChanged:
		return []Scope{ScopeSchedule, ScopeCapacity}
	case KindGroupChanged:
		// membership decides event visibility
		return []Scope{ScopeSchedule}
	case KindUserChanged:
		// threads embed the member profile
		return []Scope{ScopeThreadList, ScopeThread}
	case KindNoticeChanged:
		return []Scope{ScopeNotices}
	}
	return nil
}

// AdminFacing reports whether admin dashboards should hear about e
func (Policy) AdminFacing(e Event) bool {
	switch e.Kind {
	case KindNoticeChanged:
		return false
	}
	return true
}
