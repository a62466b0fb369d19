package realtime

// Broadcaster pushes a payload to every connected admin dashboard
type Broadcaster interface {
	BroadcastToAdmins(payload interface{})
}

// InvalidateMessage is the websocket frame sent to admin clients
type InvalidateMessage struct {
	Type     string  `json:"type"`
	Kind     Kind    `json:"kind"`
	Scopes   []Scope `json:"scopes"`
	ThreadID uint64  `json:"thread_id,omitempty"`
	EventID  uint64  `json:"event_id,omitempty"`
}

// AttachPush forwards admin-facing events to b as invalidate frames
func AttachPush(bus *Bus, b Broadcaster) {
	var policy Policy
	bus.Subscribe("ws-push", func(e Event) {
		if !policy.AdminFacing(e) {
			return
		}
		scopes := policy.Scopes(e)
		if len(scopes) == 0 {
			return
		}
		b.BroadcastToAdmins(InvalidateMessage{
			Type:     "invalidate",
			Kind:     e.Kind,
			Scopes:   scopes,
			ThreadID: e.ThreadID,
			EventID:  e.EventID,
		})
	})
}
