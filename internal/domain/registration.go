package domain

// OfferingAvailability is the capacity state of one offering
type OfferingAvailability struct {
	Participants int64 `json:"participants"`
	Capacity     int   `json:"capacity"`
	Full         bool  `json:"full"`
}

// ModeOption is one selectable participation mode
type ModeOption struct {
	Mode    string `json:"mode"`
	Enabled bool   `json:"enabled"`
}

// Availability is computed identically when the form opens and right before submit
type Availability struct {
	EventID      uint64               `json:"event_id"`
	Event        OfferingAvailability `json:"event"`
	Offline      OfferingAvailability `json:"offline"`
	Gather       OfferingAvailability `json:"gather"`
	Consultation OfferingAvailability `json:"consultation"`
	Modes        []ModeOption         `json:"modes"`
	DefaultMode  string               `json:"default_mode"`
	ModeChoice   bool                 `json:"mode_choice"`
	Registered   RegisteredOfferings  `json:"registered"`
}

// ModeEnabled reports whether mode is selectable
func (a *Availability) ModeEnabled(mode string) bool {
	for _, m := range a.Modes {
		if m.Mode == mode {
			return m.Enabled
		}
	}
	return false
}

// RegisteredOfferings which offerings the user already holds
type RegisteredOfferings struct {
	Event        bool `json:"event"`
	Gather       bool `json:"gather"`
	Consultation bool `json:"consultation"`
}

// RegisterRequest member registration form
type RegisterRequest struct {
	Event        bool   `json:"event"`
	Mode         string `json:"mode" binding:"omitempty,oneof=online offline"`
	Gather       bool   `json:"gather"`
	Consultation bool   `json:"consultation"`
}

// RegisterResult outcome of Register. RedirectURL is set when paid options need checkout.
type RegisterResult struct {
	Attendee    *EventAttendee `json:"attendee,omitempty"`
	RedirectURL string         `json:"redirect_url,omitempty"`
	OrderID     string         `json:"order_id,omitempty"`
}

// CheckoutWebhookRequest payment server callback
type CheckoutWebhookRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=completed failed"`
}

// MyRegistration one row of the member's registrations list
type MyRegistration struct {
	Event        Event  `json:"event"`
	Mode         string `json:"mode,omitempty"`
	Main         bool   `json:"main"`
	Gather       bool   `json:"gather"`
	Consultation bool   `json:"consultation"`
}

// CalendarEvent is an event as seen by one member
type CalendarEvent struct {
	Event
	Applied bool `json:"applied"`
}

// ScheduleFacets filters a calendar in memory
type ScheduleFacets struct {
	Search      string `form:"q"`
	City        string `form:"city"`
	Type        string `form:"type"`
	Mode        string `form:"mode" binding:"omitempty,oneof=online offline"`
	AppliedOnly bool   `form:"applied"`
}

// CalendarDay events of one local day
type CalendarDay struct {
	Date   string          `json:"date"`
	Events []CalendarEvent `json:"events"`
}
