package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damoang/eventhub-backend/internal/checkout"
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/damoang/eventhub-backend/internal/notify"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CheckoutSessionCreator creates a payment page and returns its URL
type CheckoutSessionCreator interface {
	CreateSession(ctx context.Context, req checkout.SessionRequest) (string, error)
}

// AttendeeCounts are the active row counts of one event
type AttendeeCounts struct {
	Offline      int64
	All          int64
	Gather       int64
	Consultation int64
}

// RegistrationService capacity-gated registration. Capacity is checked by
// reading counts before writing without a lock, so two simultaneous
// registrations can both pass the check and overbook by a small margin.
type RegistrationService struct {
	events        repository.EventRepository
	attendees     repository.AttendeeRepository
	checkouts     *repository.CheckoutRepository
	checkout      CheckoutSessionCreator
	notifier      notify.Notifier
	bus           *realtime.Bus
	notifyTimeout time.Duration
	newOrderID    func() string
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(events repository.EventRepository, attendees repository.AttendeeRepository,
	checkouts *repository.CheckoutRepository, cc CheckoutSessionCreator, notifier notify.Notifier,
	bus *realtime.Bus) *RegistrationService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &RegistrationService{
		events:        events,
		attendees:     attendees,
		checkouts:     checkouts,
		checkout:      cc,
		notifier:      notifier,
		bus:           bus,
		notifyTimeout: 3 * time.Second,
		newOrderID:    func() string { return uuid.NewString() },
	}
}

// Availability is computed the same way when the form opens and right before
// submit, so the enabled state shown to the member and the state enforced
// on submit cannot diverge.
func (s *RegistrationService) Availability(ctx context.Context, eventID, userID uint64) (*domain.Availability, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	counts, registered, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return ComputeAvailability(event, counts, registered), nil
}

func (s *RegistrationService) load(ctx context.Context, eventID, userID uint64) (AttendeeCounts, domain.RegisteredOfferings, error) {
	var counts AttendeeCounts
	var reg domain.RegisteredOfferings

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Offline, err = s.attendees.CountEvent(gctx, eventID, domain.ModeOffline)
		return err
	})
	g.Go(func() (err error) {
		counts.All, err = s.attendees.CountEvent(gctx, eventID, "")
		return err
	})
	g.Go(func() (err error) {
		counts.Gather, err = s.attendees.CountGather(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		counts.Consultation, err = s.attendees.CountConsultation(gctx, eventID)
		return err
	})
	if userID != 0 {
		g.Go(func() (err error) {
			reg.Event, err = s.attendees.Holds(gctx, domain.OfferingEvent, eventID, userID)
			return err
		})
		g.Go(func() (err error) {
			reg.Gather, err = s.attendees.Holds(gctx, domain.OfferingGather, eventID, userID)
			return err
		})
		g.Go(func() (err error) {
			reg.Consultation, err = s.attendees.Holds(gctx, domain.OfferingConsultation, eventID, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return counts, reg, fmt.Errorf("load attendee counts: %w", err)
	}
	return counts, reg, nil
}

func offering(participants int64, capacity int) domain.OfferingAvailability {
	return domain.OfferingAvailability{
		Participants: participants,
		Capacity:     capacity,
		Full:         participants >= int64(capacity),
	}
}

// ComputeAvailability applies the capacity and mode rules to raw counts.
// The main event counts offline attendees for in-person events and all
// attendees for online-only events.
func ComputeAvailability(e *domain.Event, c AttendeeCounts, reg domain.RegisteredOfferings) *domain.Availability {
	main := c.Offline
	if e.IsOnline {
		main = c.All
	}
	av := &domain.Availability{
		EventID:      e.ID,
		Event:        offering(main, e.EventCapacity),
		Offline:      offering(c.Offline, e.EventCapacity),
		Gather:       offering(c.Gather, e.GatherCapacity),
		Consultation: offering(c.Consultation, e.ConsultationCapacity),
		Registered:   reg,
	}

	switch {
	case e.IsOnline:
		av.Modes = []domain.ModeOption{{Mode: domain.ModeOnline, Enabled: !av.Event.Full}}
		av.DefaultMode = domain.ModeOnline
	case e.AllowsModeChoice():
		av.ModeChoice = true
		av.Modes = []domain.ModeOption{
			{Mode: domain.ModeOffline, Enabled: !av.Offline.Full},
			{Mode: domain.ModeOnline, Enabled: true},
		}
		av.DefaultMode = domain.ModeOffline
		if av.Offline.Full {
			av.DefaultMode = domain.ModeOnline
		}
	default:
		av.Modes = []domain.ModeOption{{Mode: domain.ModeOffline, Enabled: !av.Offline.Full}}
		av.DefaultMode = domain.ModeOffline
	}
	return av
}

// CheckRequest validates a form against an availability snapshot without touching storage
func CheckRequest(av *domain.Availability, req *domain.RegisterRequest) (string, error) {
	if !req.Event && !req.Gather && !req.Consultation {
		return "", common.ErrNothingSelected
	}
	if req.Consultation && !req.Gather {
		return "", common.ErrDependencyRequired
	}

	mode := ""
	if req.Event {
		if av.Registered.Event {
			return "", fmt.Errorf("event: %w", common.ErrAlreadyRegistered)
		}
		mode = req.Mode
		if mode == "" {
			mode = av.DefaultMode
		}
		allowed := false
		for _, m := range av.Modes {
			if m.Mode == mode {
				allowed = true
			}
		}
		if !allowed {
			return "", fmt.Errorf("mode %q: %w", mode, common.ErrModeNotAllowed)
		}
		if !av.ModeEnabled(mode) {
			return "", fmt.Errorf("event %s: %w", mode, common.ErrCapacityExceeded)
		}
	}
	if req.Gather {
		if av.Registered.Gather {
			return "", fmt.Errorf("gather: %w", common.ErrAlreadyRegistered)
		}
		if av.Gather.Full {
			return "", fmt.Errorf("gather: %w", common.ErrCapacityExceeded)
		}
	}
	if req.Consultation {
		if av.Registered.Consultation {
			return "", fmt.Errorf("consultation: %w", common.ErrAlreadyRegistered)
		}
		if av.Consultation.Full {
			return "", fmt.Errorf("consultation: %w", common.ErrCapacityExceeded)
		}
	}
	return mode, nil
}

// Register re-checks availability and writes the main-event row directly.
// Paid options go through a checkout session and are written by the webhook.
// When checkout creation fails the main-event row stays and the returned
// result still carries it alongside ErrCheckoutFailed.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID uint64, req *domain.RegisterRequest) (*domain.RegisterResult, error) {
	// form-only rules never reach storage
	if !req.Event && !req.Gather && !req.Consultation {
		return nil, common.ErrNothingSelected
	}
	if req.Consultation && !req.Gather {
		metrics.RegistrationsTotal.WithLabelValues("dependency_required").Inc()
		return nil, common.ErrDependencyRequired
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	counts, registered, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	av := ComputeAvailability(event, counts, registered)
	mode, err := CheckRequest(av, req)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	result := &domain.RegisterResult{}
	if req.Event {
		attendee := &domain.EventAttendee{EventID: eventID, UserID: userID, Mode: mode}
		if err := s.attendees.CreateEventAttendee(ctx, attendee); err != nil {
			return nil, fmt.Errorf("create attendee: %w", err)
		}
		result.Attendee = attendee
		s.bus.Publish(realtime.EventChange(realtime.KindRegistrationChanged, eventID))
		s.notify(ctx, notify.Notification{
			Type:     notify.TypeRegistrationCreated,
			UserID:   userID,
			EventID:  eventID,
			Offering: domain.OfferingEvent,
			Mode:     mode,
		})
	}

	if req.Gather || req.Consultation {
		orderID, url, err := s.startCheckout(ctx, userID, event, req)
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues("checkout_failed").Inc()
			return result, err
		}
		result.OrderID = orderID
		result.RedirectURL = url
	}
	metrics.RegistrationsTotal.WithLabelValues("accepted").Inc()
	return result, nil
}

func (s *RegistrationService) startCheckout(ctx context.Context, userID uint64, event *domain.Event, req *domain.RegisterRequest) (string, string, error) {
	if s.checkout == nil {
		return "", "", fmt.Errorf("checkout not configured: %w", common.ErrCheckoutFailed)
	}
	var items []checkout.Item
	amount := 0
	if req.Gather {
		items = append(items, checkout.Item{Offering: domain.OfferingGather, Name: event.Title + " (gathering)", Amount: event.GatherPrice})
		amount += event.GatherPrice
	}
	if req.Consultation {
		items = append(items, checkout.Item{Offering: domain.OfferingConsultation, Name: event.Title + " (consultation)", Amount: event.ConsultationPrice})
		amount += event.ConsultationPrice
	}

	session := &domain.CheckoutSession{
		OrderID:          s.newOrderID(),
		UserID:           userID,
		EventID:          event.ID,
		WithGather:       req.Gather,
		WithConsultation: req.Consultation,
		Amount:           amount,
		Status:           domain.CheckoutPending,
	}
	if err := s.checkouts.Create(ctx, session); err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}

	url, err := s.checkout.CreateSession(ctx, checkout.SessionRequest{
		OrderID: session.OrderID,
		UserID:  userID,
		EventID: event.ID,
		Items:   items,
		Amount:  amount,
	})
	if err != nil {
		if _, markErr := s.checkouts.TransitionStatus(ctx, session.OrderID, domain.CheckoutFailed); markErr != nil {
			pkglogger.GetLogger().Warn().Err(markErr).Str("order_id", session.OrderID).Msg("mark checkout failed")
		}
		return "", "", err
	}
	if err := s.checkouts.SetRedirect(ctx, session.OrderID, url); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("order_id", session.OrderID).Msg("store checkout redirect")
	}
	return session.OrderID, url, nil
}

// CompleteCheckout handles the payment webhook. Redelivery is a no-op.
func (s *RegistrationService) CompleteCheckout(ctx context.Context, orderID, status string) error {
	session, err := s.checkouts.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	changed, err := s.checkouts.TransitionStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("transition checkout: %w", err)
	}
	if !changed || status != domain.CheckoutCompleted {
		return nil
	}
	if err := s.attendees.CreatePaidAttendees(ctx, session.EventID, session.UserID,
		session.WithGather, session.WithConsultation); err != nil {
		return fmt.Errorf("create paid attendees: %w", err)
	}
	pkglogger.GetLogger().Info().Str("order_id", orderID).Int("amount", session.Amount).Msg("checkout completed")
	s.bus.Publish(realtime.EventChange(realtime.KindRegistrationChanged, session.EventID))
	s.notify(ctx, notify.Notification{
		Type:    notify.TypeCheckoutCompleted,
		UserID:  session.UserID,
		EventID: session.EventID,
		OrderID: orderID,
	})
	return nil
}

// Cancel soft-deletes the user's participation. Cancelling the gathering
// also cancels the consultation that depends on it.
func (s *RegistrationService) Cancel(ctx context.Context, userID, eventID uint64, off string) error {
	n, err := s.attendees.Cancel(ctx, off, eventID, userID)
	if err != nil {
		return fmt.Errorf("cancel %s: %w", off, err)
	}
	if n == 0 {
		return fmt.Errorf("%s registration: %w", off, common.ErrNotFound)
	}
	if off == domain.OfferingGather {
		if _, err := s.attendees.Cancel(ctx, domain.OfferingConsultation, eventID, userID); err != nil {
			return fmt.Errorf("cancel dependent consultation: %w", err)
		}
	}
	s.bus.Publish(realtime.EventChange(realtime.KindRegistrationChanged, eventID))
	s.notify(ctx, notify.Notification{
		Type:     notify.TypeRegistrationCancelled,
		UserID:   userID,
		EventID:  eventID,
		Offering: off,
	})
	return nil
}

// MyRegistrations lists every event the user holds any offering of
func (s *RegistrationService) MyRegistrations(ctx context.Context, userID uint64) ([]domain.MyRegistration, error) {
	byOffering := make(map[string]map[uint64]bool, 3)
	var all []uint64
	seen := make(map[uint64]bool)
	for _, off := range []string{domain.OfferingEvent, domain.OfferingGather, domain.OfferingConsultation} {
		ids, err := s.attendees.EventIDsByUser(ctx, off, userID)
		if err != nil {
			return nil, err
		}
		byOffering[off] = make(map[uint64]bool, len(ids))
		for _, id := range ids {
			byOffering[off][id] = true
			if !seen[id] {
				seen[id] = true
				all = append(all, id)
			}
		}
	}
	modes, err := s.attendees.ModesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.FindByIDs(ctx, all)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MyRegistration, 0, len(events))
	for _, e := range events {
		out = append(out, domain.MyRegistration{
			Event:        e,
			Mode:         modes[e.ID],
			Main:         byOffering[domain.OfferingEvent][e.ID],
			Gather:       byOffering[domain.OfferingGather][e.ID],
			Consultation: byOffering[domain.OfferingConsultation][e.ID],
		})
	}
	return out, nil
}

// notify is best effort; the registration already succeeded
func (s *RegistrationService) notify(ctx context.Context, n notify.Notification) {
	n.OccurredAt = time.Now()
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(nctx, n); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("type", n.Type).
			Uint64("user_id", n.UserID).Uint64("event_id", n.EventID).Msg("notification failed")
	}
}
