package service

import (
	"context"
	"errors"
	"testing"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/notify"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRegistrationService(db *gorm.DB, cc CheckoutSessionCreator, n notify.Notifier) *RegistrationService {
	svc := NewRegistrationService(
		repository.NewEventRepository(db),
		repository.NewAttendeeRepository(db),
		repository.NewCheckoutRepository(db),
		cc, n, nil,
	)
	svc.newOrderID = func() string { return "order-1" }
	return svc
}

func addAttendee(t *testing.T, db *gorm.DB, eventID uint64, name, mode string) {
	t.Helper()
	u := testutil.CreateUser(t, db, name)
	require.NoError(t, db.Create(&domain.EventAttendee{EventID: eventID, UserID: u.ID, Mode: mode}).Error)
}

func TestComputeAvailability(t *testing.T) {
	hybrid := &domain.Event{Type: domain.EventTypeRegularMeeting, City: "Tokyo", EventCapacity: 2}
	course := &domain.Event{Type: domain.EventTypeCourse, EventCapacity: 10}
	seminar := &domain.Event{Type: domain.EventTypeSeminar, City: "Osaka", EventCapacity: 2}
	online := &domain.Event{Type: domain.EventTypeOnline, IsOnline: true, EventCapacity: 3}

	tests := []struct {
		name        string
		event       *domain.Event
		counts      AttendeeCounts
		wantModes   []domain.ModeOption
		wantDefault string
		wantFull    bool
	}{
		{
			name:        "hybrid offline full falls back to online",
			event:       hybrid,
			counts:      AttendeeCounts{Offline: 2, All: 5},
			wantModes:   []domain.ModeOption{{Mode: "offline", Enabled: false}, {Mode: "online", Enabled: true}},
			wantDefault: domain.ModeOnline,
			wantFull:    true,
		},
		{
			name:        "hybrid with room defaults offline",
			event:       hybrid,
			counts:      AttendeeCounts{Offline: 1, All: 9},
			wantModes:   []domain.ModeOption{{Mode: "offline", Enabled: true}, {Mode: "online", Enabled: true}},
			wantDefault: domain.ModeOffline,
		},
		{
			name:        "course without city still chooses",
			event:       course,
			counts:      AttendeeCounts{},
			wantModes:   []domain.ModeOption{{Mode: "offline", Enabled: true}, {Mode: "online", Enabled: true}},
			wantDefault: domain.ModeOffline,
		},
		{
			name:        "seminar is forced offline",
			event:       seminar,
			counts:      AttendeeCounts{Offline: 2, All: 2},
			wantModes:   []domain.ModeOption{{Mode: "offline", Enabled: false}},
			wantDefault: domain.ModeOffline,
			wantFull:    true,
		},
		{
			name:        "online only counts every attendee",
			event:       online,
			counts:      AttendeeCounts{Offline: 0, All: 3},
			wantModes:   []domain.ModeOption{{Mode: "online", Enabled: false}},
			wantDefault: domain.ModeOnline,
			wantFull:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := ComputeAvailability(tt.event, tt.counts, domain.RegisteredOfferings{})
			assert.Equal(t, tt.wantModes, av.Modes)
			assert.Equal(t, tt.wantDefault, av.DefaultMode)
			assert.Equal(t, tt.wantFull, av.Event.Full)
		})
	}
}

func TestComputeAvailability_ZeroCapacityIsFull(t *testing.T) {
	av := ComputeAvailability(&domain.Event{Type: domain.EventTypeSeminar}, AttendeeCounts{}, domain.RegisteredOfferings{})
	assert.True(t, av.Gather.Full)
	assert.True(t, av.Consultation.Full)
	assert.False(t, av.ModeEnabled(domain.ModeOffline))
}

func TestCheckRequest(t *testing.T) {
	av := &domain.Availability{
		Modes:        []domain.ModeOption{{Mode: domain.ModeOffline, Enabled: true}},
		DefaultMode:  domain.ModeOffline,
		Gather:       domain.OfferingAvailability{Capacity: 5},
		Consultation: domain.OfferingAvailability{Participants: 1, Capacity: 1, Full: true},
	}
	tests := []struct {
		name string
		req  domain.RegisterRequest
		want error
	}{
		{"nothing", domain.RegisterRequest{}, common.ErrNothingSelected},
		{"consultation alone", domain.RegisterRequest{Consultation: true}, common.ErrDependencyRequired},
		{"consultation with event only", domain.RegisterRequest{Event: true, Consultation: true}, common.ErrDependencyRequired},
		{"consultation full", domain.RegisterRequest{Gather: true, Consultation: true}, common.ErrCapacityExceeded},
		{"mode not offered", domain.RegisterRequest{Event: true, Mode: domain.ModeOnline}, common.ErrModeNotAllowed},
		{"gather alone", domain.RegisterRequest{Gather: true}, nil},
		{"event default mode", domain.RegisterRequest{Event: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckRequest(av, &tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_SameAnswerAtOpenAndSubmit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newRegistrationService(db, nil, nil)
	ctx := context.Background()
	event := testutil.CreateEvent(t, db, domain.Event{Type: domain.EventTypeRegularMeeting, City: "Tokyo", EventCapacity: 2})
	addAttendee(t, db, event.ID, "a", domain.ModeOffline)
	addAttendee(t, db, event.ID, "b", domain.ModeOffline)
	member := testutil.CreateUser(t, db, "member")

	av, err := svc.Availability(ctx, event.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, av.ModeEnabled(domain.ModeOffline))
	assert.True(t, av.ModeEnabled(domain.ModeOnline))
	assert.Equal(t, domain.ModeOnline, av.DefaultMode)
	assert.EqualValues(t, 2, av.Offline.Participants)

	// the disabled choice is refused on submit too
	_, err = svc.Register(ctx, member.ID, event.ID, &domain.RegisterRequest{Event: true, Mode: domain.ModeOffline})
	assert.ErrorIs(t, err, common.ErrCapacityExceeded)

	res, err := svc.Register(ctx, member.ID, event.ID, &domain.RegisterRequest{Event: true})
	require.NoError(t, err)
	require.NotNil(t, res.Attendee)
	assert.Equal(t, domain.ModeOnline, res.Attendee.Mode)
	assert.Empty(t, res.RedirectURL)

	_, err = svc.Register(ctx, member.ID, event.ID, &domain.RegisterRequest{Event: true})
	assert.ErrorIs(t, err, common.ErrAlreadyRegistered)
}

func TestRegister_ConsultationWithoutGatherNeverSubmits(t *testing.T) {
	db := testutil.NewDB(t)
	cc := new(mockCheckout)
	n := new(mockNotifier)
	svc := newRegistrationService(db, cc, n)
	event := testutil.CreateEvent(t, db, domain.Event{Type: domain.EventTypeSeminar, EventCapacity: 5, ConsultationCapacity: 5})

	_, err := svc.Register(context.Background(), 1, event.ID, &domain.RegisterRequest{Event: true, Consultation: true})
	assert.ErrorIs(t, err, common.ErrDependencyRequired)

	var rows int64
	require.NoError(t, db.Model(&domain.EventAttendee{}).Count(&rows).Error)
	assert.Zero(t, rows)
	require.NoError(t, db.Model(&domain.CheckoutSession{}).Count(&rows).Error)
	assert.Zero(t, rows)
	cc.AssertNotCalled(t, "CreateSession", mock.Anything)
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_PaidOptionsGoThroughCheckout(t *testing.T) {
	db := testutil.NewDB(t)
	cc := new(mockCheckout)
	n := new(mockNotifier)
	svc := newRegistrationService(db, cc, n)
	ctx := context.Background()
	event := testutil.CreateEvent(t, db, domain.Event{
		Type: domain.EventTypeSeminar, EventCapacity: 5,
		GatherCapacity: 5, ConsultationCapacity: 5,
		GatherPrice: 3000, ConsultationPrice: 5000,
	})
	member := testutil.CreateUser(t, db, "member")

	cc.On("CreateSession", mock.Anything).Return("https://pay.example.com/s/order-1", nil).Once()
	n.On("Notify", notify.TypeRegistrationCreated, member.ID, event.ID).Return(nil).Once()
	n.On("Notify", notify.TypeCheckoutCompleted, member.ID, event.ID).Return(nil).Once()

	res, err := svc.Register(ctx, member.ID, event.ID, &domain.RegisterRequest{Event: true, Gather: true, Consultation: true})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/s/order-1", res.RedirectURL)
	assert.Equal(t, "order-1", res.OrderID)

	var session domain.CheckoutSession
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&session).Error)
	assert.Equal(t, domain.CheckoutPending, session.Status)
	assert.Equal(t, 8000, session.Amount)
	assert.Equal(t, res.RedirectURL, session.RedirectURL)

	// paid rows appear only after the webhook; redelivery is a no-op
	require.NoError(t, svc.CompleteCheckout(ctx, "order-1", domain.CheckoutCompleted))
	require.NoError(t, svc.CompleteCheckout(ctx, "order-1", domain.CheckoutCompleted))

	var gather, consult int64
	require.NoError(t, db.Model(&domain.GatherAttendee{}).Count(&gather).Error)
	require.NoError(t, db.Model(&domain.ConsultationAttendee{}).Count(&consult).Error)
	assert.EqualValues(t, 1, gather)
	assert.EqualValues(t, 1, consult)
	cc.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRegister_CheckoutFailureKeepsMainAttendee(t *testing.T) {
	db := testutil.NewDB(t)
	cc := new(mockCheckout)
	svc := newRegistrationService(db, cc, nil)
	event := testutil.CreateEvent(t, db, domain.Event{Type: domain.EventTypeSeminar, EventCapacity: 5, GatherCapacity: 5})
	member := testutil.CreateUser(t, db, "member")

	cc.On("CreateSession", mock.Anything).Return("", common.ErrCheckoutFailed)

	res, err := svc.Register(context.Background(), member.ID, event.ID, &domain.RegisterRequest{Event: true, Gather: true})
	assert.ErrorIs(t, err, common.ErrCheckoutFailed)
	require.NotNil(t, res)
	assert.NotNil(t, res.Attendee)

	var session domain.CheckoutSession
	require.NoError(t, db.Where("order_id = ?", "order-1").First(&session).Error)
	assert.Equal(t, domain.CheckoutFailed, session.Status)
}

func TestRegister_NotificationFailureIsNotFatal(t *testing.T) {
	db := testutil.NewDB(t)
	n := new(mockNotifier)
	svc := newRegistrationService(db, nil, n)
	event := testutil.CreateEvent(t, db, domain.Event{Type: domain.EventTypeSeminar, EventCapacity: 5})
	member := testutil.CreateUser(t, db, "member")
	n.On("Notify", notify.TypeRegistrationCreated, member.ID, event.ID).Return(errors.New("smtp down"))

	res, err := svc.Register(context.Background(), member.ID, event.ID, &domain.RegisterRequest{Event: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeOffline, res.Attendee.Mode)
	n.AssertExpectations(t)
}

func TestCancel_GatherTakesConsultationWithIt(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newRegistrationService(db, nil, nil)
	ctx := context.Background()
	event := testutil.CreateEvent(t, db, domain.Event{Type: domain.EventTypeSeminar, EventCapacity: 5, GatherCapacity: 5, ConsultationCapacity: 5})
	member := testutil.CreateUser(t, db, "member")
	attendees := repository.NewAttendeeRepository(db)
	require.NoError(t, attendees.CreatePaidAttendees(ctx, event.ID, member.ID, true, true))

	require.NoError(t, svc.Cancel(ctx, member.ID, event.ID, domain.OfferingGather))

	av, err := svc.Availability(ctx, event.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, av.Registered.Gather)
	assert.False(t, av.Registered.Consultation)
	assert.Zero(t, av.Consultation.Participants)

	err = svc.Cancel(ctx, member.ID, event.ID, domain.OfferingGather)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMyRegistrations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newRegistrationService(db, nil, nil)
	ctx := context.Background()
	member := testutil.CreateUser(t, db, "member")
	e1 := testutil.CreateEvent(t, db, domain.Event{Title: "one", Type: domain.EventTypeSeminar, EventCapacity: 5})
	e2 := testutil.CreateEvent(t, db, domain.Event{Title: "two", Type: domain.EventTypeSeminar, GatherCapacity: 5})
	testutil.CreateEvent(t, db, domain.Event{Title: "three"})

	_, err := svc.Register(ctx, member.ID, e1.ID, &domain.RegisterRequest{Event: true})
	require.NoError(t, err)
	require.NoError(t, repository.NewAttendeeRepository(db).CreatePaidAttendees(ctx, e2.ID, member.ID, true, false))

	regs, err := svc.MyRegistrations(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	byTitle := map[string]domain.MyRegistration{}
	for _, r := range regs {
		byTitle[r.Event.Title] = r
	}
	assert.True(t, byTitle["one"].Main)
	assert.Equal(t, domain.ModeOffline, byTitle["one"].Mode)
	assert.True(t, byTitle["two"].Gather)
	assert.False(t, byTitle["two"].Main)
}
