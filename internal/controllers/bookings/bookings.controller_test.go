package bookingController

import (
	"context"
	"testing"
	"time"

	"homerent/config"
	"homerent/internal/apperrors"
	"homerent/internal/events"
	"homerent/internal/logger"
	. "homerent/internal/models"
	"homerent/internal/repositories"
	"homerent/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTransactor struct{}

func (f *fakeTransactor) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	return fn(ctx, nil)
}

type fakePublisher struct {
	published []events.MessageType
}

func (f *fakePublisher) PublishBooking(
	messageType events.MessageType,
	bookingID uuid.UUID,
	status string,
	data map[string]any,
) error {
	f.published = append(f.published, messageType)
	return nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*Booking
}

func newFakeBookingRepo(bookings ...*Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (f *fakeBookingRepo) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Booking, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeBookingRepo) FindActiveForTenantAndLandlord(
	ctx context.Context,
	tx *gorm.DB,
	tenantID, landlordID uuid.UUID,
) (*Booking, error) {
	var found *Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || b.LandlordID != landlordID {
			continue
		}
		if !statusIn(b.Status, TenantActiveStatuses()) {
			continue
		}
		if found == nil || b.CreatedAt.After(found.CreatedAt) {
			found = b
		}
	}
	return found, nil
}

func (f *fakeBookingRepo) FindBlockingForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) (*Booking, error) {
	for _, b := range f.bookings {
		if b.HouseID == houseID && statusIn(b.Status, HouseBlockingStatuses()) {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindStaleHolds(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.Status == BookingInitiated && b.CreatedAt.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindHoldsForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.HouseID == houseID && b.Status == BookingInitiated {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByTenant(
	ctx context.Context,
	tx *gorm.DB,
	tenantID uuid.UUID,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.LandlordID == landlordID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByStatuses(
	ctx context.Context,
	tx *gorm.DB,
	statuses []BookingStatus,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if statusIn(b.Status, statuses) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func statusIn(status BookingStatus, set []BookingStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

type fakeHouseRepo struct {
	houses map[uuid.UUID]*House
}

func newFakeHouseRepo(houses ...*House) *fakeHouseRepo {
	repo := &fakeHouseRepo{houses: make(map[uuid.UUID]*House)}
	for _, h := range houses {
		repo.houses[h.ID] = h
	}
	return repo
}

func (f *fakeHouseRepo) Create(ctx context.Context, tx *gorm.DB, house *House) error {
	if house.ID == uuid.Nil {
		house.ID = uuid.New()
	}
	f.houses[house.ID] = house
	return nil
}

func (f *fakeHouseRepo) Save(ctx context.Context, tx *gorm.DB, house *House) error {
	f.houses[house.ID] = house
	return nil
}

func (f *fakeHouseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*House, error) {
	house, ok := f.houses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return house, nil
}

func (f *fakeHouseRepo) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*House, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeHouseRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.HouseFilter,
) ([]*House, error) {
	var out []*House
	for _, h := range f.houses {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHouseRepo) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*House, error) {
	var out []*House
	for _, h := range f.houses {
		if h.LandlordID == landlordID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHouseRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*House, error) {
	var out []*House
	for _, h := range f.houses {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHouseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(f.houses, id)
	return nil
}

func (f *fakeHouseRepo) ClearCache(ctx context.Context, id uuid.UUID) {}

func newTestController(
	bookingRepo *fakeBookingRepo,
	houseRepo *fakeHouseRepo,
) (*BookingController, *fakePublisher) {
	publisher := &fakePublisher{}
	controller := &BookingController{
		bookingRepo:        bookingRepo,
		houseRepo:          houseRepo,
		transactionService: &fakeTransactor{},
		houseLock:          services.NewHouseLockService(),
		eventBus:           publisher,
		Config: config.Config{
			PlatformUPIID:      "homerent@upi",
			PlatformUPIName:    "HomeRent",
			BookingHoldMinutes: 10,
		},
		log: logger.New("bookingController"),
	}
	return controller, publisher
}

func testHouse(landlordID uuid.UUID) *House {
	return &House{
		BaseUUIDModel:      BaseUUIDModel{ID: uuid.New(), CreatedAt: time.Now()},
		LandlordID:         landlordID,
		Title:              "2BHK Indiranagar",
		VerificationStatus: VerificationApproved,
		Status:             HouseAvailable,
		BookingAmount:      decimal.NewFromInt(5000),
		Deposit:            decimal.NewFromInt(20000),
	}
}

func testBooking(house *House, tenantID uuid.UUID, status BookingStatus) *Booking {
	booking := &Booking{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New(), CreatedAt: time.Now()},
		HouseID:       house.ID,
		LandlordID:    house.LandlordID,
		TenantID:      tenantID,
		Amount:        house.BookingAmount,
		Status:        status,
	}
	booking.StatusHistory = append(booking.StatusHistory, StatusChange{
		Status: string(status),
		At:     booking.CreatedAt,
		By:     Actor(tenantID),
		Note:   "Booking created",
	})
	return booking
}

func TestHoldDuration(t *testing.T) {
	testCases := []struct {
		name        string
		holdMinutes int
		expected    time.Duration
	}{
		{"configured", 30, 30 * time.Minute},
		{"default when unset", 0, 10 * time.Minute},
		{"default when negative", -5, 10 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &BookingController{
				Config: config.Config{BookingHoldMinutes: tc.holdMinutes},
			}
			assert.Equal(t, tc.expected, c.holdDuration())
		})
	}
}

func TestInitiate(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())

	controller, publisher := newTestController(
		newFakeBookingRepo(),
		newFakeHouseRepo(house),
	)

	response, err := controller.Initiate(
		context.Background(),
		tenant,
		&InitiateBookingRequest{HouseID: house.ID},
	)
	require.NoError(t, err)

	assert.Equal(t, BookingInitiated, response.Booking.Status)
	assert.True(t, decimal.NewFromInt(5000).Equal(response.Amount))
	assert.Contains(t, response.UPILink, "am=5000.00")
	assert.Equal(t, "homerent@upi", response.Payee.UPIID)
	assert.Equal(t, "HomeRent", response.Payee.Name)
	assert.Equal(t, 10, response.HoldMinutes)
	assert.Equal(t, []events.MessageType{events.BOOKING_INITIATED}, publisher.published)
}

func TestInitiateSecondHouseSameLandlord(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	landlordID := uuid.New()
	houseA := testHouse(landlordID)
	houseB := testHouse(landlordID)
	existing := testBooking(houseA, tenant.ID, BookingPaymentSubmitted)

	bookingRepo := newFakeBookingRepo(existing)
	controller, _ := newTestController(bookingRepo, newFakeHouseRepo(houseA, houseB))

	// One active booking per landlord: a live booking on house A must
	// block a new one on house B of the same landlord.
	_, err := controller.Initiate(
		context.Background(),
		tenant,
		&InitiateBookingRequest{HouseID: houseB.ID},
	)
	require.Error(t, err)

	ce, ok := apperrors.AsContention(err)
	require.True(t, ok)
	assert.True(t, ce.Own)
	assert.Equal(t, existing.ID, ce.BookingID)
	assert.Equal(t, string(BookingPaymentSubmitted), ce.Status)
	assert.True(t, ce.CanCancel)
	assert.Len(t, bookingRepo.bookings, 1)
}

func TestInitiateHouseTakenByAnotherTenant(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	foreign := testBooking(house, uuid.New(), BookingPaymentSubmitted)

	controller, _ := newTestController(newFakeBookingRepo(foreign), newFakeHouseRepo(house))

	_, err := controller.Initiate(
		context.Background(),
		tenant,
		&InitiateBookingRequest{HouseID: house.ID},
	)
	require.Error(t, err)

	ce, ok := apperrors.AsContention(err)
	require.True(t, ok)
	assert.False(t, ce.Own)
	assert.Equal(t, string(BookingPaymentSubmitted), ce.Status)
	// Another tenant's booking id must never surface.
	assert.Equal(t, uuid.Nil, ce.BookingID)
	assert.False(t, ce.CanCancel)
}

func TestInitiateExpiresOwnStaleHold(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	stale := testBooking(house, tenant.ID, BookingInitiated)
	stale.CreatedAt = time.Now().Add(-15 * time.Minute)

	bookingRepo := newFakeBookingRepo(stale)
	controller, _ := newTestController(bookingRepo, newFakeHouseRepo(house))

	response, err := controller.Initiate(
		context.Background(),
		tenant,
		&InitiateBookingRequest{HouseID: house.ID},
	)
	require.NoError(t, err)

	assert.Equal(t, BookingExpired, stale.Status)
	assert.Equal(t, string(BookingExpired), stale.StatusHistory[len(stale.StatusHistory)-1].Status)
	assert.Equal(t, SystemActor, stale.StatusHistory[len(stale.StatusHistory)-1].By)
	assert.NotEqual(t, stale.ID, response.Booking.ID)
	assert.Equal(t, BookingInitiated, response.Booking.Status)
}

func TestMarkPaid(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	booking := testBooking(house, tenant.ID, BookingInitiated)

	controller, publisher := newTestController(
		newFakeBookingRepo(booking),
		newFakeHouseRepo(house),
	)

	updated, err := controller.MarkPaid(
		context.Background(),
		tenant,
		booking.ID,
		&MarkPaidRequest{UTR: "UTR123456"},
	)
	require.NoError(t, err)

	assert.Equal(t, BookingPaymentSubmitted, updated.Status)
	assert.Equal(t, "UTR123456", updated.TenantUTR)
	require.NotNil(t, updated.PaymentSubmittedAt)
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, string(BookingPaymentSubmitted), last.Status)
	assert.Equal(t, Actor(tenant.ID), last.By)
	assert.Equal(t, []events.MessageType{events.BOOKING_PAID}, publisher.published)
}

func TestMarkPaidRentedHouse(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	booking := testBooking(house, tenant.ID, BookingInitiated)

	// The house was rented to someone else while this hold was open.
	otherTenant := uuid.New()
	house.AssignTenant(otherTenant, uuid.New(), time.Now())

	controller, _ := newTestController(newFakeBookingRepo(booking), newFakeHouseRepo(house))

	_, err := controller.MarkPaid(
		context.Background(),
		tenant,
		booking.ID,
		&MarkPaidRequest{UTR: "UTR123456"},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsStateConflict(err))

	// The transition must not have happened.
	assert.Equal(t, BookingInitiated, booking.Status)
	assert.Empty(t, booking.TenantUTR)
}

func TestMarkPaidExpiredHold(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	booking := testBooking(house, tenant.ID, BookingInitiated)
	booking.CreatedAt = time.Now().Add(-15 * time.Minute)

	controller, _ := newTestController(newFakeBookingRepo(booking), newFakeHouseRepo(house))

	_, err := controller.MarkPaid(
		context.Background(),
		tenant,
		booking.ID,
		&MarkPaidRequest{UTR: "UTR123456"},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsStateConflict(err))
	assert.Equal(t, BookingExpired, booking.Status)
}

func TestCancelTwice(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	booking := testBooking(house, tenant.ID, BookingApproved)

	controller, publisher := newTestController(
		newFakeBookingRepo(booking),
		newFakeHouseRepo(house),
	)

	cancelled, err := controller.Cancel(
		context.Background(),
		tenant,
		booking.ID,
		&CancelBookingRequest{Note: "Found another place"},
	)
	require.NoError(t, err)
	assert.Equal(t, BookingCancelled, cancelled.Status)
	assert.Equal(t, "Found another place", cancelled.CancelNote)
	// The tenant's note, not the generic one, goes into history.
	last := cancelled.StatusHistory[len(cancelled.StatusHistory)-1]
	assert.Equal(t, "Found another place", last.Note)
	assert.Equal(t, []events.MessageType{events.BOOKING_CANCELLED}, publisher.published)

	_, err = controller.Cancel(
		context.Background(),
		tenant,
		booking.ID,
		&CancelBookingRequest{},
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsStateConflict(err))
	assert.Contains(t, err.Error(), "Cannot cancel booking in status: cancelled")
}

func TestCancelWithoutNote(t *testing.T) {
	tenant := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleTenant}
	house := testHouse(uuid.New())
	booking := testBooking(house, tenant.ID, BookingInitiated)

	controller, _ := newTestController(newFakeBookingRepo(booking), newFakeHouseRepo(house))

	cancelled, err := controller.Cancel(
		context.Background(),
		tenant,
		booking.ID,
		&CancelBookingRequest{},
	)
	require.NoError(t, err)

	last := cancelled.StatusHistory[len(cancelled.StatusHistory)-1]
	assert.Equal(t, "Cancelled by tenant", last.Note)
	assert.Empty(t, cancelled.CancelNote)
}

func TestAvailability(t *testing.T) {
	house := testHouse(uuid.New())
	blocked := testHouse(uuid.New())
	foreign := testBooking(blocked, uuid.New(), BookingPaymentSubmitted)

	controller, _ := newTestController(newFakeBookingRepo(foreign), newFakeHouseRepo(house, blocked))

	open, err := controller.Availability(context.Background(), house.ID)
	require.NoError(t, err)
	assert.True(t, open.Available)
	assert.Empty(t, open.Reason)

	taken, err := controller.Availability(context.Background(), blocked.ID)
	require.NoError(t, err)
	assert.False(t, taken.Available)
	assert.Equal(t, ReasonActiveBooking, taken.Reason)
	assert.Equal(t, string(BookingPaymentSubmitted), taken.Status)
}

func TestAvailabilityRentedHouse(t *testing.T) {
	house := testHouse(uuid.New())
	house.AssignTenant(uuid.New(), uuid.New(), time.Now())

	controller, _ := newTestController(newFakeBookingRepo(), newFakeHouseRepo(house))

	response, err := controller.Availability(context.Background(), house.ID)
	require.NoError(t, err)
	assert.False(t, response.Available)
	assert.Equal(t, ReasonHouseRented, response.Reason)
	assert.Equal(t, string(HouseRented), response.Status)
}

func TestAvailabilityExpiresStaleHold(t *testing.T) {
	house := testHouse(uuid.New())
	stale := testBooking(house, uuid.New(), BookingInitiated)
	stale.CreatedAt = time.Now().Add(-15 * time.Minute)

	controller, publisher := newTestController(newFakeBookingRepo(stale), newFakeHouseRepo(house))

	response, err := controller.Availability(context.Background(), house.ID)
	require.NoError(t, err)

	// A hold never blocks availability, and the stale one flips to
	// expired on this read rather than waiting for the sweep.
	assert.True(t, response.Available)
	assert.Equal(t, BookingExpired, stale.Status)
	last := stale.StatusHistory[len(stale.StatusHistory)-1]
	assert.Equal(t, string(BookingExpired), last.Status)
	assert.Equal(t, SystemActor, last.By)
	assert.Equal(t, []events.MessageType{events.BOOKING_EXPIRED}, publisher.published)
}
