package adminSettlementController

import (
	"context"
	"testing"
	"time"

	"homerent/internal/apperrors"
	"homerent/internal/logger"
	. "homerent/internal/models"

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
	return nil, nil
}

func (f *fakeBookingRepo) FindBlockingForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) (*Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) FindStaleHolds(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) ([]*Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) FindHoldsForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) ([]*Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByTenant(
	ctx context.Context,
	tx *gorm.DB,
	tenantID uuid.UUID,
) ([]*Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByStatuses(
	ctx context.Context,
	tx *gorm.DB,
	statuses []BookingStatus,
) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, b)
				break
			}
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

func newTestController(bookingRepo *fakeBookingRepo) *AdminSettlementController {
	return &AdminSettlementController{
		bookingRepo:        bookingRepo,
		transactionService: &fakeTransactor{},
		log:                logger.New("adminSettlementController"),
	}
}

func seededBooking(status BookingStatus) *Booking {
	booking := &Booking{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New(), CreatedAt: time.Now()},
		HouseID:       uuid.New(),
		LandlordID:    uuid.New(),
		TenantID:      uuid.New(),
		Amount:        decimal.NewFromInt(5000),
		Status:        status,
	}
	booking.StatusHistory = append(booking.StatusHistory, StatusChange{
		Status: string(status),
		At:     booking.CreatedAt,
		By:     Actor(booking.TenantID),
		Note:   "Booking created",
	})
	return booking
}

func TestListPaymentsBuckets(t *testing.T) {
	repo := newFakeBookingRepo(
		seededBooking(BookingInitiated),
		seededBooking(BookingPaymentSubmitted),
		seededBooking(BookingApproved),
		seededBooking(BookingTransferred),
		seededBooking(BookingRejected),
		seededBooking(BookingCancelled),
	)
	controller := newTestController(repo)

	testCases := []struct {
		name     string
		bucket   PaymentBucket
		expected []BookingStatus
	}{
		{"pending", BucketPending, []BookingStatus{BookingPaymentSubmitted}},
		{"empty defaults to pending", "", []BookingStatus{BookingPaymentSubmitted}},
		{"approved", BucketApproved, []BookingStatus{BookingApproved, BookingTransferred}},
		{"rejected", BucketRejected, []BookingStatus{BookingRejected}},
		{
			"all",
			BucketAll,
			[]BookingStatus{
				BookingInitiated,
				BookingPaymentSubmitted,
				BookingApproved,
				BookingTransferred,
				BookingRejected,
				BookingCancelled,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bookings, err := controller.ListPayments(context.Background(), tc.bucket)
			require.NoError(t, err)

			var statuses []BookingStatus
			for _, b := range bookings {
				statuses = append(statuses, b.Status)
			}
			assert.ElementsMatch(t, tc.expected, statuses)
		})
	}
}

func TestListPaymentsUnknownBucket(t *testing.T) {
	controller := newTestController(newFakeBookingRepo())

	_, err := controller.ListPayments(context.Background(), "nonsense")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestApproveOnlyFromPaymentSubmitted(t *testing.T) {
	admin := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleAdmin}

	for _, status := range []BookingStatus{
		BookingInitiated,
		BookingApproved,
		BookingRejected,
		BookingCancelled,
		BookingExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := seededBooking(status)
			controller := newTestController(newFakeBookingRepo(booking))

			_, err := controller.Approve(context.Background(), admin, booking.ID)
			require.Error(t, err)
			assert.True(t, apperrors.IsStateConflict(err))

			// A refused approval must not touch the record.
			assert.Equal(t, status, booking.Status)
			assert.Nil(t, booking.AdminDecision.ApprovedBy)
			assert.Len(t, booking.StatusHistory, 1)
		})
	}
}

func TestRejectRequiresNote(t *testing.T) {
	admin := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleAdmin}
	booking := seededBooking(BookingPaymentSubmitted)
	controller := newTestController(newFakeBookingRepo(booking))

	_, err := controller.Reject(context.Background(), admin, booking.ID, &RejectPaymentRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, BookingPaymentSubmitted, booking.Status)
}

func TestMarkTransferredGuards(t *testing.T) {
	admin := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Role: RoleAdmin}

	t.Run("requires payout reference", func(t *testing.T) {
		booking := seededBooking(BookingApproved)
		controller := newTestController(newFakeBookingRepo(booking))

		_, err := controller.MarkTransferred(
			context.Background(),
			admin,
			booking.ID,
			&MarkTransferredRequest{},
		)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("only from approved", func(t *testing.T) {
		booking := seededBooking(BookingPaymentSubmitted)
		controller := newTestController(newFakeBookingRepo(booking))

		_, err := controller.MarkTransferred(
			context.Background(),
			admin,
			booking.ID,
			&MarkTransferredRequest{PayoutTxnID: "TXN42"},
		)
		require.Error(t, err)
		assert.True(t, apperrors.IsStateConflict(err))
		assert.Empty(t, booking.PayoutTxnID)
	})
}
