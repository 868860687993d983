package repositories

import (
	"homerent/internal/database"

	"gorm.io/gorm/clause"
)

type Repository struct {
	User        UserRepository
	House       HouseRepository
	Booking     BookingRepository
	RentPayment RentPaymentRepository
	Visit       VisitRepository
	Support     SupportRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:        NewUserRepository(),
		House:       NewHouseRepository(db.Cache.House), // house reads are cache-backed
		Booking:     NewBookingRepository(),
		RentPayment: NewRentPaymentRepository(),
		Visit:       NewVisitRepository(),
		Support:     NewSupportRepository(),
	}
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
