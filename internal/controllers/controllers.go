package controllers

import (
	"homerent/config"
	"homerent/internal/database"
	"homerent/internal/events"
	"homerent/internal/repositories"
	"homerent/internal/services"

	adminSettlementController "homerent/internal/controllers/adminsettlement"
	adminUserController "homerent/internal/controllers/adminusers"
	authController "homerent/internal/controllers/auth"
	bookingController "homerent/internal/controllers/bookings"
	houseController "homerent/internal/controllers/houses"
	rentPaymentController "homerent/internal/controllers/rentpayments"
	supportController "homerent/internal/controllers/support"
	visitController "homerent/internal/controllers/visits"
)

type Controllers struct {
	Auth            authController.AuthControllerInterface
	House           houseController.HouseControllerInterface
	Booking         bookingController.BookingControllerInterface
	AdminSettlement adminSettlementController.AdminSettlementControllerInterface
	AdminUser       adminUserController.AdminUserControllerInterface
	RentPayment     rentPaymentController.RentPaymentControllerInterface
	Visit           visitController.VisitControllerInterface
	Support         supportController.SupportControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:            authController.New(repos, services, config, db),
		House:           houseController.New(repos, services, config, db),
		Booking:         bookingController.New(repos, services, eventBus, config, db),
		AdminSettlement: adminSettlementController.New(repos, services, eventBus, config, db),
		AdminUser:       adminUserController.New(repos, services, config, db),
		RentPayment:     rentPaymentController.New(repos, services, eventBus, config, db),
		Visit:           visitController.New(repos, services, eventBus, config, db),
		Support:         supportController.New(repos, services, eventBus, config, db),
	}
}
