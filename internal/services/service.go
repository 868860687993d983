package services

import (
	"homerent/config"
	"homerent/internal/database"
	"homerent/internal/events"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Token       *TokenService
	Mailer      *MailerService
	HouseLock   *HouseLockService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	tokenService := NewTokenService(config)
	mailerService := NewMailerService(config)
	houseLockService := NewHouseLockService()

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Token:       tokenService,
		Mailer:      mailerService,
		HouseLock:   houseLockService,
	}, nil
}
