package seed

import (
	"time"

	"homerent/config"
	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	now := time.Now()

	users := []User{
		{
			Name:          "Admin User",
			Email:         "admin@homerent.dev",
			Phone:         "+919900000001",
			Role:          RoleAdmin,
			EmailVerified: true,
		},
		{
			Name:          "Ravi Sharma",
			Email:         "ravi.landlord@homerent.dev",
			Phone:         "+919900000002",
			Role:          RoleLandlord,
			UPIID:         "ravi.sharma@upi",
			EmailVerified: true,
			Verified:      true,
			VerifiedAt:    &now,
		},
		{
			Name:          "Priya Nair",
			Email:         "priya.tenant@homerent.dev",
			Phone:         "+919900000003",
			Role:          RoleTenant,
			EmailVerified: true,
		},
	}

	for i := range users {
		if err := users[i].SetPassword("password"); err != nil {
			return log.Err("failed to hash seed password", err)
		}

		var existing User
		if err := db.First(&existing, "email = ?", users[i].Email).Error; err == nil {
			log.Info("User already exists", "email", users[i].Email)
			users[i] = existing
			continue
		}
		log.Info("Seeding user", "email", users[i].Email)
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "email", users[i].Email)
		}
	}

	landlord := users[1]
	admin := users[0]

	houses := []House{
		{
			LandlordID:         landlord.ID,
			Title:              "2BHK near Indiranagar metro",
			Description:        "Sunny second-floor flat, five minutes from the metro.",
			Location:           "Indiranagar, Bengaluru",
			Rent:               decimal.NewFromInt(32000),
			Deposit:            decimal.NewFromInt(150000),
			BookingAmount:      decimal.NewFromInt(5000),
			Type:               HouseTypeApartment,
			Beds:               2,
			Baths:              2,
			Area:               1100,
			Furnished:          SemiFurnished,
			Amenities:          []string{"parking", "lift", "power backup"},
			VerificationStatus: VerificationApproved,
			VerifiedAt:         &now,
			VerifiedBy:         &admin.ID,
			AvailableFrom:      now,
			Status:             HouseAvailable,
		},
		{
			LandlordID:         landlord.ID,
			Title:              "Single room in Koramangala",
			Description:        "Furnished room with attached bath, working professionals only.",
			Location:           "Koramangala, Bengaluru",
			Rent:               decimal.NewFromInt(14000),
			Deposit:            decimal.NewFromInt(50000),
			BookingAmount:      decimal.NewFromInt(2000),
			Type:               HouseTypeRoom,
			Beds:               1,
			Baths:              1,
			Area:               300,
			Furnished:          FullyFurnished,
			Amenities:          []string{"wifi", "housekeeping"},
			VerificationStatus: VerificationPending,
			AvailableFrom:      now,
			Status:             HouseAvailable,
		},
	}

	for i := range houses {
		var existing House
		if err := db.First(&existing, "title = ?", houses[i].Title).Error; err == nil {
			log.Info("House already exists", "title", houses[i].Title)
			continue
		}
		log.Info("Seeding house", "title", houses[i].Title)
		if err := db.Create(&houses[i]).Error; err != nil {
			return log.Err("failed to create house", err, "title", houses[i].Title)
		}
	}

	return nil
}
