package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	Name    string `gorm:"type:text;not null"              json:"name"`
	Email   string `gorm:"type:text;not null;uniqueIndex"  json:"email"`
	Phone   string `gorm:"type:text"                       json:"phone"`
	Age     int    `gorm:"type:int"                        json:"age,omitempty"`
	Address string `gorm:"type:text"                       json:"address,omitempty"`
	Role    Role   `gorm:"type:text;not null;default:'tenant';index" json:"role"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`

	// Landlord payout destination, shown to admins when settling.
	UPIID string `gorm:"column:upi_id;type:text" json:"upiId,omitempty"`

	EmailVerified bool `gorm:"default:false" json:"emailVerified"`
	// Landlord identity verification, gated by an admin.
	Verified   bool       `gorm:"default:false"  json:"verified"`
	VerifiedAt *time.Time `gorm:"type:timestamp" json:"verifiedAt,omitempty"`

	AadhaarLast4 string `gorm:"type:text" json:"-"`
	AadhaarHash  string `gorm:"type:text" json:"-"`

	OTPHash      string     `gorm:"column:otp_hash;type:text" json:"-"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"     json:"-"`
	OTPAttempts  int        `gorm:"column:otp_attempts;default:0" json:"-"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

func (u *User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u *User) IsLandlord() bool { return u.Role == RoleLandlord }
func (u *User) IsTenant() bool   { return u.Role == RoleTenant }

// Profile is the user shape returned by the API. Credential and OTP
// fields never leave the model.
type Profile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Role          Role       `json:"role"`
	UPIID         string     `json:"upiId,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	Verified      bool       `json:"verified"`
	CreatedAt     time.Time  `json:"createdAt"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		UPIID:         u.UPIID,
		EmailVerified: u.EmailVerified,
		Verified:      u.Verified,
		CreatedAt:     u.CreatedAt,
		VerifiedAt:    u.VerifiedAt,
	}
}
