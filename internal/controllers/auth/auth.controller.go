package authController

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"homerent/config"
	"homerent/internal/apperrors"
	"homerent/internal/database"
	"homerent/internal/logger"
	. "homerent/internal/models"
	"homerent/internal/repositories"
	"homerent/internal/services"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
	// Sliding window for OTP verification attempts per email.
	otpThrottleTTL = 15 * time.Minute
)

type AuthController struct {
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	tokenService       *services.TokenService
	mailer             *services.MailerService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Age      int    `json:"age,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role"     validate:"required"`
	UPIID    string `json:"upiId,omitempty"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Code     string `json:"code"     validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthControllerInterface interface {
	Register(ctx context.Context, request *RegisterRequest) (*Profile, error)
	VerifyEmail(ctx context.Context, request *VerifyEmailRequest) error
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, request *ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, request *ResetPasswordRequest) error
	GetUserByID(ctx context.Context, id string) (*User, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:           repos.User,
		transactionService: services.Transaction,
		tokenService:       services.Token,
		mailer:             services.Mailer,
		db:                 db,
		Config:             config,
		log:                logger.New("authController"),
	}
}

func (c *AuthController) Register(
	ctx context.Context,
	request *RegisterRequest,
) (*Profile, error) {
	log := c.log.Function("Register")

	if request.Role != RoleTenant && request.Role != RoleLandlord {
		return nil, apperrors.Validation("role must be tenant or landlord")
	}
	if len(request.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	if request.Role == RoleLandlord && request.UPIID == "" {
		return nil, apperrors.Validation("landlords must provide a UPI id for payouts")
	}

	existing, err := c.userRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("an account with this email already exists")
	}

	user := &User{
		Name:    request.Name,
		Email:   request.Email,
		Phone:   request.Phone,
		Age:     request.Age,
		Address: request.Address,
		Role:    request.Role,
		UPIID:   request.UPIID,
	}
	if err := user.SetPassword(request.Password); err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	code, err := c.setOTP(user)
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	c.mailer.SendOTP(user.Email, user.Name, code)

	profile := user.ToProfile()
	return &profile, nil
}

func (c *AuthController) VerifyEmail(ctx context.Context, request *VerifyEmailRequest) error {
	user, err := c.userRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return err
	}

	if user.EmailVerified {
		return nil
	}

	if err := c.checkOTP(ctx, user, request.Code); err != nil {
		return err
	}

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		user.EmailVerified = true
		user.OTPHash = ""
		user.OTPExpiresAt = nil
		user.OTPAttempts = 0
		return c.userRepo.Save(ctx, tx, user)
	})
}

func (c *AuthController) Login(
	ctx context.Context,
	request *LoginRequest,
) (*LoginResponse, error) {
	log := c.log.Function("Login")

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !user.ComparePassword(request.Password) {
		return nil, apperrors.ErrUnauthorized
	}

	if !user.EmailVerified {
		return nil, apperrors.Validation("email is not verified")
	}

	token, err := c.tokenService.Issue(user)
	if err != nil {
		return nil, log.Err("failed to issue token", err, "userID", user.ID)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToProfile(),
	}, nil
}

func (c *AuthController) ForgotPassword(
	ctx context.Context,
	request *ForgotPasswordRequest,
) error {
	log := c.log.Function("ForgotPassword")

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// No account enumeration through this endpoint.
			log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := c.setOTP(user)
	if err != nil {
		return err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.userRepo.Save(ctx, tx, user)
	})
	if err != nil {
		return err
	}

	c.mailer.SendPasswordReset(user.Email, user.Name, code)
	return nil
}

func (c *AuthController) ResetPassword(
	ctx context.Context,
	request *ResetPasswordRequest,
) error {
	if len(request.Password) < 8 {
		return apperrors.Validation("password must be at least 8 characters")
	}

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQL, request.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return err
	}

	if err := c.checkOTP(ctx, user, request.Code); err != nil {
		return err
	}

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := user.SetPassword(request.Password); err != nil {
			return err
		}
		user.OTPHash = ""
		user.OTPExpiresAt = nil
		user.OTPAttempts = 0
		return c.userRepo.Save(ctx, tx, user)
	})
}

func (c *AuthController) GetUserByID(ctx context.Context, id string) (*User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := c.userRepo.GetByID(ctx, c.db.SQL, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// setOTP writes a fresh code onto the user and returns the plaintext
// for the email. Only the bcrypt hash is persisted.
func (c *AuthController) setOTP(user *User) (string, error) {
	log := c.log.Function("setOTP")

	code, err := generateOTP()
	if err != nil {
		return "", log.Err("failed to generate OTP", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", log.Err("failed to hash OTP", err)
	}

	expiry := time.Now().Add(otpTTL)
	user.OTPHash = string(hash)
	user.OTPExpiresAt = &expiry
	user.OTPAttempts = 0

	return code, nil
}

func (c *AuthController) checkOTP(ctx context.Context, user *User, code string) error {
	log := c.log.Function("checkOTP")

	count, err := database.NewCacheBuilder(c.db.Cache.Session, user.Email).
		WithContext(ctx).
		WithHash("otp_attempts").
		WithTTL(otpThrottleTTL).
		Incr()
	if err != nil {
		log.Warn("failed to track OTP attempts", "error", err)
	}
	if count > otpMaxAttempts {
		return apperrors.Validation("too many attempts, request a new code")
	}

	if user.OTPHash == "" || user.OTPExpiresAt == nil {
		return apperrors.Validation("no verification code pending")
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return apperrors.Validation("verification code has expired")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(code)) != nil {
		return apperrors.Validation("invalid verification code")
	}

	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
