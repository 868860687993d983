package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"homerent/config"
	"homerent/internal/logger"
)

// MailerService sends transactional email over SMTP. All sends are
// best-effort: failures are logged and never block the caller's flow.
type MailerService struct {
	host     string
	port     int
	user     string
	password string
	from     string
	log      logger.Logger
}

func NewMailerService(config config.Config) *MailerService {
	return &MailerService{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		user:     config.SMTPUser,
		password: config.SMTPPassword,
		from:     config.SMTPFrom,
		log:      logger.New("MailerService"),
	}
}

func (ms *MailerService) send(to, subject, body string) error {
	if ms.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := strings.Join([]string{
		"From: " + ms.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", ms.host, ms.port)
	var auth smtp.Auth
	if ms.user != "" {
		auth = smtp.PlainAuth("", ms.user, ms.password, ms.host)
	}

	return smtp.SendMail(addr, auth, ms.from, []string{to}, []byte(msg))
}

// SendAsync fires the email on its own goroutine and logs any failure.
func (ms *MailerService) SendAsync(to, subject, body string) {
	log := ms.log.Function("SendAsync")

	go func() {
		if err := ms.send(to, subject, body); err != nil {
			log.Er("failed to send email", err, "to", to, "subject", subject)
			return
		}
		log.Info("Email sent", "to", to, "subject", subject)
	}()
}

func (ms *MailerService) SendOTP(to, name, code string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour HomeRent verification code is %s. It expires in 10 minutes.\n\nIf you did not request this, ignore this email.",
		name, code,
	)
	ms.SendAsync(to, "Your HomeRent verification code", body)
}

func (ms *MailerService) SendPasswordReset(to, name, code string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour HomeRent password reset code is %s. It expires in 10 minutes.",
		name, code,
	)
	ms.SendAsync(to, "Reset your HomeRent password", body)
}

func (ms *MailerService) SendPayoutNotice(to, name, bookingID, amount, txnID string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking payout has been transferred.\n\nBooking: %s\nAmount: INR %s\nTransaction: %s",
		name, bookingID, amount, txnID,
	)
	ms.SendAsync(to, "HomeRent payout transferred", body)
}

func (ms *MailerService) SendBookingDecision(to, name, bookingID string, approved bool, note string) {
	var body string
	if approved {
		body = fmt.Sprintf(
			"Hi %s,\n\nYour booking payment was verified and approved.\n\nBooking: %s",
			name, bookingID,
		)
	} else {
		body = fmt.Sprintf(
			"Hi %s,\n\nYour booking payment could not be verified.\n\nBooking: %s\nReason: %s",
			name, bookingID, note,
		)
	}
	ms.SendAsync(to, "HomeRent booking update", body)
}
