package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Freeeeeet/massage_booking/internal/model"
	"go.uber.org/zap"
)

// Sender abstracts raw mail delivery so tests can capture messages.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender отправляет письмо через SMTP без аутентификации
// (совместимо с Mailpit и внутренними релеями).
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(host, port, from string) *SMTPSender {
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from: strings.TrimSpace(from),
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

// EmailNotifier шлёт администратору письмо с ссылками confirm/reject на
// каждую новую заявку, а после решения — письмо клиенту и копию
// администратору.
type EmailNotifier struct {
	sender     Sender
	adminEmail string
	appURL     string
	logger     *zap.Logger
}

func NewEmailNotifier(sender Sender, adminEmail, appURL string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:     sender,
		adminEmail: adminEmail,
		appURL:     strings.TrimRight(appURL, "/"),
		logger:     logger,
	}
}

func (n *EmailNotifier) BookingCreated(ctx context.Context, booking *model.BookingRequest) {
	confirmURL := n.decisionURL(booking.DecisionToken, model.ActionConfirm)
	rejectURL := n.decisionURL(booking.DecisionToken, model.ActionReject)

	subject := fmt.Sprintf("New Booking Request: %s %s", booking.Date, booking.Time)
	body := fmt.Sprintf(
		"New booking request\n\nDate: %s\nTime: %s\nName: %s\nPhone: %s\nEmail: %s\n\nConfirm: %s\nReject: %s\n\nBooking ID: %s\n",
		booking.Date, booking.Time, booking.Name, booking.Phone, booking.Email,
		confirmURL, rejectURL, booking.ID,
	)

	if err := n.sender.Send(n.adminEmail, subject, body); err != nil {
		n.logger.Warn("Failed to send admin email for new booking",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

func (n *EmailNotifier) BookingDecided(ctx context.Context, booking *model.BookingRequest) {
	confirmed := booking.Status == model.BookingStatusConfirmed

	subjectCustomer := "❌ Your massage booking was rejected"
	closing := "Sorry, this time slot is no longer available."
	if confirmed {
		subjectCustomer = "✅ Your massage booking is confirmed"
		closing = "Your appointment has been confirmed. We look forward to seeing you!"
	}

	bodyCustomer := fmt.Sprintf(
		"Date: %s\nTime: %s\nName: %s\nPhone: %s\n\n%s\n",
		booking.Date, booking.Time, booking.Name, booking.Phone, closing,
	)

	if err := n.sender.Send(booking.Email, subjectCustomer, bodyCustomer); err != nil {
		n.logger.Warn("Failed to send customer decision email",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	subjectAdmin := fmt.Sprintf("Rejected: %s %s", booking.Date, booking.Time)
	if confirmed {
		subjectAdmin = fmt.Sprintf("Confirmed: %s %s", booking.Date, booking.Time)
	}
	bodyAdmin := fmt.Sprintf(
		"Status updated to %s\n\n%s %s\n%s (%s, %s)\n",
		booking.Status, booking.Date, booking.Time, booking.Name, booking.Phone, booking.Email,
	)

	if err := n.sender.Send(n.adminEmail, subjectAdmin, bodyAdmin); err != nil {
		n.logger.Warn("Failed to send admin copy of decision email",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

func (n *EmailNotifier) decisionURL(token string, action model.DecisionAction) string {
	return fmt.Sprintf("%s/api/decision?token=%s&action=%s", n.appURL, token, action)
}
