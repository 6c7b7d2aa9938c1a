// Package sender отправляет письма с билетами по сообщениям из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hharryy/eventsnap/internal/lib/sl"
	"github.com/hharryy/eventsnap/internal/lib/smtp"
	"github.com/hharryy/eventsnap/internal/models"
)

// Service сервис отправки писем с билетами.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// SendTicketEmail обрабатывает сообщение очереди ticket.issued:
// разбирает билет и отправляет письмо посетителю.
func (s *Service) SendTicketEmail(body []byte) error {
	var message models.TicketMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal ticket message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.AttendeeEmail}
	subject := "Your ticket for " + message.EventTitle
	bodyText := fmt.Sprintf(
		"Hello, %s!\n\n"+
			"Your registration for %s is confirmed.\n\n"+
			"Date: %s\n"+
			"Location: %s\n"+
			"Transaction: %s\n\n"+
			"Your ticket with QR code: %s\n\n"+
			"Show the QR code at the entrance.",
		message.AttendeeName,
		message.EventTitle,
		message.EventDate.Format("02 Jan 2006 15:04"),
		message.EventLocation,
		message.TransactionID,
		message.TicketURL,
	)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("ticket email sent", "to", to)
	return nil
}
