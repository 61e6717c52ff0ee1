// Package email delivers the rendered newsletter to every subscriber over
// SMTP. Each recipient gets an individually addressed message with their
// email substituted into the preference-management link.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"newsbrief/internal/core"
	"newsbrief/internal/logger"
	"newsbrief/internal/render"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "DeepTech Digest: Your AI News Update"

const maxSendAttempts = 3

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// sendFunc matches smtp.SendMail; swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EditionStore is the slice of the edition repository this stage needs.
type EditionStore interface {
	Latest(ctx context.Context) (*core.Edition, error)
}

// SubscriberStore is the slice of the subscriber repository this stage needs.
type SubscriberStore interface {
	List(ctx context.Context) ([]core.Subscriber, error)
}

// Sender delivers newsletter editions.
type Sender struct {
	config      SMTPConfig
	fromAddress string
	fromName    string
	subject     string
	editions    EditionStore
	subscribers SubscriberStore
	send        sendFunc
	sleep       func(time.Duration)
}

// NewSender creates a Sender. Subject falls back to the default when empty.
func NewSender(config SMTPConfig, fromAddress, fromName, subject string, editions EditionStore, subscribers SubscriberStore) (*Sender, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if fromAddress == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Sender{
		config:      config,
		fromAddress: fromAddress,
		fromName:    fromName,
		subject:     subject,
		editions:    editions,
		subscribers: subscribers,
		send:        smtp.SendMail,
		sleep:       time.Sleep,
	}, nil
}

// Run sends the latest rendered edition to every subscriber. A recipient
// whose delivery still fails after retries is logged and skipped; one bad
// mailbox does not abort the batch.
func (s *Sender) Run(ctx context.Context) error {
	log := logger.Get()

	edition, err := s.editions.Latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load edition for delivery: %w", err)
	}
	if edition.HTML == nil || *edition.HTML == "" {
		return fmt.Errorf("edition %d has not been rendered yet", edition.ID)
	}

	recipients, err := s.subscribers.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}
	if len(recipients) == 0 {
		log.Warn("No subscribers, nothing to send")
		return nil
	}
	log.Info("Sending newsletter", "edition_id", edition.ID, "recipients", len(recipients))

	sent := 0
	for _, subscriber := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sendTo(subscriber.Email, *edition.HTML); err != nil {
			log.Error("Failed to deliver newsletter", "recipient", subscriber.Email, "error", err)
			continue
		}
		log.Info("Newsletter delivered", "recipient", subscriber.Email)
		sent++
	}

	log.Info("Delivery complete", "sent", sent, "failed", len(recipients)-sent)
	return nil
}

// SendTo delivers the latest rendered edition to a single address. Used for
// test sends.
func (s *Sender) SendTo(ctx context.Context, recipient string) error {
	edition, err := s.editions.Latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load edition for delivery: %w", err)
	}
	if edition.HTML == nil || *edition.HTML == "" {
		return fmt.Errorf("edition %d has not been rendered yet", edition.ID)
	}
	return s.sendTo(recipient, *edition.HTML)
}

func (s *Sender) sendTo(recipient, html string) error {
	personalized := strings.ReplaceAll(html, render.EmailPlaceholder, url.QueryEscape(recipient))
	msg := s.buildMessage(recipient, personalized)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	username := s.config.Username
	if username == "" {
		username = s.fromAddress
	}
	auth := smtp.PlainAuth("", username, s.config.Password, s.config.Host)

	var lastErr error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(time.Duration(1<<attempt) * time.Second)
		}
		if err := s.send(addr, auth, s.fromAddress, []string{recipient}, msg); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to send to %s after %d attempts: %w", recipient, maxSendAttempts, lastErr)
}

// buildMessage assembles an RFC 5322 message with an HTML body.
func (s *Sender) buildMessage(recipient, html string) []byte {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", s.subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)
	return []byte(msg.String())
}
