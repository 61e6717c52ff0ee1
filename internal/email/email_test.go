package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"newsbrief/internal/core"
	"newsbrief/internal/render"
)

type fakeEditions struct {
	edition *core.Edition
}

func (e *fakeEditions) Latest(ctx context.Context) (*core.Edition, error) {
	return e.edition, nil
}

type fakeSubscribers struct {
	subs []core.Subscriber
}

func (s *fakeSubscribers) List(ctx context.Context) ([]core.Subscriber, error) {
	return s.subs, nil
}

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func renderedEdition() *core.Edition {
	html := "<html><body>news here, manage preferences at https://example.com/?email=" + render.EmailPlaceholder + "</body></html>"
	return &core.Edition{ID: 1, HTML: &html}
}

func newTestSender(t *testing.T, editions EditionStore, subscribers SubscriberStore) (*Sender, *[]sentMail) {
	t.Helper()
	sender, err := NewSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Password: "secret"},
		"news@example.com", "Example News", "", editions, subscribers)
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}
	var sent []sentMail
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	sender.sleep = func(time.Duration) {}
	return sender, &sent
}

func TestRunDeliversToAllSubscribers(t *testing.T) {
	subscribers := &fakeSubscribers{subs: []core.Subscriber{
		{Email: "a@example.org"},
		{Email: "b@example.org"},
	}}
	sender, sent := newTestSender(t, &fakeEditions{edition: renderedEdition()}, subscribers)

	if err := sender.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(*sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(*sent))
	}

	first := (*sent)[0]
	if first.addr != "smtp.example.com:587" {
		t.Errorf("addr = %q", first.addr)
	}
	if len(first.to) != 1 || first.to[0] != "a@example.org" {
		t.Errorf("to = %v", first.to)
	}
	if !strings.Contains(first.msg, "Subject: "+DefaultSubject) {
		t.Error("message missing default subject")
	}
	if !strings.Contains(first.msg, "Content-Type: text/html") {
		t.Error("message missing HTML content type")
	}
	if !strings.Contains(first.msg, "From: Example News <news@example.com>") {
		t.Error("message missing display-name From header")
	}
}

func TestRunPersonalizesPreferencesLink(t *testing.T) {
	subscribers := &fakeSubscribers{subs: []core.Subscriber{{Email: "reader+news@example.org"}}}
	sender, sent := newTestSender(t, &fakeEditions{edition: renderedEdition()}, subscribers)

	if err := sender.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	msg := (*sent)[0].msg
	if strings.Contains(msg, render.EmailPlaceholder) {
		t.Error("placeholder left in delivered message")
	}
	if !strings.Contains(msg, "reader%2Bnews%40example.org") {
		t.Errorf("recipient not URL-escaped into message: %q", msg)
	}
}

func TestRunRequiresRenderedEdition(t *testing.T) {
	sender, _ := newTestSender(t, &fakeEditions{edition: &core.Edition{ID: 5}}, &fakeSubscribers{})
	if err := sender.Run(context.Background()); err == nil {
		t.Fatal("expected error for unrendered edition")
	}
}

func TestSendRetriesBeforeGivingUp(t *testing.T) {
	subscribers := &fakeSubscribers{subs: []core.Subscriber{{Email: "a@example.org"}}}
	sender, _ := newTestSender(t, &fakeEditions{edition: renderedEdition()}, subscribers)

	attempts := 0
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary failure")
		}
		return nil
	}

	if err := sender.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRunContinuesPastFailedRecipient(t *testing.T) {
	subscribers := &fakeSubscribers{subs: []core.Subscriber{
		{Email: "dead@example.org"},
		{Email: "alive@example.org"},
	}}
	sender, _ := newTestSender(t, &fakeEditions{edition: renderedEdition()}, subscribers)

	var delivered []string
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if to[0] == "dead@example.org" {
			return errors.New("mailbox unavailable")
		}
		delivered = append(delivered, to[0])
		return nil
	}

	if err := sender.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(delivered) != 1 || delivered[0] != "alive@example.org" {
		t.Errorf("delivered = %v", delivered)
	}
}
