// Package mail is the SMTP fallback for contact-form notifications.
package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Notifier struct {
	from   string
	to     []string
	dialer sender
}

func New(host string, port int, user, password, to string) *Notifier {
	var rcpt []string
	for _, a := range strings.Split(to, ",") {
		if a = strings.TrimSpace(a); a != "" {
			rcpt = append(rcpt, a)
		}
	}
	return &Notifier{from: user, to: rcpt, dialer: gomail.NewDialer(host, port, user, password)}
}

func (n *Notifier) message(req domain.ContactRequest) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", "Новая заявка с сайта MD Baku")
	m.SetBody("text/plain", fmt.Sprintf("Имя: %s\nТелефон: %s\nСообщение:\n%s\n", req.Name, req.Phone, req.Message))
	return m
}

func (n *Notifier) NotifyContact(_ context.Context, req domain.ContactRequest) error {
	if len(n.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	if err := n.dialer.DialAndSend(n.message(req)); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	return nil
}
