package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/dmitrijs2005/keyguard/internal/common"
)

// SMTPNotifier sends mail through an authenticated SMTP relay.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPNotifier(host, port, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, username: username, password: password, from: from}
}

// sendMail is a test seam for smtp.SendMail.
var sendMail = smtp.SendMail

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.from, to, subject, body)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := net.JoinHostPort(n.host, n.port)
	if err := sendMail(addr, auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMail, err)
	}
	return nil
}
