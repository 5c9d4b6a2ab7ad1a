package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/creatorkart/CreatorKart/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// Sender is the SMTP-backed notification gateway handed to the job queue.
type Sender struct{}

// NewSender creates the SMTP notification sender.
func NewSender() *Sender {
	return &Sender{}
}

// SendProposalLink mails the single-use proposal link to the client.
func (s *Sender) SendProposalLink(email, clientName, token string, expiresAt time.Time) error {
	baseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	link := fmt.Sprintf("%s/proposals/view/%s", baseURL, token)

	greeting := "Hello"
	if clientName != "" {
		greeting = fmt.Sprintf("Hello %s", clientName)
	}

	body := fmt.Sprintf(`<p>%s,</p>
<p>your proposal is ready for review. Open the link below to approve or decline the individual positions:</p>
<p><a href="%s">%s</a></p>
<p>The link can be used once and expires on %s.</p>`,
		greeting, link, link, expiresAt.UTC().Format("02 Jan 2006"))

	return SendMail(email, "Your proposal is ready for review", body)
}
