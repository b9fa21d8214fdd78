package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rental-backoffice/internal/logger"
)

var (
	ErrMailDisabled = errors.New("mail delivery is not configured")
	ErrNoRecipient  = errors.New("customer has no email address")
)

// ContractMail describes one contract delivery
type ContractMail struct {
	To           string
	ToName       string
	RentalNumber string
	FileName     string
	PDF          []byte
}

type ContractMailer interface {
	SendContract(ctx context.Context, m ContractMail) error
}

type sendGridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
	endpoint  string // overrides the SendGrid API URL in tests
}

// NewSendGridMailer returns a mailer backed by the SendGrid v3 API.
// With an empty apiKey every send fails with ErrMailDisabled.
func NewSendGridMailer(apiKey, fromEmail, fromName string) ContractMailer {
	return &sendGridMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridMailer) SendContract(ctx context.Context, m ContractMail) error {
	if s.apiKey == "" {
		return ErrMailDisabled
	}
	if m.To == "" {
		return ErrNoRecipient
	}

	client := sendgrid.NewSendClient(s.apiKey)
	if s.endpoint != "" {
		client.BaseURL = s.endpoint
	}

	logger.ExternalServiceCall("sendgrid", "SendContract", "rentalNumber", m.RentalNumber)
	response, err := client.SendWithContext(ctx, s.message(m))
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "SendContract", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "SendContract", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "SendContract", nil, "status", response.StatusCode)
	return nil
}

func (s *sendGridMailer) message(m ContractMail) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(m.ToName, m.To)

	subject := fmt.Sprintf("Contratto di noleggio %s", m.RentalNumber)
	plainText := fmt.Sprintf("Gentile %s,\n\nin allegato trova il contratto di noleggio n. %s.\n\nCordiali saluti,\n%s",
		m.ToName, m.RentalNumber, s.fromName)

	message := mail.NewSingleEmail(from, subject, to, plainText, "")

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(m.PDF))
	attachment.SetType("application/pdf")
	attachment.SetFilename(m.FileName)
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)

	return message
}
