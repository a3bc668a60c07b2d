package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/models"
)

// Sender handles sending credit notifications via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
	wg     sync.WaitGroup
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// CreditCreated sends a notification about a newly stored record
func (s *Sender) CreditCreated(_ context.Context, rec models.CreditRecord) {
	s.dispatch(s.message("Credit information created", "A new credit information record was added.", rec))
}

// CreditDeleted sends a notification about a removed record
func (s *Sender) CreditDeleted(_ context.Context, rec models.CreditRecord) {
	s.dispatch(s.message("Credit information deleted", "A credit information record was removed.", rec))
}

// Wait blocks until every dispatched notification has been attempted
func (s *Sender) Wait() {
	s.wg.Wait()
}

func (s *Sender) message(subject, lead string, rec models.CreditRecord) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = fmt.Sprintf("%s: %s", subject, rec.CompanyName)

	var body strings.Builder
	body.WriteString(lead + "\n\n")
	fmt.Fprintf(&body, "ID: %d\n", rec.ID)
	fmt.Fprintf(&body, "Company: %s\n", rec.CompanyName)
	fmt.Fprintf(&body, "Registration date: %s\n", rec.RegistrationDate)
	fmt.Fprintf(&body, "Loan amount: %.2f\n", rec.LoanAmount)
	fmt.Fprintf(&body, "Loan interest: %g\n", rec.LoanInterest)
	fmt.Fprintf(&body, "Account active: %t\n", rec.AccountStatus)
	body.WriteString("\nCredit Information Service")
	e.Text = []byte(body.String())
	return e
}

// dispatch sends in the background; a failed send is only logged
func (s *Sender) dispatch(e *email.Email) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.send(e); err != nil {
			s.logger.Errorf("Failed to send email to %s: %v", strings.Join(e.To, ","), err)
			return
		}
		s.logger.Infof("Email sent to %s: %s", strings.Join(e.To, ","), e.Subject)
	}()
}
