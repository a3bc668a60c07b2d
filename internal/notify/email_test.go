package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/models"
)

func newTestSender(sendErr error) (*Sender, *[]*email.Email, *test.Hook) {
	log, hook := test.NewNullLogger()
	s := NewSender(&config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "587",
		SenderEmail: "credits@example.com",
		NotifyEmail: "ops@example.com",
	}, log)
	var mu sync.Mutex
	var sent []*email.Email
	s.send = func(e *email.Email) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, e)
		return sendErr
	}
	return s, &sent, hook
}

func TestSender_CreditCreated(t *testing.T) {
	s, sent, hook := newTestSender(nil)
	s.CreditCreated(context.Background(), models.CreditRecord{ID: 1, CompanyName: "Test 2", LoanAmount: 500000, LoanInterest: 0.05, AccountStatus: true})
	s.Wait()

	require.Len(t, *sent, 1)
	e := (*sent)[0]
	assert.Equal(t, "credits@example.com", e.From)
	assert.Equal(t, []string{"ops@example.com"}, e.To)
	assert.Equal(t, "Credit information created: Test 2", e.Subject)
	assert.Contains(t, string(e.Text), "ID: 1\n")
	assert.Contains(t, string(e.Text), "Loan amount: 500000.00\n")
	assert.Contains(t, string(e.Text), "Loan interest: 0.05\n")
	assert.Contains(t, string(e.Text), "Account active: true\n")
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestSender_CreditDeletedFailure(t *testing.T) {
	s, sent, hook := newTestSender(errors.New("connection refused"))
	s.CreditDeleted(context.Background(), models.CreditRecord{ID: 2, CompanyName: "Gone"})
	s.Wait()

	require.Len(t, *sent, 1)
	assert.Equal(t, "Credit information deleted: Gone", (*sent)[0].Subject)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
