package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/repository/mock"
)

func TestNewScheduler(t *testing.T) {
	log, _ := test.NewNullLogger()
	stg := mock.NewStoreMock()

	s, err := NewScheduler("@hourly", stg, log)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s, err = NewScheduler("*/5 * * * *", stg, log)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s, err = NewScheduler(Disabled, stg, log)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Entries())

	_, err = NewScheduler("every tuesday", stg, log)
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := NewScheduler("@daily", mock.NewStoreMock(), log)
	require.NoError(t, err)
	s.Start()
	s.Stop(context.Background())
}

func TestScheduler_Run(t *testing.T) {
	log, hook := test.NewNullLogger()
	stg := mock.NewStoreMock(models.CreditRecord{ID: 1}, models.CreditRecord{ID: 2})
	s, err := NewScheduler(Disabled, stg, log)
	require.NoError(t, err)

	s.Run(context.Background())
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, int64(2), entry.Data["records"])
	assert.Equal(t, 2, stg.Calls)

	stg.Err = errors.New("disk full")
	s.Run(context.Background())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
