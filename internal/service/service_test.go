package service

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

type recordingNotifier struct {
	created []models.CreditRecord
	deleted []models.CreditRecord
}

func (n *recordingNotifier) CreditCreated(_ context.Context, rec models.CreditRecord) {
	n.created = append(n.created, rec)
}

func (n *recordingNotifier) CreditDeleted(_ context.Context, rec models.CreditRecord) {
	n.deleted = append(n.deleted, rec)
}

func record(id int64, name string) models.CreditRecord {
	return models.CreditRecord{
		ID:                id,
		CompanyName:       name,
		Address:           "Test Address",
		RegistrationDate:  "2023-01-01",
		NumberOfEmployees: 100,
		RaisedCapital:     1000000,
		Turnover:          500000,
		NetProfit:         200000,
		ContactNumber:     "1234567890",
		ContactEmail:      "test@test.com",
		CompanyWebsite:    "http://www.test.com",
		LoanAmount:        500000,
		LoanInterest:      0.05,
		AccountStatus:     true,
	}
}

func newService(seed ...models.CreditRecord) (*Service, *mock.StoreMock, *recordingNotifier, *test.Hook) {
	log, hook := test.NewNullLogger()
	stg := mock.NewStoreMock(seed...)
	n := &recordingNotifier{}
	return NewService(stg, log, n), stg, n, hook
}

func TestService_CreateCredit(t *testing.T) {
	tests := []struct {
		name    string
		seed    []models.CreditRecord
		input   models.CreditRecord
		wantErr error
	}{
		{name: "created", input: record(1, "Test 2")},
		{name: "auto id", seed: []models.CreditRecord{record(4, "Other")}, input: record(0, "Test 2")},
		{name: "duplicate name", seed: []models.CreditRecord{record(1, "Test 2")}, input: record(2, "Test 2"), wantErr: ErrDuplicateName},
		{name: "duplicate id", seed: []models.CreditRecord{record(1, "Other")}, input: record(1, "Test 2"), wantErr: ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stg, n, _ := newService(tt.seed...)
			got, err := svc.CreateCredit(context.Background(), tt.input)
			count, _ := stg.Count(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Equal(t, int64(len(tt.seed)), count, "store must not change")
				assert.Empty(t, n.created)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.input.CompanyName, got.CompanyName)
			assert.Equal(t, []models.CreditRecord{*got}, n.created)

			stored, err := svc.GetCredit(context.Background(), models.Key{ID: got.ID})
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestService_GetCredit(t *testing.T) {
	svc, _, _, hook := newService(record(3, "Test 3"))

	got, err := svc.GetCredit(context.Background(), models.Key{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Test 3", got.CompanyName)

	got, err = svc.GetCredit(context.Background(), models.Key{Name: "Test 3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)

	_, err = svc.GetCredit(context.Background(), models.Key{ID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, hook.AllEntries(), "not found is not logged as an error")
}

func TestService_UpdateCredit(t *testing.T) {
	svc, _, _, _ := newService(record(1, "Test 2"))

	name := "Renamed"
	got, err := svc.UpdateCredit(context.Background(), models.Key{ID: 1}, models.CreditPatch{CompanyName: &name})
	require.NoError(t, err)
	want := record(1, "Renamed")
	assert.Equal(t, &want, got)

	_, err = svc.UpdateCredit(context.Background(), models.Key{ID: 999}, models.CreditPatch{CompanyName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteCredit(t *testing.T) {
	svc, _, n, _ := newService(record(1, "Test 2"))

	require.NoError(t, svc.DeleteCredit(context.Background(), models.Key{ID: 1}))
	assert.Equal(t, []models.CreditRecord{record(1, "Test 2")}, n.deleted)

	assert.ErrorIs(t, svc.DeleteCredit(context.Background(), models.Key{ID: 1}), ErrNotFound)
	assert.Len(t, n.deleted, 1)
}

func TestService_StorageError(t *testing.T) {
	svc, stg, _, hook := newService()
	stg.Err = errors.New("oops")

	_, err := svc.ListCredits(context.Background())
	assert.EqualError(t, err, "oops")
	_, err = svc.CreateCredit(context.Background(), record(1, "x"))
	assert.EqualError(t, err, "oops")
	assert.False(t, errors.Is(err, ErrService))
	assert.Error(t, svc.Healthy(context.Background()))

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestNewService_NilNotifier(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewService(mock.NewStoreMock(), log, nil)
	_, err := svc.CreateCredit(context.Background(), record(1, "x"))
	assert.NoError(t, err)
	assert.NoError(t, svc.DeleteCredit(context.Background(), models.Key{ID: 1}))
}
