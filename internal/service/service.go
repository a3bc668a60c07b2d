package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/repository"
)

// Errors exported by the service package
var (
	ErrService       = errors.New("service error")
	ErrNotFound      = fmt.Errorf("%w: credit information not found", ErrService)
	ErrDuplicateName = fmt.Errorf("%w: entry with this company name already exists", ErrService)
	ErrDuplicateID   = fmt.Errorf("%w: entry with this id already exists", ErrService)
)

// Notifier is told about records entering and leaving the store
type Notifier interface {
	CreditCreated(ctx context.Context, rec models.CreditRecord)
	CreditDeleted(ctx context.Context, rec models.CreditRecord)
}

type noopNotifier struct{}

func (noopNotifier) CreditCreated(context.Context, models.CreditRecord) {}
func (noopNotifier) CreditDeleted(context.Context, models.CreditRecord) {}

// Service handles business logic
type Service struct {
	repo     repository.CreditStore
	log      *logrus.Logger
	notifier Notifier
}

// NewService initializes a new service. A nil notifier disables notifications.
func NewService(repo repository.CreditStore, log *logrus.Logger, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{repo: repo, log: log, notifier: notifier}
}

// translate maps repository errors onto service errors, leaving others wrapped
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNameExists):
		return ErrDuplicateName
	case errors.Is(err, repository.ErrIDExists):
		return ErrDuplicateID
	default:
		return err
	}
}

// ListCredits returns all stored credit records
func (s *Service) ListCredits(ctx context.Context) ([]models.CreditRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to list credit info")
		return nil, err
	}
	return records, nil
}

// GetCredit returns the record addressed by key
func (s *Service) GetCredit(ctx context.Context, key models.Key) (*models.CreditRecord, error) {
	rec, err := s.repo.Get(ctx, key)
	if err != nil {
		err = translate(err)
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("key", key.String()).Error("failed to get credit info")
		}
		return nil, err
	}
	return rec, nil
}

// CreateCredit stores a new record after checking its company name and id are free
func (s *Service) CreateCredit(ctx context.Context, rec models.CreditRecord) (*models.CreditRecord, error) {
	if err := s.repo.Create(ctx, &rec); err != nil {
		err = translate(err)
		entry := s.log.WithError(err).WithFields(logrus.Fields{"company_name": rec.CompanyName, "id": rec.ID})
		if errors.Is(err, ErrService) {
			entry.Warn("credit info rejected")
		} else {
			entry.Error("failed to create credit info")
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"company_name": rec.CompanyName, "id": rec.ID}).Info("credit info created")
	s.notifier.CreditCreated(ctx, rec)
	return &rec, nil
}

// UpdateCredit applies the supplied fields of patch to the record addressed by key
func (s *Service) UpdateCredit(ctx context.Context, key models.Key, patch models.CreditPatch) (*models.CreditRecord, error) {
	rec, err := s.repo.Update(ctx, key, patch)
	if err != nil {
		err = translate(err)
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("key", key.String()).Error("failed to update credit info")
		}
		return nil, err
	}
	s.log.WithField("id", rec.ID).Info("credit info updated")
	return rec, nil
}

// DeleteCredit removes the record addressed by key
func (s *Service) DeleteCredit(ctx context.Context, key models.Key) error {
	rec, err := s.repo.Delete(ctx, key)
	if err != nil {
		err = translate(err)
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("key", key.String()).Error("failed to delete credit info")
		}
		return err
	}
	s.log.WithFields(logrus.Fields{"company_name": rec.CompanyName, "id": rec.ID}).Info("credit info deleted")
	s.notifier.CreditDeleted(ctx, *rec)
	return nil
}

// Healthy reports whether the store answers
func (s *Service) Healthy(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
