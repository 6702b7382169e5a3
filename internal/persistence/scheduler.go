package persistence

import (
	"errors"
	"fvm/internal/persistence/interfaces"
	"fvm/internal/providers"
	"fvm/internal/structures"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/roylee0704/gron"
)

const persistRetries = 3

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   VersionedStoreInterface
	keeper  interfaces.StateKeeper
	cron    *gron.Cron
	opsMu   sync.Mutex
	backoff func() backoff.BackOff
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Storage.BackupInterval

	if interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.store.AutoBackup(); err != nil {
				s.logger.Errorf(providers.TypeStorage, "Auto backup failed: %s", err)
				return
			}
			s.logger.Infof(providers.TypeStorage, "Auto backup completed")
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.keeper.Restore()
}

// Persist flushes the live state, retrying transient failures. A full
// store is not retried.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStorage, "Persisting state...")
	op := func() error {
		err := s.keeper.Flush()
		if errors.Is(err, ErrQuotaExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		s.logger.Warnf(providers.TypeStorage, "Persist failed, retrying in %s: %s", next, err)
	}

	err := backoff.RetryNotify(op, backoff.WithMaxRetries(s.backoff(), persistRetries), notify)
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store VersionedStoreInterface, keeper interfaces.StateKeeper) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		keeper:  keeper,
		backoff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return b
}
