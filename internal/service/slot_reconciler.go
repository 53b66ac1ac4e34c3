package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"clinic-booking-core/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Only one instance sweeps at a time
	ReconcileLockKey = "slot_reconciler:lock"

	reconcileBatchSize = 500
)

// releaseIfOwnerScript deletes the lock only if we still hold it
var releaseIfOwnerScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotReconciler reopens slots left reserved without a booking, which happens when a
// compensating release fails after a booking could not be stored.
//
// A slot qualifies once it has been unavailable for longer than the grace period and
// no active booking references it. The release re-checks both conditions in the same
// statement, so an in-flight booking is never stolen.
type SlotReconciler struct {
	slotRepo    repository.SlotRepository
	redisClient *redis.Client
	log         *logrus.Logger
	grace       time.Duration
	interval    time.Duration
	now         func() time.Time
	owner       string

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewSlotReconciler(
	slotRepo repository.SlotRepository,
	redisClient *redis.Client,
	log *logrus.Logger,
	grace, interval time.Duration,
) *SlotReconciler {
	host, _ := os.Hostname()
	return &SlotReconciler{
		slotRepo:    slotRepo,
		redisClient: redisClient,
		log:         log,
		grace:       grace,
		interval:    interval,
		now:         time.Now,
		owner:       fmt.Sprintf("%s:%d", host, os.Getpid()),
		stopChan:    make(chan struct{}),
	}
}

// Start runs a sweep every interval until Stop. A non-positive interval disables the loop.
func (s *SlotReconciler) Start() {
	if s.interval <= 0 || !s.started.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go s.loop()
	s.log.Infof("SlotReconciler started (interval=%v, grace=%v)", s.interval, s.grace)
}

// Stop gracefully shuts down the loop.
// Safe to call multiple times.
func (s *SlotReconciler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotReconciler stopped")
	}
}

func (s *SlotReconciler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Warnf("Slot reconciliation failed: %+v", err)
			}
			cancel()
		}
	}
}

// RunOnce performs one sweep in batches and returns how many slots were reopened.
// It returns (0, nil) when another instance holds the lock.
func (s *SlotReconciler) RunOnce(ctx context.Context) (int, error) {
	locked, err := s.redisClient.SetNX(ctx, ReconcileLockKey, s.owner, s.lockTTL()).Result()
	if err != nil {
		return 0, fmt.Errorf("acquire reconcile lock: %w", err)
	}
	if !locked {
		s.log.Debug("Slot reconciliation already running elsewhere, skipping")
		return 0, nil
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseIfOwnerScript.Run(unlockCtx, s.redisClient, []string{ReconcileLockKey}, s.owner).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to release reconcile lock: %+v", err)
		}
	}()

	olderThan := s.now().Add(-s.grace)
	var afterID int64
	released := 0

	for {
		ids, err := s.slotRepo.FindOrphanedReservations(ctx, olderThan, afterID, reconcileBatchSize)
		if err != nil {
			return released, fmt.Errorf("find orphaned reservations after %d: %w", afterID, err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			ok, err := s.slotRepo.ReleaseOrphaned(ctx, id, olderThan)
			if err != nil {
				return released, fmt.Errorf("release orphaned slot %d: %w", id, err)
			}
			if ok {
				released++
				s.log.WithField("slot_id", id).Warn("Released orphaned slot reservation")
			}
		}

		if len(ids) < reconcileBatchSize {
			break
		}
		afterID = ids[len(ids)-1]

		// Respect context cancellation
		select {
		case <-ctx.Done():
			return released, ctx.Err()
		default:
		}
	}

	if released > 0 {
		s.log.Infof("Slot reconciliation reopened %d slots", released)
	}
	return released, nil
}

func (s *SlotReconciler) lockTTL() time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return time.Minute
}
