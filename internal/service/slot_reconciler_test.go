package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-booking-core/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orphanSlotRepo models reserved slots with a last-touched time and an active-booking flag
type orphanSlotRepo struct {
	mu        sync.Mutex
	reserved  map[int64]time.Time
	hasActive map[int64]bool
	released  []int64
}

func (r *orphanSlotRepo) isOrphan(id int64, olderThan time.Time) bool {
	touched, ok := r.reserved[id]
	return ok && touched.Before(olderThan) && !r.hasActive[id]
}

func (r *orphanSlotRepo) GetByID(context.Context, int64) (*entity.Slot, error) { return nil, nil }
func (r *orphanSlotRepo) FindByDoctorAndDate(context.Context, int64, time.Time) ([]entity.Slot, error) {
	return nil, nil
}
func (r *orphanSlotRepo) TryReserve(context.Context, int64) (bool, error) { return false, nil }
func (r *orphanSlotRepo) Release(context.Context, int64) (bool, error)    { return false, nil }

func (r *orphanSlotRepo) FindOrphanedReservations(_ context.Context, olderThan time.Time, afterID int64, limit int) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id := afterID + 1; id <= 5000 && len(ids) < limit; id++ {
		if r.isOrphan(id, olderThan) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *orphanSlotRepo) ReleaseOrphaned(_ context.Context, id int64, olderThan time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isOrphan(id, olderThan) {
		return false, nil
	}
	delete(r.reserved, id)
	r.released = append(r.released, id)
	return true, nil
}

func newReconcilerFixture(t *testing.T) (*SlotReconciler, *orphanSlotRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &orphanSlotRepo{reserved: map[int64]time.Time{}, hasActive: map[int64]bool{}}
	r := NewSlotReconciler(repo, client, quietLogger(), 2*time.Minute, 0)
	return r, repo, mr
}

func TestSlotReconciler_RunOnce(t *testing.T) {
	r, repo, mr := newReconcilerFixture(t)
	now := time.Now()

	// 1 is orphaned, 2 has its booking, 3 is a reservation still in flight
	repo.reserved[1] = now.Add(-time.Hour)
	repo.reserved[2] = now.Add(-time.Hour)
	repo.hasActive[2] = true
	repo.reserved[3] = now.Add(-10 * time.Second)

	released, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, []int64{1}, repo.released)
	assert.False(t, mr.Exists(ReconcileLockKey), "lock is released after the sweep")
}

func TestSlotReconciler_Batches(t *testing.T) {
	r, repo, _ := newReconcilerFixture(t)
	stale := time.Now().Add(-time.Hour)
	for id := int64(1); id <= reconcileBatchSize+20; id++ {
		repo.reserved[id] = stale
	}

	released, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reconcileBatchSize+20, released)
}

func TestSlotReconciler_SkipsWhenLockHeld(t *testing.T) {
	r, repo, mr := newReconcilerFixture(t)
	repo.reserved[1] = time.Now().Add(-time.Hour)
	require.NoError(t, mr.Set(ReconcileLockKey, "other-instance"))

	released, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, released)
	assert.Empty(t, repo.released)

	got, err := mr.Get(ReconcileLockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-instance", got, "foreign lock must survive")
}

func TestSlotReconciler_StartStop(t *testing.T) {
	r, _, _ := newReconcilerFixture(t)
	r.interval = 10 * time.Millisecond

	r.Start()
	r.Start()
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop()
}
