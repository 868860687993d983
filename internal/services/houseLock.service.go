package services

import (
	"sync"

	"homerent/internal/logger"

	"github.com/google/uuid"
)

// HouseLockService serializes booking writes per house within this
// process. The partial unique index on bookings is the cross-process
// backstop; this lock keeps concurrent requests from ever reaching it
// in the common case.
type HouseLockService struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*houseLock
	log   logger.Logger
}

type houseLock struct {
	mu   sync.Mutex
	refs int
}

func NewHouseLockService() *HouseLockService {
	return &HouseLockService{
		locks: make(map[uuid.UUID]*houseLock),
		log:   logger.New("HouseLockService"),
	}
}

// Lock acquires the lock for the given house, blocking until it is
// free. The returned function releases it and must always be called.
func (s *HouseLockService) Lock(houseID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[houseID]
	if !ok {
		lock = &houseLock{}
		s.locks[houseID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, houseID)
		}
		s.mu.Unlock()
	}
}
