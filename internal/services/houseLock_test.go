package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHouseLockSerializesSameHouse(t *testing.T) {
	service := NewHouseLockService()
	houseID := uuid.New()

	counter := 0
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := service.Lock(houseID)
			defer unlock()
			counter++
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestHouseLockReleasesEntry(t *testing.T) {
	service := NewHouseLockService()
	houseID := uuid.New()

	unlock := service.Lock(houseID)
	assert.Len(t, service.locks, 1)

	unlock()
	assert.Empty(t, service.locks, "released locks must not leak map entries")
}

func TestHouseLockIndependentHouses(t *testing.T) {
	service := NewHouseLockService()

	unlockA := service.Lock(uuid.New())
	defer unlockA()

	// A held lock on one house must not block another house.
	done := make(chan struct{})
	go func() {
		unlockB := service.Lock(uuid.New())
		unlockB()
		close(done)
	}()

	<-done
}
