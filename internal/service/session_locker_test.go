package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestSessionLockerSerializesPerSession(t *testing.T) {
	l := NewSessionLocker()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(id)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestSessionLockerIndependentSessions(t *testing.T) {
	l := NewSessionLocker()
	a, b := uuid.New(), uuid.New()

	unlockA := l.Lock(a)
	defer unlockA()

	// A held lock on one session must not block another.
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock(b)
		unlockB()
		close(done)
	}()
	<-done
}
