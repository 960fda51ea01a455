package poll

import (
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l := NewLocker()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("chat:1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if n := l.Len(); n != 0 {
		t.Errorf("Len() = %d after all unlocks, want 0", n)
	}
}

func TestLocker_IndependentKeys(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()
	<-done

	if n := l.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}
