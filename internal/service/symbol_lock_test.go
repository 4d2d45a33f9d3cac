package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSymbolLocksExcludeSameSymbol(t *testing.T) {
	var l symbolLocks
	unlock := l.lock("AAPL")

	acquired := make(chan struct{})
	go func() {
		u := l.lock("AAPL")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(20 * time.Millisecond):
	}

	// A different symbol is independent.
	other := l.lock("MSFT")
	other()

	unlock()
	<-acquired
	assert.Zero(t, l.size())
}

func TestSymbolLocksCleanup(t *testing.T) {
	var l symbolLocks
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.lock("X")()
		}()
	}
	wg.Wait()
	assert.Zero(t, l.size())
}
