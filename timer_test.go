package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTimerFires(t *testing.T) {
	fired := make(chan struct{})
	schedule(10*time.Millisecond, func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestRoundTimerCancelPreventsFire(t *testing.T) {
	fired := make(chan struct{}, 1)
	rt := schedule(50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	rt.cancel()

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRoundTimerCancelIdempotent(t *testing.T) {
	rt := schedule(time.Hour, func() {})
	rt.cancel()
	rt.cancel()

	// Cancelling after a fire is also fine.
	fired := make(chan struct{})
	rt = schedule(time.Millisecond, func() {
		close(fired)
	})
	<-fired
	rt.cancel()

	// And so is a nil handle.
	var nilTimer *roundTimer
	assert.NotPanics(t, func() {
		nilTimer.cancel()
	})
}
