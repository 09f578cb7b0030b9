package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestWaitForShutdownOnWorkerError(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	errChan := make(chan error, 2)
	errClosed := errors.New("x connection closed")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errChan <- errClosed
	}()

	saved := false
	go func() {
		defer wg.Done()
		<-ctx.Done()
		saved = true
		errChan <- ctx.Err()
	}()

	err := waitForShutdown(errChan, stop, &wg, zap.NewNop().Sugar())
	if !errors.Is(err, errClosed) {
		t.Errorf("err = %v, want %v", err, errClosed)
	}
	if !saved {
		t.Error("returned before the other worker finished")
	}
}

func TestWaitForShutdownOnCancel(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		errChan <- ctx.Err()
	}()

	stop()
	if err := waitForShutdown(errChan, stop, &wg, zap.NewNop().Sugar()); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
