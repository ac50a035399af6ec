package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestGracefulShutdown_FunctionOrder проверяет порядок выполнения функций завершения
func TestGracefulShutdown_FunctionOrder(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	var order []string
	gs.AddShutdownFunc("postgres", func(ctx context.Context) error {
		order = append(order, "postgres")
		return nil
	})
	gs.AddShutdownFunc("redis", func(ctx context.Context) error {
		order = append(order, "redis")
		return nil
	})
	gs.AddShutdownFunc("http", func(ctx context.Context) error {
		order = append(order, "http")
		return nil
	})

	gs.shutdown()

	expected := []string{"http", "redis", "postgres"}
	if len(order) != len(expected) {
		t.Fatalf("Expected shutdown order %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Expected shutdown order %v, got %v", expected, order)
			break
		}
	}
}

// TestGracefulShutdown_ErrorHandling проверяет, что ошибка одного шага не прерывает остальные
func TestGracefulShutdown_ErrorHandling(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	called := map[string]bool{}
	gs.AddShutdownFunc("first", func(ctx context.Context) error {
		called["first"] = true
		return nil
	})
	gs.AddShutdownFunc("second", func(ctx context.Context) error {
		called["second"] = true
		return errors.New("close failed")
	})
	gs.AddShutdownFunc("third", func(ctx context.Context) error {
		called["third"] = true
		return nil
	})

	gs.shutdown()

	for _, name := range []string{"first", "second", "third"} {
		if !called[name] {
			t.Errorf("Shutdown function %q was not called", name)
		}
	}
}

// TestGracefulShutdown_Timeout проверяет, что функции получают контекст с дедлайном
func TestGracefulShutdown_Timeout(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 50*time.Millisecond)

	var ctxErr error
	gs.AddShutdownFunc("slow", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("Expected context with deadline")
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case <-time.After(time.Second):
		}
		return ctxErr
	})

	start := time.Now()
	gs.shutdown()

	if !errors.Is(ctxErr, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", ctxErr)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Shutdown took too long: %v", elapsed)
	}
}

// TestGracefulShutdown_WaitWithContext проверяет завершение по отмене контекста
func TestGracefulShutdown_WaitWithContext(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	called := false
	gs.AddShutdownFunc("http", func(ctx context.Context) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gs.WaitWithContext(ctx)
	}()

	cancel()

	select {
	case <-gs.Done():
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not complete")
	}
	wg.Wait()

	if !called {
		t.Error("Shutdown function was not called")
	}
}

// TestGracefulShutdown_Shutdown проверяет программный запуск завершения
func TestGracefulShutdown_Shutdown(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	go gs.Wait()

	finished := make(chan struct{})
	go func() {
		gs.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Shutdown() did not return")
	}
}
