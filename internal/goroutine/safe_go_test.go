package goroutine

import (
	"testing"
	"time"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	SafeGo(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("функция не была запущена")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	entered := make(chan struct{})
	SafeGo(func() {
		close(entered)
		panic("сбой фоновой задачи")
	})

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("функция не была запущена")
	}

	// Паника перехвачена, последующие горутины запускаются как обычно
	done := make(chan struct{})
	SafeGo(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("горутина после паники не была запущена")
	}
}
