package persist

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func countingSaver() (*int64, Saver) {
	var n int64
	return &n, func(data []byte) error {
		atomic.AddInt64(&n, 1)
		return nil
	}
}

func staticSource(data []byte) Source {
	return func() ([]byte, error) { return data, nil }
}

func TestBurstCoalescesToOneSave(t *testing.T) {
	saves, saver := countingSaver()
	a := NewAutoSaver(30*time.Millisecond, staticSource([]byte("doc")), saver)
	defer a.Stop()

	for i := 0; i < 10; i++ {
		a.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	if got := atomic.LoadInt64(saves); got != 0 {
		t.Fatalf("saved during burst: %d", got)
	}

	deadline := time.After(time.Second)
	for atomic.LoadInt64(saves) == 0 {
		select {
		case <-deadline:
			t.Fatal("save never fired after quiet period")
		case <-time.After(5 * time.Millisecond):
		}
	}
	// Nothing else pending.
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt64(saves); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestFlushSavesImmediately(t *testing.T) {
	var got []byte
	a := NewAutoSaver(time.Hour, staticSource([]byte("payload")), func(data []byte) error {
		got = append([]byte(nil), data...)
		return nil
	})
	a.Trigger()
	a.Flush()
	if string(got) != "payload" {
		t.Fatalf("flush saved %q", got)
	}
}

func TestFlushWithoutTrigger(t *testing.T) {
	saves, saver := countingSaver()
	a := NewAutoSaver(time.Hour, staticSource(nil), saver)
	a.Flush()
	if atomic.LoadInt64(saves) != 1 {
		t.Error("flush must save even with no pending trigger")
	}
}

func TestStopCancelsPendingSave(t *testing.T) {
	saves, saver := countingSaver()
	a := NewAutoSaver(20*time.Millisecond, staticSource(nil), saver)
	a.Trigger()
	a.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt64(saves); got != 0 {
		t.Errorf("saves after Stop = %d, want 0", got)
	}
}

func TestRetriggersAfterSave(t *testing.T) {
	saves, saver := countingSaver()
	a := NewAutoSaver(10*time.Millisecond, staticSource(nil), saver)
	defer a.Stop()

	a.Trigger()
	time.Sleep(50 * time.Millisecond)
	a.Trigger()
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt64(saves); got != 2 {
		t.Errorf("saves = %d, want 2", got)
	}
}

func TestSourceErrorSkipsSaver(t *testing.T) {
	saves, saver := countingSaver()
	a := NewAutoSaver(time.Hour, func() ([]byte, error) {
		return nil, errors.New("serialize failed")
	}, saver)
	a.Flush()
	if atomic.LoadInt64(saves) != 0 {
		t.Error("saver called despite serialize failure")
	}
}
