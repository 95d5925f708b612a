package rabbit

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestNew_EmptyDSN(t *testing.T) {
	if _, err := New(context.Background(), "", nil); !errors.Is(err, ErrEmptyDSN) {
		t.Fatalf("err = %v, want ErrEmptyDSN", err)
	}
}

func TestChannel_NotConnected(t *testing.T) {
	r := &RabbitMQ{}

	if !r.IsConnectionClosed() {
		t.Fatal("client without a connection should report closed")
	}
	if ch, err := r.Channel(); ch != nil || !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Channel() = %v, %v; want nil, ErrNotConnected", ch, err)
	}
}

func TestChannel_ConcurrentWithClose(t *testing.T) {
	r := &RabbitMQ{}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_, _ = r.Channel()
			_ = r.IsConnectionClosed()
		})
		wg.Go(func() {
			if err := r.Close(context.Background()); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
	wg.Wait()

	if _, err := r.Channel(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected after Close", err)
	}
}
