package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
)

func TestEndpoint_DeliversInOrderWithSender(t *testing.T) {
	net := NewNetwork(8)
	a := net.Endpoint(100)
	b := net.Endpoint(200)
	defer a.Close()
	defer b.Close()

	ctx := context.Background()
	kinds := []domain.Kind{domain.KindBitOne, domain.KindBitZero, domain.KindEnd}
	for _, k := range kinds {
		if err := a.Notify(ctx, 200, k); err != nil {
			t.Fatalf("Notify(%s) error = %v", k, err)
		}
	}

	for _, want := range kinds {
		got := <-b.Notifications()
		if got.Kind != want || got.From != 100 {
			t.Errorf("got %+v, want {%s 100}", got, want)
		}
	}
}

func TestEndpoint_UnknownPeer(t *testing.T) {
	net := NewNetwork(1)
	a := net.Endpoint(1)
	defer a.Close()

	err := a.Notify(context.Background(), 2, domain.KindAck)
	if !errors.Is(err, domain.ErrUnknownPeer) {
		t.Errorf("Notify() error = %v, want ErrUnknownPeer", err)
	}
}

func TestEndpoint_CloseClosesQueueAndRejectsNotify(t *testing.T) {
	net := NewNetwork(1)
	a := net.Endpoint(1)
	b := net.Endpoint(2)
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := <-a.Notifications(); ok {
		t.Error("queue should be closed")
	}
	if err := a.Notify(context.Background(), 2, domain.KindAck); !errors.Is(err, domain.ErrTransportClosed) {
		t.Errorf("Notify() after Close error = %v, want ErrTransportClosed", err)
	}
	if err := b.Notify(context.Background(), 1, domain.KindAck); !errors.Is(err, domain.ErrUnknownPeer) {
		t.Errorf("Notify() to closed peer error = %v, want ErrUnknownPeer", err)
	}
}

func TestEndpoint_FullQueueHonorsContext(t *testing.T) {
	net := NewNetwork(1)
	a := net.Endpoint(1)
	b := net.Endpoint(2)
	defer a.Close()
	defer b.Close()

	if err := a.Notify(context.Background(), 2, domain.KindBitOne); err != nil {
		t.Fatalf("first Notify() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Notify(ctx, 2, domain.KindBitOne); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Notify() on full queue error = %v, want DeadlineExceeded", err)
	}
}

func TestEndpoint_CloseUnblocksPendingSender(t *testing.T) {
	net := NewNetwork(1)
	a := net.Endpoint(1)
	b := net.Endpoint(2)
	defer a.Close()

	if err := a.Notify(context.Background(), 2, domain.KindBitOne); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Notify(context.Background(), 2, domain.KindBitOne)
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, domain.ErrUnknownPeer) {
			t.Errorf("pending Notify() error = %v, want ErrUnknownPeer", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pending Notify() did not return after Close")
	}
}
