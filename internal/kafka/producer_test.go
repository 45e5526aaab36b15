package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitClosed(t *testing.T, p *Producer) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not shut down")
	}
}

func TestProducerCloseThenCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	p.Start(ctx)

	p.Close()
	cancel()
	waitClosed(t, p)
}

func TestProducerCancelThenClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	p.Start(ctx)

	cancel()
	// the loop may already have closed the inbox on its side; this must
	// neither panic nor hang
	p.Close()
	waitClosed(t, p)
}

func TestProducerCloseIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	p.Start(ctx)

	p.Close()
	require.NotPanics(t, func() { p.Close() })
	waitClosed(t, p)
}
