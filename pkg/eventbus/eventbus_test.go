package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishCallsSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("ошибка подписчика не должна ломать публикацию")
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), pingEvent{})
		bus.Wait()
	})
}

func TestBus_ListenerPanicIsRecovered(t *testing.T) {
	bus := New(zap.NewNop(), WithTimeout(time.Second))
	var calls int32
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		panic("сломанный обработчик")
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		atomic.AddInt32(&calls, 1)
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), pingEvent{})
		bus.Wait()
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBus_SyncListenerRunsBeforePublishReturns(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32
	bus.SubscribeSync("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("ошибка логируется")
	})
	bus.SubscribeSync("ping", func(ctx context.Context, e Event) error {
		panic("сломанный обработчик")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() { bus.Publish(ctx, pingEvent{}) })

	// без Wait: синхронный подписчик уже отработал
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
