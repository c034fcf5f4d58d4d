package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event любое событие в системе.
type Event interface {
	Name() string
}

// Listener обработчик событий.
type Listener func(ctx context.Context, event Event) error

type Option func(*Bus)

// WithTimeout ограничивает время работы одного обработчика.
func WithTimeout(d time.Duration) Option {
	return func(b *Bus) { b.timeout = d }
}

type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	inline    map[string][]Listener
	inflight  sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger, opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]Listener),
		inline:    make(map[string][]Listener),
		timeout:   30 * time.Second,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
	b.mu.Unlock()
}

// SubscribeSync регистрирует обработчик, который выполняется внутри Publish
// до возврата управления вызывающему.
func (b *Bus) SubscribeSync(eventName string, listener Listener) {
	b.mu.Lock()
	b.inline[eventName] = append(b.inline[eventName], listener)
	b.mu.Unlock()
}

// Publish сначала выполняет синхронных подписчиков, затем запускает остальных в фоне.
// Ошибки и паники подписчиков только логируются. Нулевая шина молча игнорирует события.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}
	name := event.Name()

	b.mu.RLock()
	inline := append([]Listener(nil), b.inline[name]...)
	subscribers := append([]Listener(nil), b.listeners[name]...)
	b.mu.RUnlock()

	for _, listener := range inline {
		b.run(context.WithoutCancel(ctx), name, listener, event)
	}
	for _, listener := range subscribers {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			// запрос к этому моменту уже может быть завершён, поэтому контекст свой
			b.run(context.Background(), name, l, event)
		}(listener)
	}
}

func (b *Bus) run(parent context.Context, name string, listener Listener, event Event) {
	ctx, cancel := context.WithTimeout(parent, b.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Паника в обработчике события", zap.String("event", name), zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if err := listener(ctx, event); err != nil {
		b.logger.Error("Ошибка в обработчике события", zap.String("event", name), zap.Error(err))
	}
}

// Wait дожидается завершения запущенных обработчиков, вызывается при остановке сервера.
func (b *Bus) Wait() {
	if b == nil {
		return
	}
	b.inflight.Wait()
}
