package listeners

import (
	"context"

	"go.uber.org/zap"

	"fixtrack/internal/events"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	"fixtrack/pkg/eventbus"
)

type ReportCacheListener struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewReportCacheListener(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *ReportCacheListener {
	return &ReportCacheListener{cache: cache, logger: logger}
}

// Register подписывает сброс кеша синхронно: отчёт, запрошенный сразу после записи,
// уже строится по новому поколению.
func (l *ReportCacheListener) Register(bus *eventbus.Bus) {
	bus.SubscribeSync(events.OrderChangedEventName, l.handleOrderChanged)
	l.logger.Info("ReportCacheListener подписан на событие", zap.String("event", events.OrderChangedEventName))
}

func (l *ReportCacheListener) handleOrderChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderChangedEvent)
	if !ok {
		return nil
	}
	generation, err := l.cache.Incr(ctx, constants.ReportCacheGenerationKey)
	if err != nil {
		return err
	}
	l.logger.Debug("Кеш отчётов сброшен",
		zap.Uint64("orderID", e.OrderID),
		zap.String("action", e.Action),
		zap.Int64("generation", generation),
	)
	return nil
}
