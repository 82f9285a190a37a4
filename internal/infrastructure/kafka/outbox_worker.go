package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

const (
	notificationWait = 30 * time.Second
	reconnectBase    = time.Second
	reconnectMax     = 30 * time.Second
	markTimeout      = 5 * time.Second
)

// OutboxWorker публикует события outbox в Kafka. Он просыпается по NOTIFY
// из PostgreSQL и, на случай потерянных уведомлений, по таймеру.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	cfg       *cfg.OutboxCfg
	dbConnStr string

	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.OutboxCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		cfg:       cfg,
		dbConnStr: dbConnStr,
		cancel:    func() {},
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и дожидается завершения горутин.
func (w *OutboxWorker) Stop(_ context.Context) error {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})

	return nil
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	timer := time.NewTimer(jitter.Duration(w.cfg.PollInterval, jitter.DefaultJitter))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-timer.C:
			w.drain(ctx)
			timer.Reset(jitter.Duration(w.cfg.PollInterval, jitter.DefaultJitter))
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := c.Exec(ctx, "LISTEN "+pgx.Identifier{w.cfg.NotifyChannel}.Sanitize()); err != nil {
			_ = c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("Subscribed to '%s' channel", w.cfg.NotifyChannel)
		return nil
	}

	for attempt := 0; ; attempt++ {
		if conn == nil {
			if err := connect(); err != nil {
				delay := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
				w.logger.Warnf("LISTEN connect failed: %v. Retrying in %s", err, delay)
				if !sleep(ctx, delay) {
					return
				}
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(ctx, notificationWait)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if ctx.Err() != nil {
			_ = conn.Close(context.Background())
			return
		}

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			w.logger.Warnf("LISTEN connection lost: %v. Reconnecting...", err)
			_ = conn.Close(context.Background())
			conn = nil
			continue
		}

		if notif.Channel == w.cfg.NotifyChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// processBatch отправляет одну пачку событий. hasMore == true, если пачка
// была полной и целиком ушла, то есть в очереди, вероятно, есть ещё события.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize)
	if err != nil {
		return false, err
	}

	failed := 0
	for _, event := range events {
		if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event)); err != nil {
			failed++
			retry := isRetryableError(err)
			w.logger.Warnf("Failed to publish outbox event %s (%s), retry: %t: %v", event.EventID, event.EventType, retry, err)

			w.markAsFailed(ctx, event.ID, retry)
			continue
		}

		w.markAsProcessed(ctx, event.ID)
	}

	return failed == 0 && len(events) == w.cfg.BatchSize, nil
}

// Статус события сохраняется и после отмены ctx воркера.
func (w *OutboxWorker) markAsProcessed(ctx context.Context, id int64) {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if err := w.repo.MarkAsProcessed(markCtx, id); err != nil {
		w.logger.Warnf("mark processed failed: %v", err)
	}
}

func (w *OutboxWorker) markAsFailed(ctx context.Context, id int64, retry bool) {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if err := w.repo.MarkAsFailed(markCtx, id, retry); err != nil {
		w.logger.Warnf("mark failed failed: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Отмена приходит при остановке воркера, само событие при этом исправно.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var kErr kafka.Error
	if errors.As(err, &kErr) {
		return kErr.Temporary()
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}
