package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrRetriesExhausted возвращается, когда все попытки завершились повторяемой ошибкой
	ErrRetriesExhausted = errors.New("retry: retries exhausted")
	// ErrWaitTooLong возвращается, когда upstream просит ждать дольше MaxWait
	ErrWaitTooLong = errors.New("retry: requested wait exceeds limit")
)

const (
	DefaultMaxRetries        = 5
	DefaultInitialBackoff    = 1000 * time.Millisecond
	DefaultBackoffMultiplier = 2.0
	DefaultMaxWait           = 30 * time.Second

	maxBackoffInterval = 10 * time.Minute
)

// Policy параметры повторов
// MaxRetries - общее число попыток, включая первую
// MaxWait - верхняя граница одного ожидания; запрос upstream ждать дольше завершает повторы сразу
type Policy struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	BackoffMultiplier float64
	MaxWait           time.Duration
}

// DefaultPolicy политика по умолчанию: 5 попыток, 1с, удвоение
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
		MaxWait:           DefaultMaxWait,
	}
}

// Normalize подставляет значения по умолчанию для незаданных параметров
func (p Policy) Normalize() Policy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = DefaultInitialBackoff
	}
	if p.BackoffMultiplier < 1 {
		p.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if p.MaxWait <= 0 {
		p.MaxWait = DefaultMaxWait
	}
	return p
}

// Classifier решает, стоит ли повторять вызов после ошибки
// wait > 0 - задержка, запрошенная upstream (например Retry-After), иначе берётся текущий backoff
type Classifier func(err error) (retryable bool, wait time.Duration)

// SleepFunc ожидание с учётом отмены контекста
type SleepFunc func(ctx context.Context, d time.Duration) error

// Observer получает уведомление о каждой запланированной повторной попытке
type Observer func(attempt int, wait time.Duration, err error)

// Retrier выполняет вызовы с экспоненциальным backoff
type Retrier struct {
	policy   Policy
	sleep    SleepFunc
	observer Observer
}

// Option настройка Retrier
type Option func(*Retrier)

// WithSleep подменяет функцию ожидания (используется в тестах)
func WithSleep(sleep SleepFunc) Option {
	return func(r *Retrier) {
		r.sleep = sleep
	}
}

// WithObserver добавляет наблюдателя за повторами
func WithObserver(observer Observer) Option {
	return func(r *Retrier) {
		r.observer = observer
	}
}

// New создаёт Retrier с указанной политикой
func New(policy Policy, opts ...Option) *Retrier {
	r := &Retrier{
		policy: policy.Normalize(),
		sleep:  Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy возвращает нормализованную политику
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do выполняет fn, повторяя её пока classify считает ошибку повторяемой
// После MaxRetries неудачных попыток возвращает ошибку, оборачивающую ErrRetriesExhausted и последнюю ошибку
func Do[T any](ctx context.Context, r *Retrier, fn func(ctx context.Context) (T, error), classify Classifier) (T, error) {
	var zero T

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.policy.InitialBackoff),
		backoff.WithMultiplier(r.policy.BackoffMultiplier),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(min(maxBackoffInterval, r.policy.MaxWait)),
		backoff.WithMaxElapsedTime(0),
	)

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		retryable, wait := classify(err)
		if !retryable {
			return zero, err
		}

		if attempt >= r.policy.MaxRetries {
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}

		// Backoff растёт на каждой попытке, даже если upstream указал своё время ожидания
		next := b.NextBackOff()
		if wait <= 0 {
			wait = next
		}
		if wait > r.policy.MaxWait {
			return zero, fmt.Errorf("%w: %s > %s: %w", ErrWaitTooLong, wait, r.policy.MaxWait, err)
		}

		if r.observer != nil {
			r.observer(attempt, wait, err)
		}

		if err := r.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// Sleep ждёт d или отмены контекста
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
