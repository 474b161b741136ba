package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

var (
	ErrJobExists       = errors.New("job already registered")
	ErrInvalidInterval = errors.New("job interval must be positive")
)

// Task периодическая задача обслуживания
type Task func(ctx context.Context)

// Scheduler планировщик фоновых задач обслуживания (очистка ограничителей и т.п.)
type Scheduler struct {
	logger    Logger
	scheduler *gocron.Scheduler
	jobs      map[string]*gocron.Job // имя задачи -> job
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler создает новый экземпляр планировщика
func NewScheduler(logger Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make(map[string]*gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Register добавляет задачу, выполняемую раз в every
// Первый запуск через every после старта; параллельные запуски одной задачи не допускаются
func (s *Scheduler) Register(name string, every time.Duration, task Task) error {
	if every <= 0 {
		return fmt.Errorf("%s: %w", name, ErrInvalidInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrJobExists)
	}

	job, err := s.scheduler.Every(every).WaitForSchedule().SingletonMode().Tag(name).Do(s.run, name, task)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.logger.Info("Scheduled job %s every %s", name, every)

	return nil
}

// RegisterPruner периодически очищает p
func (s *Scheduler) RegisterPruner(p Pruner, every time.Duration) error {
	return s.Register("prune:"+p.Name(), every, func(context.Context) {
		if removed := p.Prune(); removed > 0 {
			s.logger.Info("Pruned %d stale entries from %s", removed, p.Name())
		}
	})
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Starting maintenance scheduler")
	s.scheduler.StartAsync()
}

// Stop останавливает планировщик и отменяет контекст задач
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping maintenance scheduler")
	s.cancel()
	s.scheduler.Stop()
	s.logger.Info("Maintenance scheduler stopped")
}

// run вызывается gocron; паника задачи не должна останавливать планировщик
func (s *Scheduler) run(name string, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Job %s panicked: %v", name, rec)
		}
	}()

	if s.ctx.Err() != nil {
		return
	}
	task(s.ctx)
}
