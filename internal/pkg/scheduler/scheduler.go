package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rental-service/config"
	"rental-service/internal/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
)

const (
	TypeVerifyPendingPayment = "verify_pending_payment"

	queueDefault = "default"
)

type Scheduler struct {
	Log log.Logger
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (s *Scheduler) StartMonitoring(cfg *config.RedisConfig, port string) {
	ctx := context.Background()
	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/monitoring",
		RedisConnOpt: redisOpt(cfg),
	})

	mux := http.NewServeMux()
	mux.Handle(h.RootPath()+"/", h)

	err := http.ListenAndServe(":"+port, mux)
	s.Log.Error(ctx, "error start monitoring scheduler", err)
}

func (s *Scheduler) InitClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

func (s *Scheduler) InitInspector(cfg *config.RedisConfig) *asynq.Inspector {
	return asynq.NewInspector(redisOpt(cfg))
}

func (s *Scheduler) StartHandler(cfg *config.RedisConfig, concurrency int, taskTypes []string, handlerFunc []func(ctx context.Context, t *asynq.Task) error) {
	ctx := context.Background()
	srv := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queueDefault: 10,
			},
		},
	)
	mux := asynq.NewServeMux()

	for i, taskType := range taskTypes {
		mux = s.registerHandlers(mux, taskType, handlerFunc[i])
	}

	if err := srv.Run(mux); err != nil {
		s.Log.Error(ctx, "error start handler scheduler", err)
	}
}

func (s *Scheduler) registerHandlers(mux *asynq.ServeMux, typeTask string, handlerFunc func(ctx context.Context, t *asynq.Task) error) *asynq.ServeMux {
	mux.HandleFunc(typeTask, handlerFunc)
	return mux
}

// TaskQueue enqueues and removes delayed tasks.
type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload []byte, delay time.Duration) (string, error)
	Delete(ctx context.Context, taskID string) error
}

type asynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewTaskQueue(client *asynq.Client, inspector *asynq.Inspector) TaskQueue {
	return &asynqQueue{client: client, inspector: inspector}
}

func (q *asynqQueue) Enqueue(ctx context.Context, taskType string, payload []byte, delay time.Duration) (string, error) {
	task := asynq.NewTask(taskType, payload)
	info, err := q.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(5), asynq.Queue(queueDefault))
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return info.ID, nil
}

func (q *asynqQueue) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return nil
	}
	err := q.inspector.DeleteTask(queueDefault, taskID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}
