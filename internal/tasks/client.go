package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// TaskClient enqueues background work. API handlers and event hooks go
// through this instead of touching asynq directly.
type TaskClient struct {
	client      *asynq.Client
	redisClient *redis.Client
	logger      *logger.Logger
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// RedisClient exposes the shared connection for the rate limiter.
func (c *TaskClient) RedisClient() *redis.Client {
	return c.redisClient
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	})

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueOrderConfirmation queues the post-payment confirmation email.
func (c *TaskClient) EnqueueOrderConfirmation(order *models.Order) error {
	payload, err := json.Marshal(OrderEmailPayload{OrderID: order.ID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeOrderConfirmationEmail, payload,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryMax),
		asynq.Timeout(TimeoutShort),
	)
	if _, err := c.client.Enqueue(task); err != nil {
		return c.logger.Error("Failed to enqueue confirmation email for %s", err, order.OrderNumber)
	}
	c.logger.Info("Queued confirmation email for %s", order.OrderNumber)
	return nil
}

// EnqueueStatusUpdate queues the email customers get when their order moves.
func (c *TaskClient) EnqueueStatusUpdate(order *models.Order, status models.OrderStatus) error {
	payload, err := json.Marshal(OrderEmailPayload{OrderID: order.ID, Status: string(status)})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeStatusUpdateEmail, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if _, err := c.client.Enqueue(task); err != nil {
		return c.logger.Error("Failed to enqueue status email for %s", err, order.OrderNumber)
	}
	return nil
}

// EnqueueCateringAck queues the acknowledgement for a new catering inquiry.
func (c *TaskClient) EnqueueCateringAck(booking *models.CateringBooking) error {
	payload, err := json.Marshal(CateringEmailPayload{BookingID: booking.ID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeCateringReceivedEmail, payload,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if _, err := c.client.Enqueue(task); err != nil {
		return c.logger.Error("Failed to enqueue catering ack %s", err, booking.ID)
	}
	return nil
}
