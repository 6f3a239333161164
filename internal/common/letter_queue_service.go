package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"donatello/backend/internal/constants"
)

// LetterJob is one outbound email delivery request. It is enqueued strictly
// after the transaction that issued the token commits.
type LetterJob struct {
	Kind      constants.JobKind `json:"kind"`
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Token     string            `json:"token"`
	CreatedAt time.Time         `json:"created_at"`
}

// LetterQueue is the outbound job sink the services submit to.
type LetterQueue interface {
	Submit(ctx context.Context, job *LetterJob) error
}

// LetterQueueService provides the email job queue on Redis Streams.
type LetterQueueService struct {
	client *redis.Client
}

var _ LetterQueue = (*LetterQueueService)(nil)

func NewLetterQueueService(client *redis.Client) *LetterQueueService {
	return &LetterQueueService{client: client}
}

// Submit adds a letter job to the outbound stream.
// XADD stream * data <json>
func (s *LetterQueueService) Submit(ctx context.Context, job *LetterJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal letter job: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: constants.EmailLetterStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err = s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// Dequeue reads one letter job using the consumer group.
// Returns (job, messageID, error); a nil job means the block timed out.
func (s *LetterQueueService) Dequeue(ctx context.Context, consumerName string, blockTime time.Duration) (*LetterJob, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    constants.EmailLetterGroup,
		Consumer: consumerName,
		Streams:  []string{constants.EmailLetterStream, ">"}, // new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var job LetterJob
	if err := json.Unmarshal([]byte(dataStr), &job); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal letter job: %w", err)
	}

	return &job, msg.ID, nil
}

// Ack acknowledges successful processing of a message.
func (s *LetterQueueService) Ack(ctx context.Context, messageID string) error {
	return s.client.XAck(ctx, constants.EmailLetterStream, constants.EmailLetterGroup, messageID).Err()
}

// CreateConsumerGroup creates the letter consumer group if it doesn't exist.
// XGROUP CREATE stream group 0 MKSTREAM
func (s *LetterQueueService) CreateConsumerGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, constants.EmailLetterStream, constants.EmailLetterGroup, "0").Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// QueueLength returns the number of messages in the stream.
func (s *LetterQueueService) QueueLength(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, constants.EmailLetterStream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}
