package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DesignEventQueue      = "design.events"
	DesignEventRoutingKey = "design.events"
)

// Event types consumed by the notification module.
const (
	EventDesignUploaded     = "design.uploaded"
	EventDesignApproved     = "design.approved"
	EventDesignRejected     = "design.rejected"
	EventDesignNeedsChanges = "design.needs_changes"
	EventDesignFrozen       = "design.frozen"
	EventDesignUnfrozen     = "design.unfrozen"
	EventDesignDeleted      = "design.deleted"
)

// DesignEventMessage is the wire format for design workflow events.
// Publishing is fire-and-forget: a failed publish is logged by the
// caller and never fails the operation that produced it.
type DesignEventMessage struct {
	Type          string `json:"type"`
	FileID        string `json:"file_id"`
	ProjectID     string `json:"project_id"`
	Category      string `json:"category"`
	VersionNumber int    `json:"version_number"`
	ActorID       string `json:"actor_id"`
	Timestamp     int64  `json:"timestamp"`
}

type DesignEventService struct {
	channel *amqp.Channel
}

func InitDesignEventService(channel *amqp.Channel) *DesignEventService {
	if channel == nil {
		return nil
	}

	_, err := channel.QueueDeclare(
		DesignEventQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil
	}

	return &DesignEventService{channel: channel}
}

func (s *DesignEventService) Publish(ctx context.Context, msg DesignEventMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal design event: %w", err)
	}

	err = s.channel.PublishWithContext(ctx,
		"", // default exchange
		DesignEventRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish design event: %w", err)
	}

	return nil
}
