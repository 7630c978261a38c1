// Package eventbridge publishes domain events to an AWS EventBridge bus so
// downstream dashboard consumers can react to writes. Publication is
// fire-and-forget: a failed put is logged, never propagated into the write
// path that triggered it.
package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"vault-backend/application/ports"
	"vault-backend/domain/events"
)

// EventBridgeAPI is the subset of the EventBridge client the publisher uses
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher on EventBridge
type Publisher struct {
	client       EventBridgeAPI
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge publisher
func NewPublisher(client EventBridgeAPI, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends one event to the bus
func (p *Publisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal domain event",
			zap.String("eventType", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(events.Source),
				DetailType:   aws.String(event.EventType()),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.Timestamp()),
			},
		},
	})
	if err != nil {
		return err
	}
	if result.FailedEntryCount > 0 {
		p.logger.Warn("EventBridge rejected event",
			zap.String("eventType", event.EventType()),
			zap.Int32("failedCount", result.FailedEntryCount),
		)
	}
	return nil
}

// NoopPublisher discards events. Used when no event bus is configured.
type NoopPublisher struct{}

// Publish implements ports.EventPublisher
func (NoopPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	return nil
}
