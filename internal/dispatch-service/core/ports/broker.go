package ports

import (
	"context"

	"safri360/internal/dispatch-service/core/domain/brokerdto"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DriverStatusPattern = "driver.status.*"

type IDispatchBroker interface {
	Close() error
	PublishRideRequested(ctx context.Context, msg brokerdto.RideRequested) error
	PublishRideCancelled(ctx context.Context, msg brokerdto.RideCancelled) error
	PublishRideAssigned(ctx context.Context, msg brokerdto.RideAssigned) error

	ConsumeDriverStatus(ctx context.Context) (<-chan amqp.Delivery, error)
}
