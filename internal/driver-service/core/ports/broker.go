package ports

import (
	"context"

	"safri360/internal/driver-service/core/domain/brokerdto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IDriverBroker interface {
	Close() error
	PublishDriverStatus(ctx context.Context, msg brokerdto.DriverStatusUpdate) error

	ConsumeRideAssigned(ctx context.Context) (<-chan amqp.Delivery, error)
}
