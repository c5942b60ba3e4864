package bm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"safri360/internal/config"
	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange          = "safri_topic"
	driverStatusQueue = "dispatch_driver_status"
	reconnInterval    = 10
)

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMqconfig
	mylog        mylogger.Logger
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	mu           *sync.Mutex
}

func New(ctx context.Context, rabbitmqCfg config.RabbitMqconfig, mylog mylogger.Logger) (ports.IDispatchBroker, error) {
	r := &RabbitMQ{
		ctx:          ctx,
		cfg:          rabbitmqCfg,
		mylog:        mylog,
		mu:           &sync.Mutex{},
		reconnecting: false,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %v", err)
	}
	return r, nil
}

func (r *RabbitMQ) PublishRideRequested(ctx context.Context, msg brokerdto.RideRequested) error {
	return r.publish(ctx, brokerdto.KeyRideRequested, msg, 0)
}

func (r *RabbitMQ) PublishRideCancelled(ctx context.Context, msg brokerdto.RideCancelled) error {
	return r.publish(ctx, brokerdto.KeyRideCancelled, msg, 0)
}

func (r *RabbitMQ) PublishRideAssigned(ctx context.Context, msg brokerdto.RideAssigned) error {
	return r.publish(ctx, brokerdto.KeyRideAssigned, msg, 5)
}

func (r *RabbitMQ) publish(ctx context.Context, routingKey string, message any, priority uint8) error {
	mylog := r.mylog.Action("publish")

	if r.conn.IsClosed() {
		mylog.Error("connection to rabbitmq is closed", errors.New("closed conn"))
		go r.reconnect(r.ctx)
		return errors.New("connection is closed")
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Priority:     priority,
		Body:         body,
	})
}

// ConsumeDriverStatus binds a queue to driver.status.* and returns the
// delivery stream. Acks are the consumer's responsibility.
func (r *RabbitMQ) ConsumeDriverStatus(ctx context.Context) (<-chan amqp.Delivery, error) {
	if _, err := r.ch.QueueDeclare(driverStatusQueue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	if err := r.ch.QueueBind(driverStatusQueue, ports.DriverStatusPattern, exchange, false, nil); err != nil {
		return nil, err
	}
	return r.ch.ConsumeWithContext(ctx, driverStatusQueue, "", false, false, false, false, nil)
}

func (r *RabbitMQ) IsAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return false
	}
	return true
}

func (r *RabbitMQ) Close() error {
	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%v:%v@%v:%v/%v",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := ch.Confirm(false); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	t := time.NewTicker(time.Second * reconnInterval)
	mylog := r.mylog.Action("mb_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				t.Stop()
				mylog.Action("mb_reconnection_completed").Info("Successfully reconnected!")
				r.mu.Lock()
				r.reconnecting = false
				r.mu.Unlock()
				return
			}
			mylog.Info("rabbitmq failed to reconnect")

		case <-ctx.Done():
			t.Stop()
			return
		}
	}
}
