package consumer

import (
	"context"
	"encoding/json"
	"sync"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"

	"github.com/rabbitmq/amqp091-go"
)

// Notification pipes driver stage transitions arriving over the broker into
// the rides service, which relays them to the rider's websocket.
type Notification struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	log         mylogger.Logger
	consumer    ports.IDispatchBroker
	rideService ports.IRidesService
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	consumer ports.IDispatchBroker,
	rideService ports.IRidesService,
) *Notification {
	return &Notification{
		ctx:         ctx,
		wg:          wg,
		log:         log,
		consumer:    consumer,
		rideService: rideService,
	}
}

func (n *Notification) Run() error {
	chDriverStatus, err := n.consumer.ConsumeDriverStatus(n.ctx)
	if err != nil {
		return err
	}

	n.wg.Add(1)
	go n.work(n.ctx, chDriverStatus, n.DriverStatusUpdate)

	return nil
}

func (n *Notification) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	log := n.log.Action("work")
	defer func() {
		log.Info("one worker is done")
		n.wg.Done()
	}()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := Do(msg); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notification) DriverStatusUpdate(msg amqp091.Delivery) error {
	log := n.log.Action("DriverStatusUpdate")

	m := brokerdto.DriverStatusUpdate{}
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Error("cannot unmarshal", err)
		msg.Nack(false, false)
		return err
	}

	if err := n.rideService.HandleDriverStatus(m); err != nil {
		log.Error("cannot handle driver status", err, "ride-id", m.RideID)
		msg.Nack(false, false)
		return err
	}

	return msg.Ack(false)
}
