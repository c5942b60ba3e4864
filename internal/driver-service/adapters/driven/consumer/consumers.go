package consumer

import (
	"context"
	"encoding/json"
	"sync"

	"safri360/internal/driver-service/core/domain/brokerdto"
	"safri360/internal/driver-service/core/ports"
	"safri360/internal/mylogger"

	"github.com/rabbitmq/amqp091-go"
)

// Assignments pipes dispatch assignment events into the driver service,
// which pushes them to the connected driver by PIN.
type Assignments struct {
	ctx           context.Context
	wg            *sync.WaitGroup
	log           mylogger.Logger
	consumer      ports.IDriverBroker
	driverService ports.IDriverService
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	consumer ports.IDriverBroker,
	driverService ports.IDriverService,
) *Assignments {
	return &Assignments{
		ctx:           ctx,
		wg:            wg,
		log:           log,
		consumer:      consumer,
		driverService: driverService,
	}
}

func (a *Assignments) Run() error {
	chAssigned, err := a.consumer.ConsumeRideAssigned(a.ctx)
	if err != nil {
		return err
	}

	a.wg.Add(1)
	go a.work(a.ctx, chAssigned, a.RideAssigned)

	return nil
}

func (a *Assignments) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	log := a.log.Action("work")
	defer func() {
		log.Info("one worker is done")
		a.wg.Done()
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

func (a *Assignments) RideAssigned(msg amqp091.Delivery) error {
	log := a.log.Action("RideAssigned")

	m := brokerdto.RideAssigned{}
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Error("cannot unmarshal", err)
		msg.Nack(false, false)
		return err
	}

	a.driverService.HandleRideAssigned(m)

	return msg.Ack(false)
}
