package main

import (
	"encoding/json"
	"fmt"
	"time"

	"safri360/internal/config"
	"safri360/internal/mylogger"

	"github.com/gorilla/websocket"
)

const (
	driveToPickupDelay = 3 * time.Second
	pickupDelay        = 2 * time.Second
	rideDelay          = 5 * time.Second
)

type wsEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type rideAssignedPush struct {
	RideID          string  `json:"ride_id"`
	Registration    string  `json:"registration_number"`
	PickupName      string  `json:"pickup_name"`
	DestinationName string  `json:"destination_name"`
	Fare            float64 `json:"fare"`
}

type driverSim struct {
	cfg   *config.Config
	log   mylogger.Logger
	pin   string
	token string
	http  *httpClient
}

func newDriverSim(cfg *config.Config, log mylogger.Logger, pin, token string) *driverSim {
	base := fmt.Sprintf("http://localhost:%s", cfg.Srv.DriverServicePort)
	return &driverSim{
		cfg:   cfg,
		log:   log,
		pin:   pin,
		token: token,
		http:  newHTTPClient(base, token),
	}
}

func (d *driverSim) Run() error {
	wsURL := fmt.Sprintf("ws://localhost:%s/ws/drivers/%s", d.cfg.Srv.DriverServicePort, d.pin)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect to websocket: %w", err)
	}
	defer conn.Close()
	d.log.Action("ws_connected").Info("Connected to driver websocket", "pin", d.pin)

	if err := d.http.post(fmt.Sprintf("/drivers/%s/online", d.pin)); err != nil {
		return fmt.Errorf("go online: %w", err)
	}
	d.log.Info("Driver is online, waiting for assignment")

	for {
		var event wsEvent
		if err := conn.ReadJSON(&event); err != nil {
			return fmt.Errorf("read websocket: %w", err)
		}
		d.log.Info("Received event", "type", event.Type)

		if event.Type != "ride_assigned" {
			continue
		}

		var push rideAssignedPush
		if err := json.Unmarshal(event.Data, &push); err != nil {
			d.log.Error("cannot decode assignment", err)
			continue
		}
		d.log.Info("Ride assigned",
			"ride_id", push.RideID,
			"pickup", push.PickupName,
			"destination", push.DestinationName,
			"fare", push.Fare,
		)

		if err := d.driveRide(); err != nil {
			d.log.Error("ride simulation failed", err)
			continue
		}
		d.log.Info("Ride completed, back to waiting")
	}
}

// driveRide walks the ride stages with small pauses between transitions.
func (d *driverSim) driveRide() error {
	time.Sleep(driveToPickupDelay)
	if err := d.http.post(fmt.Sprintf("/drivers/%s/arrived", d.pin)); err != nil {
		return fmt.Errorf("arrived: %w", err)
	}
	d.log.Info("Arrived at pickup")

	time.Sleep(pickupDelay)
	if err := d.http.post(fmt.Sprintf("/drivers/%s/start", d.pin)); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	d.log.Info("Ride started")

	time.Sleep(rideDelay)
	if err := d.http.post(fmt.Sprintf("/drivers/%s/complete", d.pin)); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	d.log.Info("Ride completed")
	return nil
}
