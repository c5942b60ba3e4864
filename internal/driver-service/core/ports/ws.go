package ports

import "safri360/internal/driver-service/core/domain/websocketdto"

type IDriverWebsocket interface {
	WriteToDriver(pinCode string, msg websocketdto.Event)
}
