package ports

import "safri360/internal/dispatch-service/core/domain/websocketdto"

type INotifyWebsocket interface {
	WriteToOwner(ownerUID string, msg websocketdto.Event)
	WriteToRider(customerID string, msg websocketdto.Event)
}
