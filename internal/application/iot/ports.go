package iot

import (
	"time"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
)

// Tipos de evento del feed en vivo.
const (
	EventReading       = "reading"
	EventDeviceStatus  = "device_status"
	EventRecordCreated = "record_created"
)

// Event mensaje que se difunde a los dashboards conectados.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Broadcaster difunde eventos al feed en vivo (hub websocket).
type Broadcaster interface {
	Broadcast(ev Event)
}

// TelemetryMonitor expone el estado de la suscripción en tiempo real.
type TelemetryMonitor interface {
	Status() dto.TelemetryStatusDTO
}

// Reading lectura cruda de una báscula, venga del webhook o de la suscripción.
type Reading struct {
	DeviceID string    `json:"device_id"`
	Weight   string    `json:"weight"`
	RFIDID   string    `json:"rfid_id,omitempty"`
	At       time.Time `json:"timestamp"`
}
