package entity

import "time"

// DeviceReading último valor reportado por una báscula IoT.
// Weight se guarda tal como llegó del dispositivo (texto) y se valida al leerlo.
type DeviceReading struct {
	DeviceID  string
	Weight    string
	RFIDID    string
	UpdatedAt time.Time
}

// RFIDLog lectura RFID asociada a un registro de peso creado por el webhook.
type RFIDLog struct {
	ID        int64
	RecordID  int64
	RFIDID    string
	DeviceID  string
	ScannedAt time.Time
}
