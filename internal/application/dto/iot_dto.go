package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WebhookRequest lectura enviada por una báscula al webhook IoT.
// weight es puntero para distinguir "ausente" de cero.
type WebhookRequest struct {
	DeviceID  string           `json:"device_id"`
	Weight    *decimal.Decimal `json:"weight"`
	RFIDID    string           `json:"rfid_id"`
	Timestamp FlexTime         `json:"timestamp"`
}

// WebhookResponse salida del webhook.
type WebhookResponse struct {
	Success    bool                 `json:"success"`
	RecordID   int64                `json:"record_id"`
	Record     WeightRecordResponse `json:"record"`
	RFIDLogged bool                 `json:"rfid_logged"`
}

// CurrentWeightResponse último peso reportado por un dispositivo.
// Weight es nil si el valor guardado no es numérico.
type CurrentWeightResponse struct {
	DeviceID  string           `json:"device_id"`
	Weight    *decimal.Decimal `json:"weight"`
	Raw       string           `json:"raw"`
	Unit      string           `json:"unit"`
	IsValid   bool             `json:"is_valid"`
	Connected bool             `json:"connected"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DeviceStatusDTO liveness de una báscula.
type DeviceStatusDTO struct {
	DeviceID   string     `json:"device_id"`
	Connected  bool       `json:"connected"`
	LastSeen   *time.Time `json:"last_seen"`
	LastWeight string     `json:"last_weight,omitempty"`
}

// TelemetryStatusDTO estado de la suscripción en tiempo real.
type TelemetryStatusDTO struct {
	Enabled       bool       `json:"enabled"`
	Connected     bool       `json:"connected"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// RFIDStatusDTO estado del subsistema RFID (última lectura registrada).
type RFIDStatusDTO struct {
	LastScanAt *time.Time `json:"last_scan_at"`
	LastTag    string     `json:"last_tag,omitempty"`
	LastDevice string     `json:"last_device,omitempty"`
}

// IoTStatusResponse salud del puente IoT.
type IoTStatusResponse struct {
	Telemetry TelemetryStatusDTO `json:"telemetry"`
	Devices   []DeviceStatusDTO  `json:"devices"`
	RFID      RFIDStatusDTO      `json:"rfid"`
	CheckedAt time.Time          `json:"checked_at"`
}

// FlexTime acepta RFC3339, fecha/hora sin zona (UTC), epoch en segundos o en milisegundos
// (los ESP32 suelen enviar millis). Un valor que no se puede interpretar no rompe el
// decode: queda en Raw con Time en cero y quien lo consume decide el reemplazo.
type FlexTime struct {
	time.Time
	Raw string
}

// layouts sin epoch que envían los firmwares habituales.
var flexLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

// Unparsed indica que llegó un timestamp que no se pudo interpretar.
func (t FlexTime) Unparsed() bool {
	return t.Raw != "" && t.Time.IsZero()
}

// UnmarshalJSON implementa json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '"' {
		if n, err := strconv.ParseFloat(string(b), 64); err == nil {
			t.Time = fromEpoch(int64(n))
			return nil
		}
		t.Raw = string(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.Raw = string(b)
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range flexLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = fromEpoch(n)
		return nil
	}
	t.Raw = s
	return nil
}

// MarshalJSON serializa en RFC3339 (null si está vacío).
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// fromEpoch distingue milisegundos de segundos por magnitud (> año 33658 en segundos no es realista).
func fromEpoch(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
