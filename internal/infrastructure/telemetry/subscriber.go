// Package telemetry mantiene la suscripción en tiempo real a las lecturas de las básculas.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/iot"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

const (
	// Tiempo máximo sin mensajes ni pong antes de dar la conexión por caída.
	pongWait = 60 * time.Second

	// Periodo de ping; debe ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024

	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Ingestor recibe cada lectura decodificada (iot.IoTUseCase).
type Ingestor interface {
	IngestReading(ctx context.Context, r iot.Reading) error
}

var _ iot.TelemetryMonitor = (*Subscriber)(nil)

// Subscriber cliente websocket que se reconecta con backoff exponencial.
type Subscriber struct {
	url    string
	ingest Ingestor
	dialer *websocket.Dialer
	log    *logger.Logger

	mu        sync.RWMutex
	connected bool
	lastMsgAt *time.Time
}

// NewSubscriber construye el cliente. url vacía deja la suscripción deshabilitada.
func NewSubscriber(url string, ingest Ingestor, log *logger.Logger) *Subscriber {
	if log == nil {
		log = logger.Nop()
	}
	return &Subscriber{
		url:    url,
		ingest: ingest,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log.Named("telemetry"),
	}
}

// Status implementa iot.TelemetryMonitor.
func (s *Subscriber) Status() dto.TelemetryStatusDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := dto.TelemetryStatusDTO{Enabled: s.url != "", Connected: s.connected}
	if s.lastMsgAt != nil {
		at := *s.lastMsgAt
		out.LastMessageAt = &at
	}
	return out
}

// Run conecta y consume lecturas hasta que ctx se cancele.
func (s *Subscriber) Run(ctx context.Context) {
	if s.url == "" {
		s.log.Info().Msg("suscripción en tiempo real deshabilitada")
		return
	}
	backoff := minBackoff
	for {
		started := time.Now()
		err := s.session(ctx)
		s.setConnected(false)
		if ctx.Err() != nil {
			return
		}
		// Una sesión larga reinicia el backoff.
		if time.Since(started) > maxBackoff {
			backoff = minBackoff
		}
		s.log.Warn().Err(err).Dur("retry_in", backoff).Msg("suscripción caída, reintentando")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (s *Subscriber) session(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("telemetry: dial: %w", err)
	}
	defer conn.Close()

	s.setConnected(true)
	s.log.Info().Str("url", s.url).Msg("suscripción en tiempo real conectada")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(ctx, conn, done)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("telemetry: read: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		s.touch()

		r, err := DecodeReading(msg)
		if err != nil {
			s.log.Debug().Err(err).Msg("mensaje de telemetría ignorado")
			continue
		}
		if err := s.ingest.IngestReading(ctx, r); err != nil {
			s.log.Error().Err(err).Str("device_id", r.DeviceID).Msg("no se pudo procesar la lectura")
		}
	}
}

// keepAlive envía pings y cierra la conexión al cancelar ctx para desbloquear ReadMessage.
func (s *Subscriber) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

func (s *Subscriber) touch() {
	now := time.Now()
	s.mu.Lock()
	s.lastMsgAt = &now
	s.mu.Unlock()
}

// wireReading formato de una lectura; weight llega como número o como texto.
type wireReading struct {
	DeviceID  string          `json:"device_id"`
	Weight    json.RawMessage `json:"weight"`
	RFIDID    string          `json:"rfid_id"`
	Timestamp dto.FlexTime    `json:"timestamp"`
}

// envelope mensajes envueltos del broker: {"type":..., "data":{...}} o {"payload":{"record":{...}}}.
type envelope struct {
	Data    *wireReading `json:"data"`
	Record  *wireReading `json:"record"`
	Payload *struct {
		Record *wireReading `json:"record"`
	} `json:"payload"`
}

var errNoReading = errors.New("telemetry: el mensaje no contiene una lectura")

// DecodeReading interpreta un mensaje JSON de lectura, plano o envuelto.
func DecodeReading(msg []byte) (iot.Reading, error) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return iot.Reading{}, fmt.Errorf("telemetry: json: %w", err)
	}
	var w *wireReading
	switch {
	case env.Data != nil:
		w = env.Data
	case env.Record != nil:
		w = env.Record
	case env.Payload != nil && env.Payload.Record != nil:
		w = env.Payload.Record
	default:
		var flat wireReading
		if err := json.Unmarshal(msg, &flat); err != nil {
			return iot.Reading{}, fmt.Errorf("telemetry: json: %w", err)
		}
		w = &flat
	}
	if strings.TrimSpace(w.DeviceID) == "" {
		return iot.Reading{}, errNoReading
	}
	return iot.Reading{
		DeviceID: strings.TrimSpace(w.DeviceID),
		Weight:   rawWeight(w.Weight),
		RFIDID:   w.RFIDID,
		At:       w.Timestamp.Time,
	}, nil
}

// rawWeight devuelve el peso como texto sin comillas; se valida al consultarlo.
func rawWeight(b json.RawMessage) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(b)
}
