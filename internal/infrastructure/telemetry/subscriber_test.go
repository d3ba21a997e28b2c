package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/application/iot"
)

func TestDecodeReading(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		device string
		weight string
		rfid   string
	}{
		{"plano con número", `{"device_id":"esp-1","weight":12.5}`, "esp-1", "12.5", ""},
		{"plano con texto", `{"device_id":"esp-1","weight":" 3.20 ","rfid_id":"TAG-9"}`, "esp-1", "3.20", "TAG-9"},
		{"envuelto en data", `{"type":"reading","data":{"device_id":"esp-2","weight":"7"}}`, "esp-2", "7", ""},
		{"payload record", `{"event":"UPDATE","payload":{"record":{"device_id":"esp-3","weight":1}}}`, "esp-3", "1", ""},
		{"peso nulo", `{"device_id":"esp-4","weight":null}`, "esp-4", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeReading([]byte(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.device, r.DeviceID)
			assert.Equal(t, tt.weight, r.Weight)
			assert.Equal(t, tt.rfid, r.RFIDID)
		})
	}
}

func TestDecodeReading_TimestampEnMillis(t *testing.T) {
	r, err := DecodeReading([]byte(`{"device_id":"esp-1","weight":1,"timestamp":1780315200000}`))
	require.NoError(t, err)
	assert.True(t, r.At.Equal(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)))
}

func TestDecodeReading_Invalido(t *testing.T) {
	_, err := DecodeReading([]byte(`{"weight":1}`))
	assert.ErrorIs(t, err, errNoReading)

	_, err = DecodeReading([]byte(`no-json`))
	assert.Error(t, err)
}

type captureIngestor struct {
	mu  sync.Mutex
	got []iot.Reading
}

func (c *captureIngestor) IngestReading(_ context.Context, r iot.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, r)
	return nil
}

func (c *captureIngestor) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestSubscriber_ConsumeLecturas(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"device_id":"esp-1","weight":10}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"ignorado":true}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"device_id":"esp-2","weight":"4.5"}`))
		// Mantener abierta hasta que el cliente cierre.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ing := &captureIngestor{}
	sub := NewSubscriber("ws"+strings.TrimPrefix(srv.URL, "http"), ing, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sub.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return ing.count() == 2 }, 3*time.Second, 10*time.Millisecond)
	st := sub.Status()
	assert.True(t, st.Enabled)
	assert.True(t, st.Connected)
	assert.NotNil(t, st.LastMessageAt)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run no terminó al cancelar el contexto")
	}
	assert.False(t, sub.Status().Connected)
}

func TestSubscriber_Deshabilitado(t *testing.T) {
	sub := NewSubscriber("", &captureIngestor{}, nil)
	sub.Run(context.Background())
	assert.False(t, sub.Status().Enabled)
}
