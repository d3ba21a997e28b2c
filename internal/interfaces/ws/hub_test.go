package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/application/iot"
)

func TestBroadcast_NoBloqueaConColaLlena(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < broadcastBuffer+10; i++ {
		h.Broadcast(iot.Event{Type: iot.EventReading, Data: i})
	}
	assert.Len(t, h.broadcast, broadcastBuffer)
}

func TestBroadcast_SerializaEvento(t *testing.T) {
	h := NewHub(nil)
	h.Broadcast(iot.Event{Type: iot.EventDeviceStatus, Data: map[string]any{"device_id": "esp-1", "connected": true}})

	msg := <-h.broadcast
	var got map[string]any
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "device_status", got["type"])
	assert.Equal(t, "esp-1", got["data"].(map[string]any)["device_id"])
}

func TestRun_TerminaAlCancelar(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	h.Broadcast(iot.Event{Type: iot.EventReading})
	cancel()
	<-done
	assert.Equal(t, 0, h.ClientCount())
}

func TestRequireUpgrade_Rechaza426(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/iot", RequireUpgrade, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/iot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
