package iot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_TouchYEvaluate(t *testing.T) {
	tr := NewTracker(10 * time.Second)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, tr.Touch("a", t0), "primer contacto conecta")
	assert.False(t, tr.Touch("a", t0.Add(time.Second)), "ya estaba conectado")
	tr.Touch("b", t0.Add(8*time.Second))

	changed := tr.Evaluate(t0.Add(12 * time.Second))
	if assert.Len(t, changed, 1) {
		assert.Equal(t, "a", changed[0].DeviceID)
		assert.False(t, changed[0].Connected)
	}
	// no se repite la transición
	assert.Empty(t, tr.Evaluate(t0.Add(13*time.Second)))

	snap := tr.Snapshot()
	assert.Equal(t, []string{"a", "b"}, []string{snap[0].DeviceID, snap[1].DeviceID})
	assert.True(t, snap[1].Connected)

	assert.True(t, tr.Touch("a", t0.Add(14*time.Second)), "vuelve a conectar")
}

func TestTracker_LecturaAtrasadaNoRetrocede(t *testing.T) {
	tr := NewTracker(10 * time.Second)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.Touch("a", t0.Add(5*time.Second))
	tr.Touch("a", t0)
	st, ok := tr.Get("a")
	assert.True(t, ok)
	assert.Equal(t, t0.Add(5*time.Second), st.LastSeen)
}
