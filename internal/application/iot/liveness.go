package iot

import (
	"sort"
	"sync"
	"time"
)

// DeviceState estado de conexión de un dispositivo.
type DeviceState struct {
	DeviceID  string    `json:"device_id"`
	Connected bool      `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// Tracker lleva el último contacto de cada dispositivo. Un dispositivo sin
// actualizaciones durante más de timeout pasa a desconectado en la siguiente evaluación.
type Tracker struct {
	mu      sync.Mutex
	timeout time.Duration
	devices map[string]*DeviceState
}

// NewTracker construye el tracker con el timeout de inactividad.
func NewTracker(timeout time.Duration) *Tracker {
	return &Tracker{timeout: timeout, devices: make(map[string]*DeviceState)}
}

// Touch registra contacto del dispositivo. Devuelve true si pasó a conectado
// (dispositivo nuevo o que estaba desconectado).
func (t *Tracker) Touch(deviceID string, at time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.devices[deviceID]
	if !ok {
		t.devices[deviceID] = &DeviceState{DeviceID: deviceID, Connected: true, LastSeen: at}
		return true
	}
	if at.After(d.LastSeen) {
		d.LastSeen = at
	}
	if d.Connected {
		return false
	}
	d.Connected = true
	return true
}

// Evaluate marca como desconectados los dispositivos vencidos y devuelve solo los que cambiaron.
func (t *Tracker) Evaluate(now time.Time) []DeviceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	var changed []DeviceState
	for _, d := range t.devices {
		if d.Connected && now.Sub(d.LastSeen) > t.timeout {
			d.Connected = false
			changed = append(changed, *d)
		}
	}
	sortStates(changed)
	return changed
}

// Get devuelve el estado de un dispositivo.
func (t *Tracker) Get(deviceID string) (DeviceState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.devices[deviceID]
	if !ok {
		return DeviceState{}, false
	}
	return *d, true
}

// Snapshot copia de todos los estados, ordenada por device_id.
func (t *Tracker) Snapshot() []DeviceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]DeviceState, 0, len(t.devices))
	for _, d := range t.devices {
		out = append(out, *d)
	}
	sortStates(out)
	return out
}

func sortStates(s []DeviceState) {
	sort.Slice(s, func(i, j int) bool { return s[i].DeviceID < s[j].DeviceID })
}
