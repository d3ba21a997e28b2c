// Package iot es el puente entre las básculas (webhook y telemetría en tiempo real)
// y los registros de peso.
package iot

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

// Settings parámetros del puente IoT.
type Settings struct {
	WebhookSecret     string
	DefaultMaterialID int64
	MinValidWeight    decimal.Decimal
	MaxValidWeight    decimal.Decimal
	CheckInterval     time.Duration
}

// IoTUseCase procesa lecturas de básculas y expone su estado.
type IoTUseCase struct {
	records   repository.WeightRecordRepository
	materials repository.MaterialRepository
	readings  repository.DeviceReadingRepository
	rfid      repository.RFIDLogRepository
	tracker   *Tracker
	hub       Broadcaster
	telemetry TelemetryMonitor
	cfg       Settings
	log       *logger.Logger
	now       func() time.Time
}

// NewIoTUseCase construye el caso de uso. hub y telemetry pueden ser nil.
func NewIoTUseCase(
	records repository.WeightRecordRepository,
	materials repository.MaterialRepository,
	readings repository.DeviceReadingRepository,
	rfid repository.RFIDLogRepository,
	tracker *Tracker,
	hub Broadcaster,
	cfg Settings,
	log *logger.Logger,
) *IoTUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &IoTUseCase{
		records:   records,
		materials: materials,
		readings:  readings,
		rfid:      rfid,
		tracker:   tracker,
		hub:       hub,
		cfg:       cfg,
		log:       log.Named("iot"),
		now:       time.Now,
	}
}

// SetTelemetryMonitor registra la suscripción para reportar su estado en /api/iot/status.
func (uc *IoTUseCase) SetTelemetryMonitor(m TelemetryMonitor) {
	uc.telemetry = m
}

// Authorize valida el secreto compartido del webhook. Sin secreto configurado no se exige.
func (uc *IoTUseCase) Authorize(secret string) error {
	if uc.cfg.WebhookSecret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(uc.cfg.WebhookSecret)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// HandleWebhook convierte una lectura del webhook en un registro de peso pendiente.
// La bitácora RFID es best effort: si falla se registra en el log y la petición sigue.
func (uc *IoTUseCase) HandleWebhook(ctx context.Context, in dto.WebhookRequest) (*dto.WebhookResponse, error) {
	deviceID := strings.TrimSpace(in.DeviceID)
	if deviceID == "" || in.Weight == nil || !in.Weight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	readAt := in.Timestamp.Time
	if in.Timestamp.Unparsed() {
		uc.log.Warn().Str("device_id", deviceID).Str("timestamp", in.Timestamp.Raw).Msg("timestamp ilegible; se usa la hora del servidor")
	}
	if readAt.IsZero() {
		readAt = now
	}

	rec := &entity.WeightRecord{
		ItemName:    "Lectura IoT " + deviceID,
		TotalWeight: *in.Weight,
		Unit:        entity.UnitKilogram,
		BatchNumber: fmt.Sprintf("IOT-%d", now.UnixMilli()),
		Source:      "IoT_" + deviceID,
		Notes:       fmt.Sprintf("Lectura automática del dispositivo %s a las %s", deviceID, readAt.Format(time.RFC3339)),
		Status:      entity.RecordStatusPending,
		RecordedBy:  entity.IoTSystemActor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.RFIDID != "" {
		rec.Notes += " (RFID " + in.RFIDID + ")"
	}
	if uc.cfg.DefaultMaterialID > 0 {
		m, err := uc.materials.GetByID(ctx, uc.cfg.DefaultMaterialID)
		switch {
		case err != nil:
			uc.log.Warn().Err(err).Int64("material_id", uc.cfg.DefaultMaterialID).Msg("no se pudo leer el material por defecto IoT")
		case m == nil:
			uc.log.Warn().Int64("material_id", uc.cfg.DefaultMaterialID).Msg("material por defecto IoT no existe")
		default:
			id := m.ID
			rec.MaterialID = &id
			rec.ItemName = m.Name
		}
	}
	if err := uc.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("iot: crear registro: %w", err)
	}

	rfidLogged := false
	if in.RFIDID != "" {
		err := uc.rfid.Create(ctx, &entity.RFIDLog{
			RecordID:  rec.ID,
			RFIDID:    in.RFIDID,
			DeviceID:  deviceID,
			ScannedAt: readAt,
		})
		if err != nil {
			uc.log.Error().Err(err).Int64("record_id", rec.ID).Str("rfid_id", in.RFIDID).Msg("no se pudo registrar la lectura RFID")
		} else {
			rfidLogged = true
		}
	}

	// La lectura también actualiza el último valor del dispositivo.
	if err := uc.IngestReading(ctx, Reading{DeviceID: deviceID, Weight: in.Weight.String(), RFIDID: in.RFIDID, At: readAt}); err != nil {
		uc.log.Warn().Err(err).Str("device_id", deviceID).Msg("no se pudo actualizar la última lectura")
	}

	out := weighing.ToResponse(rec)
	uc.broadcast(Event{Type: EventRecordCreated, Data: out})
	return &dto.WebhookResponse{Success: true, RecordID: rec.ID, Record: out, RFIDLogged: rfidLogged}, nil
}

// IngestReading guarda la última lectura del dispositivo, renueva su liveness y la difunde.
// La usa la suscripción en tiempo real; no crea registros de peso.
func (uc *IoTUseCase) IngestReading(ctx context.Context, r Reading) error {
	if r.DeviceID == "" {
		return domain.ErrInvalidInput
	}
	now := uc.now()
	if r.At.IsZero() {
		r.At = now
	}
	if err := uc.readings.Upsert(ctx, &entity.DeviceReading{
		DeviceID:  r.DeviceID,
		Weight:    r.Weight,
		RFIDID:    r.RFIDID,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("iot: guardar lectura: %w", err)
	}
	// Liveness con el reloj del servidor: los relojes de los dispositivos no son confiables.
	if uc.tracker.Touch(r.DeviceID, now) {
		uc.log.Info().Str("device_id", r.DeviceID).Msg("dispositivo conectado")
		uc.broadcast(Event{Type: EventDeviceStatus, Data: DeviceState{DeviceID: r.DeviceID, Connected: true, LastSeen: now}})
	}
	uc.broadcast(Event{Type: EventReading, Data: r})
	return nil
}

// CurrentWeight último peso conocido del dispositivo con su bandera de validez.
func (uc *IoTUseCase) CurrentWeight(ctx context.Context, deviceID string) (*dto.CurrentWeightResponse, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, domain.ErrInvalidInput
	}
	r, err := uc.readings.Get(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("iot: obtener lectura: %w", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.CurrentWeightResponse{
		DeviceID:  r.DeviceID,
		Raw:       r.Weight,
		Unit:      entity.UnitKilogram,
		UpdatedAt: r.UpdatedAt,
	}
	if w, err := decimal.NewFromString(strings.TrimSpace(r.Weight)); err == nil {
		out.Weight = &w
		out.IsValid = uc.validWeight(w)
	}
	if st, ok := uc.tracker.Get(deviceID); ok {
		out.Connected = st.Connected
	}
	return out, nil
}

// Status salud del puente: suscripción, dispositivos y último RFID.
func (uc *IoTUseCase) Status(ctx context.Context) (*dto.IoTStatusResponse, error) {
	readings, err := uc.readings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("iot: listar lecturas: %w", err)
	}
	devices := make(map[string]*dto.DeviceStatusDTO, len(readings))
	for _, r := range readings {
		devices[r.DeviceID] = &dto.DeviceStatusDTO{DeviceID: r.DeviceID, LastWeight: r.Weight}
	}
	for _, st := range uc.tracker.Snapshot() {
		d, ok := devices[st.DeviceID]
		if !ok {
			d = &dto.DeviceStatusDTO{DeviceID: st.DeviceID}
			devices[st.DeviceID] = d
		}
		seen := st.LastSeen
		d.Connected = st.Connected
		d.LastSeen = &seen
	}

	out := &dto.IoTStatusResponse{
		Devices:   make([]dto.DeviceStatusDTO, 0, len(devices)),
		CheckedAt: uc.now(),
	}
	for _, d := range devices {
		out.Devices = append(out.Devices, *d)
	}
	sort.Slice(out.Devices, func(i, j int) bool { return out.Devices[i].DeviceID < out.Devices[j].DeviceID })

	if uc.telemetry != nil {
		out.Telemetry = uc.telemetry.Status()
	}
	last, err := uc.rfid.Latest(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo leer la última lectura RFID")
	} else if last != nil {
		at := last.ScannedAt
		out.RFID = dto.RFIDStatusDTO{LastScanAt: &at, LastTag: last.RFIDID, LastDevice: last.DeviceID}
	}
	return out, nil
}

// RunLiveness reevalúa la conexión de los dispositivos cada CheckInterval hasta que ctx se cancele.
func (uc *IoTUseCase) RunLiveness(ctx context.Context) {
	interval := uc.cfg.CheckInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.checkLiveness()
		}
	}
}

func (uc *IoTUseCase) checkLiveness() {
	for _, st := range uc.tracker.Evaluate(uc.now()) {
		uc.log.Warn().Str("device_id", st.DeviceID).Time("last_seen", st.LastSeen).Msg("dispositivo desconectado")
		uc.broadcast(Event{Type: EventDeviceStatus, Data: st})
	}
}

func (uc *IoTUseCase) validWeight(w decimal.Decimal) bool {
	return w.GreaterThanOrEqual(uc.cfg.MinValidWeight) && w.LessThanOrEqual(uc.cfg.MaxValidWeight)
}

func (uc *IoTUseCase) broadcast(ev Event) {
	if uc.hub != nil {
		uc.hub.Broadcast(ev)
	}
}
