package weighing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/memory"
)

var (
	operator = workflow.Actor{ID: "op-1", Role: entity.RoleOperator}
	manager  = workflow.Actor{ID: "mgr-1", Role: entity.RoleManager}
	admin    = workflow.Actor{ID: "adm-1", Role: entity.RoleAdmin}
)

// flakyTx falla en la inserción número failAt dentro de la transacción.
type flakyTx struct {
	inner  TxRunner
	failAt int
}

type flakyRecords struct {
	repository.WeightRecordRepository
	calls  *int
	failAt int
}

func (f flakyRecords) Create(ctx context.Context, r *entity.WeightRecord) error {
	*f.calls++
	if *f.calls == f.failAt {
		return errors.New("conexión perdida")
	}
	return f.WeightRecordRepository.Create(ctx, r)
}

func (t flakyTx) Run(ctx context.Context, fn func(records repository.WeightRecordRepository) error) error {
	calls := 0
	return t.inner.Run(ctx, func(records repository.WeightRecordRepository) error {
		return fn(flakyRecords{WeightRecordRepository: records, calls: &calls, failAt: t.failAt})
	})
}

func setup(t *testing.T) (*WeightUseCase, *memory.Store, []*entity.Material) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	var mats []*entity.Material
	for _, name := range []string{"Cobre", "Aluminio"} {
		m := &entity.Material{Name: name, Unit: entity.UnitKilogram}
		require.NoError(t, s.Materials().Create(ctx, m))
		mats = append(mats, m)
	}
	uc := NewWeightUseCase(s.WeightRecords(), s.Materials(), s.StatusChanges(), memory.NewTxRunner(s), nil)
	uc.now = func() time.Time { return time.Date(2026, 5, 4, 10, 30, 15, 0, time.UTC) }
	return uc, s, mats
}

func TestCreate_SiempreQuedaPendiente(t *testing.T) {
	uc, _, mats := setup(t)
	out, err := uc.Create(context.Background(), operator, dto.CreateWeightRequest{
		MaterialID: mats[0].ID,
		Weight:     decimal.RequireFromString("12.5"),
		Source:     "Patio A",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusPending, out.Status)
	assert.Equal(t, "Cobre", out.ItemName)
	assert.Equal(t, entity.UnitKilogram, out.Unit)
	assert.Equal(t, operator.ID, out.RecordedBy)
	assert.Nil(t, out.ApprovedAt)
}

func TestCreate_MaterialInexistente(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Create(context.Background(), operator, dto.CreateWeightRequest{MaterialID: 999, Weight: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
}

func TestCreateMultiMaterial_OK(t *testing.T) {
	uc, _, mats := setup(t)
	out, err := uc.CreateMultiMaterial(context.Background(), operator, dto.MultiMaterialRequest{
		MaterialEntries: []dto.MaterialEntry{
			{MaterialID: mats[0].ID, Weight: decimal.RequireFromString("10.25")},
			{MaterialID: mats[1].ID, Weight: decimal.RequireFromString("4.75"), Notes: "húmedo"},
		},
		Source: "Planta",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.True(t, out.TotalWeight.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "BATCH-20260504103015", out.BatchNumber)
	assert.Equal(t, "Aluminio", out.Records[1].ItemName)
	for _, r := range out.Records {
		assert.Equal(t, entity.RecordStatusPending, r.Status)
	}
}

func TestCreateMultiMaterial_MaterialFaltanteNoInserta(t *testing.T) {
	uc, s, mats := setup(t)
	_, err := uc.CreateMultiMaterial(context.Background(), operator, dto.MultiMaterialRequest{
		MaterialEntries: []dto.MaterialEntry{
			{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(3)},
			{MaterialID: 404, Weight: decimal.NewFromInt(2)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)

	_, total, err := s.WeightRecords().List(context.Background(), entity.WeightRecordFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateMultiMaterial_PesoInvalido(t *testing.T) {
	uc, _, mats := setup(t)
	_, err := uc.CreateMultiMaterial(context.Background(), operator, dto.MultiMaterialRequest{
		MaterialEntries: []dto.MaterialEntry{{MaterialID: mats[0].ID, Weight: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateMultiMaterial(context.Background(), operator, dto.MultiMaterialRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateMultiMaterial_FalloEnTransaccionHaceRollback(t *testing.T) {
	uc, s, mats := setup(t)
	uc.txRunner = flakyTx{inner: memory.NewTxRunner(s), failAt: 2}

	_, err := uc.CreateMultiMaterial(context.Background(), operator, dto.MultiMaterialRequest{
		MaterialEntries: []dto.MaterialEntry{
			{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(1)},
			{MaterialID: mats[1].ID, Weight: decimal.NewFromInt(2)},
			{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(3)},
		},
	})
	require.Error(t, err)

	_, total, err := s.WeightRecords().List(context.Background(), entity.WeightRecordFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "ningún registro debe quedar huérfano")
}

func TestList_OperadorSoloVeLosSuyos(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(1)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, workflow.Actor{ID: "op-2", Role: entity.RoleOperator}, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(2)})
	require.NoError(t, err)

	own, err := uc.List(ctx, operator, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, own.Page.Total)
	assert.Equal(t, 20, own.Page.Limit)

	all, err := uc.List(ctx, manager, ListInput{Page: dto.PageRequest{Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 100, all.Page.Limit)
}

func TestUpdateStatus_AprobarYReabrir(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	rec, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(8)})
	require.NoError(t, err)

	note := "ok"
	approved, err := uc.UpdateStatus(ctx, manager, rec.ID, dto.UpdateRecordStatusRequest{Status: entity.RecordStatusApproved, Resolution: &note})
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, manager.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	reopened, err := uc.UpdateStatus(ctx, admin, rec.ID, dto.UpdateRecordStatusRequest{Status: entity.RecordStatusPending})
	require.NoError(t, err)
	assert.Nil(t, reopened.ApprovedBy)
	assert.Nil(t, reopened.ApprovedAt)
	assert.Nil(t, reopened.Resolution)

	history, err := uc.History(ctx, manager, rec.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.RecordStatusApproved, history[0].NewStatus)
	assert.Equal(t, "ok", history[0].Note)
	assert.Equal(t, entity.RecordStatusPending, history[1].NewStatus)
}

func TestUpdateStatus_OperadorNoPuede(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	rec, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(8)})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, operator, rec.ID, dto.UpdateRecordStatusRequest{Status: entity.RecordStatusApproved})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateStatus(ctx, manager, rec.ID, dto.UpdateRecordStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.UpdateStatus(ctx, manager, 999, dto.UpdateRecordStatusRequest{Status: entity.RecordStatusApproved})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestDelete_SoloAdmin(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	rec, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(8)})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, manager, rec.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, admin, rec.ID))
	_, err = uc.Get(ctx, admin, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestGet_OperadorAjeno(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	rec, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(8)})
	require.NoError(t, err)

	_, err = uc.Get(ctx, workflow.Actor{ID: "otro", Role: entity.RoleOperator}, rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type stubGenerator struct{ got ReportData }

func (g *stubGenerator) GenerateWeightReport(_ context.Context, data ReportData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-1.3"), nil
}

func TestWeightReport(t *testing.T) {
	uc, _, mats := setup(t)
	ctx := context.Background()
	for _, w := range []int64{2, 3} {
		_, err := uc.Create(ctx, operator, dto.CreateWeightRequest{MaterialID: mats[0].ID, Weight: decimal.NewFromInt(w)})
		require.NoError(t, err)
	}
	gen := &stubGenerator{}
	report := NewReportUseCase(uc, gen)

	_, _, err := report.WeightReport(ctx, operator, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pdf, name, err := report.WeightReport(ctx, manager, entity.RecordStatusPending)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "pesajes_20260504103015.pdf", name)
	assert.Len(t, gen.got.Records, 2)
	assert.True(t, gen.got.TotalWeight.Equal(decimal.NewFromInt(5)))
}
