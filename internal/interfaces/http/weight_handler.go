package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/weighing"
)

// WeightHandler endpoints de registros de peso.
type WeightHandler struct {
	uc     *weighing.WeightUseCase
	report *weighing.ReportUseCase
}

// NewWeightHandler construye el handler.
func NewWeightHandler(uc *weighing.WeightUseCase, report *weighing.ReportUseCase) *WeightHandler {
	return &WeightHandler{uc: uc, report: report}
}

// Create godoc
// @Summary      Registrar un pesaje
// @Tags         weights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWeightRequest  true  "Material y peso"
// @Success      201   {object}  dto.WeightRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/weights [post]
func (h *WeightHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWeightRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateMultiMaterial godoc
// @Summary      Registrar varios materiales en un mismo lote
// @Description  Todas las entradas se validan antes de insertar; si una falla no se guarda ninguna.
// @Tags         weights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MultiMaterialRequest  true  "Entradas del lote"
// @Success      201   {object}  dto.MultiMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/weights/multi-material [post]
func (h *WeightHandler) CreateMultiMaterial(c *fiber.Ctx) error {
	var in dto.MultiMaterialRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateMultiMaterial(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pesajes
// @Description  Los operadores solo ven sus propios registros.
// @Tags         weights
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending | approved | rejected"
// @Param        material_id  query  int     false  "Material"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.WeightRecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/weights [get]
func (h *WeightHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), actorFrom(c), weighing.ListInput{
		Status:     c.Query("status"),
		MaterialID: queryInt64(c, "material_id"),
		Page:       pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pesaje
// @Tags         weights
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del registro"
// @Success      200  {object}  dto.WeightRecordResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/weights/{id} [get]
func (h *WeightHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Aprobar, rechazar o reabrir un pesaje
// @Tags         weights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                            true  "ID del registro"
// @Param        body  body  dto.UpdateRecordStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.WeightRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/weights/{id}/status [put]
func (h *WeightHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.UpdateRecordStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pesaje (solo admin)
// @Tags         weights
// @Security     Bearer
// @Param        id   path  int  true  "ID del registro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/weights/{id} [delete]
func (h *WeightHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de estados de un pesaje
// @Tags         weights
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del registro"
// @Success      200  {array}   dto.StatusChangeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/weights/{id}/history [get]
func (h *WeightHandler) History(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	out, err := h.uc.History(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de pesajes
// @Tags         weights
// @Security     Bearer
// @Produce      application/pdf
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/weights/report.pdf [get]
func (h *WeightHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.report.WeightReport(c.UserContext(), actorFrom(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
