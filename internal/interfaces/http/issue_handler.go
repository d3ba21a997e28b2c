package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/usecase"
)

// IssueHandler endpoints de incidencias.
type IssueHandler struct {
	uc *usecase.IssueUseCase
}

// NewIssueHandler construye el handler.
func NewIssueHandler(uc *usecase.IssueUseCase) *IssueHandler {
	return &IssueHandler{uc: uc}
}

// Create godoc
// @Summary      Reportar incidencia
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIssueRequest  true  "Incidencia"
// @Success      201   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/issues [post]
func (h *IssueHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIssueRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar incidencias
// @Tags         issues
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "pending | resolved"
// @Param        record_id  query  int     false  "Registro de peso"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.IssueListResponse
// @Router       /api/issues [get]
func (h *IssueHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), actorFrom(c), usecase.IssueListInput{
		Status:   c.Query("status"),
		RecordID: queryInt64(c, "record_id"),
		Page:     pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener incidencia
// @Tags         issues
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.IssueResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issues/{id} [get]
func (h *IssueHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar o resolver incidencia
// @Description  Cambiar status, resolution o resolver_id requiere admin o manager.
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID"
// @Param        body  body  dto.UpdateIssueRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/issues/{id} [put]
func (h *IssueHandler) Update(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.UpdateIssueRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar incidencia (reportante o admin)
// @Tags         issues
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issues/{id} [delete]
func (h *IssueHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
