package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/iot"
)

// HeaderIoTSecret secreto compartido del webhook.
const HeaderIoTSecret = "X-IoT-Secret"

// IoTHandler endpoints del puente IoT.
type IoTHandler struct {
	uc *iot.IoTUseCase
}

// NewIoTHandler construye el handler.
func NewIoTHandler(uc *iot.IoTUseCase) *IoTHandler {
	return &IoTHandler{uc: uc}
}

// Webhook godoc
// @Summary      Lectura de báscula
// @Description  Crea un registro pendiente a nombre de IoT_System. Requiere X-IoT-Secret si está configurado.
// @Tags         iot
// @Accept       json
// @Produce      json
// @Param        X-IoT-Secret  header  string              false  "Secreto compartido"
// @Param        body          body    dto.WebhookRequest  true   "Lectura"
// @Success      200  {object}  dto.WebhookResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/iot/webhook [post]
func (h *IoTHandler) Webhook(c *fiber.Ctx) error {
	if err := h.uc.Authorize(c.Get(HeaderIoTSecret)); err != nil {
		return writeError(c, err)
	}
	var in dto.WebhookRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.HandleWebhook(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CurrentWeight godoc
// @Summary      Último peso de un dispositivo
// @Tags         iot
// @Security     Bearer
// @Produce      json
// @Param        device  query  string  true  "ID del dispositivo"
// @Success      200  {object}  dto.CurrentWeightResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/iot/current-weight [get]
func (h *IoTHandler) CurrentWeight(c *fiber.Ctx) error {
	out, err := h.uc.CurrentWeight(c.UserContext(), c.Query("device"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Salud de dispositivos y RFID
// @Tags         iot
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IoTStatusResponse
// @Router       /api/iot/status [get]
func (h *IoTHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
