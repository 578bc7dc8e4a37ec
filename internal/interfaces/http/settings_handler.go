package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
)

// SettingsHandler maneja la configuración por empresa (protegido).
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetValuationMethod godoc
// @Summary      Método de valoración vigente
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationMethodResponse
// @Router       /api/settings/valuation-method [get]
func (h *SettingsHandler) GetValuationMethod(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetValuationMethod(companyID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// SetValuationMethod godoc
// @Summary      Cambiar método de valoración
// @Description  WEIGHTED_AVERAGE, FIFO o LIFO. Aplica a los movimientos
//
//	siguientes; los costos ya estampados no cambian.
//
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetValuationMethodRequest  true  "method"
// @Success      200   {object}  dto.ValuationMethodResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/valuation-method [put]
func (h *SettingsHandler) SetValuationMethod(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SetValuationMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetValuationMethod(companyID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
