package usecase

import (
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/domain/valuation"
)

// SettingsUseCase configuración por empresa. Por ahora solo el método de
// valoración; el motor lo relee en cada entrada/salida, así que cambiarlo
// aplica a los movimientos siguientes sin reiniciar nada.
type SettingsUseCase struct {
	repo          repository.SettingRepository
	defaultMethod valuation.Method
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingRepository, defaultMethod string) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, defaultMethod: valuation.ParseMethod(defaultMethod)}
}

// GetValuationMethod devuelve el método vigente del tenant.
func (uc *SettingsUseCase) GetValuationMethod(companyID string) (*dto.ValuationMethodResponse, error) {
	raw, err := uc.repo.Get(companyID, valuation.SettingKey)
	if err != nil {
		return nil, err
	}
	method := uc.defaultMethod
	if raw != "" {
		method = valuation.ParseMethod(raw)
	}
	return &dto.ValuationMethodResponse{Method: string(method)}, nil
}

// SetValuationMethod fija el método. Solo acepta valores del conjunto cerrado.
func (uc *SettingsUseCase) SetValuationMethod(companyID string, in dto.SetValuationMethodRequest) (*dto.ValuationMethodResponse, error) {
	if valuation.ParseMethod(in.Method) != valuation.Method(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Set(companyID, valuation.SettingKey, in.Method); err != nil {
		return nil, err
	}
	return &dto.ValuationMethodResponse{Method: in.Method}, nil
}
