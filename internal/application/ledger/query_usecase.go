package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/domain/valuation"
)

// QueryUseCase lecturas del ledger: cantidad actual, valoración vigente,
// reporte de valoración e historial de movimientos. Solo camino de lectura:
// usa el agregado materializado y nunca recalcula desde el log.
type QueryUseCase struct {
	positionRepo  repository.StockPositionRepository
	movementRepo  repository.MovementRepository
	layerRepo     repository.ValuationLayerRepository
	averageRepo   repository.AverageCostRepository
	settingRepo   repository.SettingRepository
	defaultMethod valuation.Method
}

// NewQueryUseCase construye el caso de uso con repositorios atados al pool.
func NewQueryUseCase(
	positionRepo repository.StockPositionRepository,
	movementRepo repository.MovementRepository,
	layerRepo repository.ValuationLayerRepository,
	averageRepo repository.AverageCostRepository,
	settingRepo repository.SettingRepository,
	defaultMethod string,
) *QueryUseCase {
	return &QueryUseCase{
		positionRepo:  positionRepo,
		movementRepo:  movementRepo,
		layerRepo:     layerRepo,
		averageRepo:   averageRepo,
		settingRepo:   settingRepo,
		defaultMethod: valuation.ParseMethod(defaultMethod),
	}
}

func (uc *QueryUseCase) methodFor(companyID string) valuation.Method {
	raw, err := uc.settingRepo.Get(companyID, valuation.SettingKey)
	if err != nil || raw == "" {
		return uc.defaultMethod
	}
	return valuation.ParseMethod(raw)
}

// CurrentQuantity devuelve el agregado cacheado de la clave.
func (uc *QueryUseCase) CurrentQuantity(_ context.Context, companyID string, key entity.StockKey) (*dto.StockResponse, error) {
	if key.ProductID == "" || key.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	position, err := uc.positionRepo.Get(companyID, key)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID:   key.ProductID,
		WarehouseID: key.WarehouseID,
		LocationID:  key.LocationID,
		BatchID:     key.BatchID,
		Quantity:    position.Quantity,
	}, nil
}

// CurrentValuation valoración vigente de (producto, bodega): costo unitario
// promedio en WEIGHTED_AVERAGE, valor total de capas en FIFO/LIFO.
func (uc *QueryUseCase) CurrentValuation(_ context.Context, companyID, productID, warehouseID string) (*dto.ValuationResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	method := uc.methodFor(companyID)
	value := decimal.Zero
	if method.IsLayered() {
		total, err := uc.layerRepo.TotalValue(companyID, productID, warehouseID)
		if err != nil {
			return nil, err
		}
		value = total
	} else {
		avg, err := uc.averageRepo.Get(companyID, productID, warehouseID)
		if err != nil {
			return nil, err
		}
		if avg != nil {
			value = avg.UnitCost
		}
	}
	return &dto.ValuationResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Method:      string(method),
		Value:       value,
	}, nil
}

// ValuationReport agrupa posiciones por (producto, bodega), suma cantidades y
// deriva costo unitario y valor total según el método del tenant. Grupos con
// cantidad cero se omiten.
func (uc *QueryUseCase) ValuationReport(_ context.Context, companyID, warehouseID string) ([]dto.ValuationReportRow, error) {
	positions, err := uc.positionRepo.List(companyID, warehouseID)
	if err != nil {
		return nil, err
	}

	type groupKey struct{ productID, warehouseID string }
	sums := make(map[groupKey]decimal.Decimal)
	order := make([]groupKey, 0, len(positions))
	for _, p := range positions {
		k := groupKey{p.Key.ProductID, p.Key.WarehouseID}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(p.Quantity)
	}

	// Una sola consulta de costos por método: valores de capas en FIFO/LIFO,
	// promedios de la empresa completa en WEIGHTED_AVERAGE.
	method := uc.methodFor(companyID)
	var layerValues map[groupKey]decimal.Decimal
	var averages map[groupKey]decimal.Decimal
	if method.IsLayered() {
		values, err := uc.layerRepo.ListValues(companyID, warehouseID)
		if err != nil {
			return nil, err
		}
		layerValues = make(map[groupKey]decimal.Decimal, len(values))
		for _, v := range values {
			layerValues[groupKey{v.ProductID, v.WarehouseID}] = v.TotalValue
		}
	} else {
		costs, err := uc.averageRepo.List(companyID)
		if err != nil {
			return nil, err
		}
		averages = make(map[groupKey]decimal.Decimal, len(costs))
		for _, c := range costs {
			averages[groupKey{c.ProductID, c.WarehouseID}] = c.UnitCost
		}
	}

	rows := make([]dto.ValuationReportRow, 0, len(order))
	for _, k := range order {
		qty := sums[k]
		if qty.IsZero() {
			continue
		}
		var unitCost, totalValue decimal.Decimal
		if method.IsLayered() {
			totalValue = layerValues[k]
			unitCost = valuation.UnitCostFor(totalValue, qty)
		} else {
			unitCost = averages[k]
			totalValue = qty.Mul(unitCost)
		}
		rows = append(rows, dto.ValuationReportRow{
			ProductID:   k.productID,
			WarehouseID: k.warehouseID,
			Quantity:    qty,
			UnitCost:    unitCost,
			TotalValue:  totalValue,
		})
	}
	return rows, nil
}

// GetMovement consulta un registro del log por ID.
func (uc *QueryUseCase) GetMovement(_ context.Context, companyID, id string) (*dto.MovementResponse, error) {
	movement, err := uc.movementRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	out := ToMovementResponse(movement)
	return &out, nil
}

// ListMovements historial por producto o por bodega con rango de fechas y
// paginación. Exactamente uno de productID/warehouseID debe venir.
func (uc *QueryUseCase) ListMovements(_ context.Context, companyID, productID, warehouseID string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementResponse, error) {
	page.DefaultPage()
	var (
		movements []*entity.Movement
		err       error
	)
	switch {
	case productID != "":
		movements, err = uc.movementRepo.ListByProduct(companyID, productID, from, to, page.Limit, page.Offset)
	case warehouseID != "":
		movements, err = uc.movementRepo.ListByWarehouse(companyID, warehouseID, from, to, page.Limit, page.Offset)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse mapea la entidad al DTO de respuesta.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		LocationID:    m.LocationID,
		BatchID:       m.BatchID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Reason:        m.Reason,
		ReferenceID:   m.ReferenceID,
		Date:          m.Date,
	}
}
