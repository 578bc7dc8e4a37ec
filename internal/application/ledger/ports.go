package ledger

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD. El motor del
// ledger los recibe juntos: aplicar un movimiento toca posición, log de
// movimientos y valoración en la misma unidad de trabajo.
type Repos struct {
	Movements    repository.MovementRepository
	Positions    repository.StockPositionRepository
	Layers       repository.ValuationLayerRepository
	AverageCosts repository.AverageCostRepository
	Settings     repository.SettingRepository
	Reservations repository.ReservationRepository
	Transactions repository.TransactionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn retorna nil; Rollback si falla.
// Garantiza atomicidad para el motor de inventario: una confirmación de
// varias líneas que falla a mitad no deja mutación parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
