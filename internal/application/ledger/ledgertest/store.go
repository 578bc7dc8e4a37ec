// Package ledgertest provee dobles en memoria de los repositorios del ledger
// para las pruebas de los casos de uso. El TxRunner serializa las unidades de
// trabajo con un mutex y restaura el estado previo si fn falla, imitando el
// par bloqueo-de-fila / rollback de PostgreSQL.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

type posKey struct {
	companyID string
	key       entity.StockKey
}

// Store estado compartido de todos los dobles.
type Store struct {
	mu sync.Mutex

	positions    map[posKey]entity.StockPosition
	movements    []entity.Movement
	layers       []entity.ValuationLayer
	averages     map[string]entity.AverageCost
	settings     map[string]string
	reservations map[string]entity.Reservation
	transactions map[string]entity.InventoryTransaction
	products     map[string]entity.ProductVariant
	warehouses   map[string]entity.Warehouse
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		positions:    make(map[posKey]entity.StockPosition),
		averages:     make(map[string]entity.AverageCost),
		settings:     make(map[string]string),
		reservations: make(map[string]entity.Reservation),
		transactions: make(map[string]entity.InventoryTransaction),
		products:     make(map[string]entity.ProductVariant),
		warehouses:   make(map[string]entity.Warehouse),
	}
}

// AddProduct registra una variante para las validaciones de referencia.
func (s *Store) AddProduct(p entity.ProductVariant) { s.products[p.ID] = p }

// AddWarehouse registra una bodega para las validaciones de referencia.
func (s *Store) AddWarehouse(w entity.Warehouse) { s.warehouses[w.ID] = w }

// SetSetting fija una clave de configuración del tenant.
func (s *Store) SetSetting(companyID, key, value string) {
	s.settings[companyID+"|"+key] = value
}

// Repos devuelve los repositorios del ledger sobre este Store.
func (s *Store) Repos() ledger.Repos {
	return ledger.Repos{
		Movements:    &movementRepo{s},
		Positions:    &positionRepo{s},
		Layers:       &layerRepo{s},
		AverageCosts: &averageRepo{s},
		Settings:     &settingRepo{s},
		Reservations: &reservationRepo{s},
		Transactions: &transactionRepo{s},
	}
}

// Products repositorio de variantes.
func (s *Store) Products() repository.ProductVariantRepository { return &productRepo{s} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{s} }

// TxRunner devuelve un runner que serializa las unidades de trabajo con un
// mutex (equivalente in-memory del FOR UPDATE por clave) y restaura el estado
// si fn devuelve error (rollback).
func (s *Store) TxRunner() ledger.TxRunner { return &txRunner{s} }

type txRunner struct{ s *Store }

func (t *txRunner) Run(_ context.Context, fn func(r ledger.Repos) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(t.s.Repos()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	positions    map[posKey]entity.StockPosition
	movements    []entity.Movement
	layers       []entity.ValuationLayer
	averages     map[string]entity.AverageCost
	settings     map[string]string
	reservations map[string]entity.Reservation
	transactions map[string]entity.InventoryTransaction
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		positions:    make(map[posKey]entity.StockPosition, len(s.positions)),
		movements:    append([]entity.Movement(nil), s.movements...),
		layers:       append([]entity.ValuationLayer(nil), s.layers...),
		averages:     make(map[string]entity.AverageCost, len(s.averages)),
		settings:     make(map[string]string, len(s.settings)),
		reservations: make(map[string]entity.Reservation, len(s.reservations)),
		transactions: make(map[string]entity.InventoryTransaction, len(s.transactions)),
	}
	for k, v := range s.positions {
		snap.positions[k] = v
	}
	for k, v := range s.averages {
		snap.averages[k] = v
	}
	for k, v := range s.settings {
		snap.settings[k] = v
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	for k, v := range s.transactions {
		v.Lines = append([]entity.TransactionLine(nil), v.Lines...)
		snap.transactions[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.positions = snap.positions
	s.movements = snap.movements
	s.layers = snap.layers
	s.averages = snap.averages
	s.settings = snap.settings
	s.reservations = snap.reservations
	s.transactions = snap.transactions
}

// ── Posiciones ───────────────────────────────────────────────────────────────

type positionRepo struct{ s *Store }

func (r *positionRepo) Get(companyID string, key entity.StockKey) (*entity.StockPosition, error) {
	if p, ok := r.s.positions[posKey{companyID, key}]; ok {
		cp := p
		return &cp, nil
	}
	return &entity.StockPosition{CompanyID: companyID, Key: key, Quantity: decimal.Zero}, nil
}

func (r *positionRepo) GetForUpdate(companyID string, key entity.StockKey) (*entity.StockPosition, error) {
	return r.Get(companyID, key)
}

func (r *positionRepo) Upsert(position *entity.StockPosition) error {
	r.s.positions[posKey{position.CompanyID, position.Key}] = *position
	return nil
}

func (r *positionRepo) SumByProductWarehouse(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, p := range r.s.positions {
		if k.companyID == companyID && k.key.ProductID == productID && k.key.WarehouseID == warehouseID {
			total = total.Add(p.Quantity)
		}
	}
	return total, nil
}

func (r *positionRepo) SumByProductWarehouseForUpdate(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	return r.SumByProductWarehouse(companyID, productID, warehouseID)
}

func (r *positionRepo) List(companyID, warehouseID string) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	for k, p := range r.s.positions {
		if k.companyID != companyID {
			continue
		}
		if warehouseID != "" && k.key.WarehouseID != warehouseID {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.ProductID != out[j].Key.ProductID {
			return out[i].Key.ProductID < out[j].Key.ProductID
		}
		return out[i].Key.WarehouseID < out[j].Key.WarehouseID
	})
	return out, nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(m *entity.Movement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(companyID, id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) list(companyID string, match func(entity.Movement) bool, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.CompanyID != companyID || !match(m) {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *movementRepo) ListByWarehouse(companyID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(companyID, func(m entity.Movement) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r *movementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(companyID, func(m entity.Movement) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *movementRepo) CountByTransaction(companyID, transactionID string) (int, error) {
	count := 0
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.TransactionID == transactionID {
			count++
		}
	}
	return count, nil
}

// ── Capas de valoración ──────────────────────────────────────────────────────

type layerRepo struct{ s *Store }

func (r *layerRepo) Create(layer *entity.ValuationLayer) error {
	r.s.layers = append(r.s.layers, *layer)
	return nil
}

func (r *layerRepo) ListOpenForUpdate(companyID, productID, warehouseID string, newestFirst bool) ([]*entity.ValuationLayer, error) {
	var open []*entity.ValuationLayer
	for i := range r.s.layers {
		l := r.s.layers[i]
		if l.CompanyID == companyID && l.ProductID == productID && l.WarehouseID == warehouseID && l.QuantityRemaining.GreaterThan(decimal.Zero) {
			cp := l
			open = append(open, &cp)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if newestFirst {
			return open[i].ReceivedAt.After(open[j].ReceivedAt)
		}
		return open[i].ReceivedAt.Before(open[j].ReceivedAt)
	})
	return open, nil
}

func (r *layerRepo) UpdateRemaining(layerID string, remaining decimal.Decimal) error {
	for i := range r.s.layers {
		if r.s.layers[i].ID == layerID {
			r.s.layers[i].QuantityRemaining = remaining
			return nil
		}
	}
	return nil
}

func (r *layerRepo) TotalValue(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.s.layers {
		if l.CompanyID == companyID && l.ProductID == productID && l.WarehouseID == warehouseID {
			total = total.Add(l.QuantityRemaining.Mul(l.UnitCost))
		}
	}
	return total, nil
}

func (r *layerRepo) ListValues(companyID, warehouseID string) ([]repository.LayerValue, error) {
	type key struct{ productID, warehouseID string }
	sums := make(map[key]decimal.Decimal)
	var order []key
	for _, l := range r.s.layers {
		if l.CompanyID != companyID {
			continue
		}
		if warehouseID != "" && l.WarehouseID != warehouseID {
			continue
		}
		k := key{l.ProductID, l.WarehouseID}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(l.QuantityRemaining.Mul(l.UnitCost))
	}
	out := make([]repository.LayerValue, 0, len(order))
	for _, k := range order {
		out = append(out, repository.LayerValue{ProductID: k.productID, WarehouseID: k.warehouseID, TotalValue: sums[k]})
	}
	return out, nil
}

// ── Costo promedio ───────────────────────────────────────────────────────────

type averageRepo struct{ s *Store }

func avgKey(companyID, productID, warehouseID string) string {
	return companyID + "|" + productID + "|" + warehouseID
}

func (r *averageRepo) Get(companyID, productID, warehouseID string) (*entity.AverageCost, error) {
	if c, ok := r.s.averages[avgKey(companyID, productID, warehouseID)]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *averageRepo) Upsert(cost *entity.AverageCost) error {
	r.s.averages[avgKey(cost.CompanyID, cost.ProductID, cost.WarehouseID)] = *cost
	return nil
}

func (r *averageRepo) List(companyID string) ([]*entity.AverageCost, error) {
	var out []*entity.AverageCost
	for _, c := range r.s.averages {
		if c.CompanyID == companyID {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Configuración ────────────────────────────────────────────────────────────

type settingRepo struct{ s *Store }

func (r *settingRepo) Get(companyID, key string) (string, error) {
	return r.s.settings[companyID+"|"+key], nil
}

func (r *settingRepo) Set(companyID, key, value string) error {
	r.s.settings[companyID+"|"+key] = value
	return nil
}

// ── Reservas ─────────────────────────────────────────────────────────────────

type reservationRepo struct{ s *Store }

func (r *reservationRepo) Create(res *entity.Reservation) error {
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) GetByID(companyID, id string) (*entity.Reservation, error) {
	if res, ok := r.s.reservations[id]; ok && res.CompanyID == companyID {
		cp := res
		return &cp, nil
	}
	return nil, nil
}

func (r *reservationRepo) GetForUpdate(companyID, id string) (*entity.Reservation, error) {
	return r.GetByID(companyID, id)
}

func (r *reservationRepo) Update(res *entity.Reservation) error {
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) SumHolding(companyID, productID, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, res := range r.s.reservations {
		if res.CompanyID == companyID && res.ProductID == productID && res.WarehouseID == warehouseID && res.Status.CountsAgainstATP() {
			total = total.Add(res.Quantity)
		}
	}
	return total, nil
}

func (r *reservationRepo) ExpireDue(now time.Time) (int, error) {
	count := 0
	for id, res := range r.s.reservations {
		if res.Status == entity.ReservationStatusActive && res.ExpiresAt != nil && !res.ExpiresAt.After(now) {
			res.Status = entity.ReservationStatusExpired
			t := now
			res.ReleasedAt = &t
			r.s.reservations[id] = res
			count++
		}
	}
	return count, nil
}

func (r *reservationRepo) List(companyID, productID, warehouseID string, limit, offset int) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if res.CompanyID != companyID {
			continue
		}
		if productID != "" && res.ProductID != productID {
			continue
		}
		if warehouseID != "" && res.WarehouseID != warehouseID {
			continue
		}
		cp := res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservedAt.After(out[j].ReservedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── Transacciones ────────────────────────────────────────────────────────────

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(tx *entity.InventoryTransaction) error {
	cp := *tx
	cp.Lines = append([]entity.TransactionLine(nil), tx.Lines...)
	r.s.transactions[tx.ID] = cp
	return nil
}

func (r *transactionRepo) GetByID(companyID, id string) (*entity.InventoryTransaction, error) {
	if tx, ok := r.s.transactions[id]; ok && tx.CompanyID == companyID {
		cp := tx
		cp.Lines = append([]entity.TransactionLine(nil), tx.Lines...)
		return &cp, nil
	}
	return nil, nil
}

func (r *transactionRepo) GetForUpdate(companyID, id string) (*entity.InventoryTransaction, error) {
	return r.GetByID(companyID, id)
}

func (r *transactionRepo) UpdateStatus(companyID, id string, status entity.TransactionStatus) error {
	if tx, ok := r.s.transactions[id]; ok && tx.CompanyID == companyID {
		tx.Status = status
		tx.UpdatedAt = time.Now()
		r.s.transactions[id] = tx
	}
	return nil
}

func (r *transactionRepo) List(companyID string, status entity.TransactionStatus, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, tx := range r.s.transactions {
		if tx.CompanyID != companyID {
			continue
		}
		if status != "" && tx.Status != status {
			continue
		}
		cp := tx
		// El listado no carga líneas, igual que el adaptador de postgres.
		cp.Lines = nil
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── Datos maestros ───────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(p *entity.ProductVariant) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.ProductVariant, error) {
	if p, ok := r.s.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *productRepo) GetBySKU(companyID, sku string) (*entity.ProductVariant, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductVariant, error) {
	var out []*entity.ProductVariant
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if w, ok := r.s.warehouses[id]; ok {
		cp := w
		return &cp, nil
	}
	return nil, nil
}

func (r *warehouseRepo) ListByCompany(companyID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			cp := w
			out = append(out, &cp)
		}
	}
	return out, nil
}
