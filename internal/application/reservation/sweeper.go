package reservation

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// Sweeper barrido periódico de reservas vencidas. Única tarea de fondo del
// subsistema: no requiere lock global, solo la actualización en bloque
// idempotente de SweepExpired.
type Sweeper struct {
	uc       *UseCase
	interval time.Duration
	log      *logger.Logger
}

// NewSweeper construye el barrido con el intervalo configurado.
func NewSweeper(uc *UseCase, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{uc: uc, interval: interval, log: log}
}

// Run ejecuta el barrido en intervalos fijos hasta que el contexto se cancele.
// Pensado para correr en una goroutine desde main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("barrido de reservas iniciado")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("barrido de reservas detenido")
			return
		case <-ticker.C:
			expired, err := s.uc.SweepExpired(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("barrido de reservas vencidas")
				continue
			}
			if expired > 0 {
				s.log.Info().Int("expired", expired).Msg("reservas vencidas transicionadas")
			}
		}
	}
}
