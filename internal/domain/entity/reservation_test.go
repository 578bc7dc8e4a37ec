package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func TestReservationTransition_CaminosValidos(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		from entity.ReservationStatus
		to   entity.ReservationStatus
	}{
		{"pending a active", entity.ReservationStatusPending, entity.ReservationStatusActive},
		{"pending a released", entity.ReservationStatusPending, entity.ReservationStatusReleased},
		{"pending a cancelled", entity.ReservationStatusPending, entity.ReservationStatusCancelled},
		{"active a released", entity.ReservationStatusActive, entity.ReservationStatusReleased},
		{"active a fulfilled", entity.ReservationStatusActive, entity.ReservationStatusFulfilled},
		{"active a cancelled", entity.ReservationStatusActive, entity.ReservationStatusCancelled},
		{"active a expired", entity.ReservationStatusActive, entity.ReservationStatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &entity.Reservation{Status: tc.from}
			require.NoError(t, r.Transition(tc.to, now))
			assert.Equal(t, tc.to, r.Status)
			if tc.to.IsTerminal() {
				require.NotNil(t, r.ReleasedAt)
				assert.Equal(t, now, *r.ReleasedAt)
			} else {
				assert.Nil(t, r.ReleasedAt)
			}
		})
	}
}

func TestReservationTransition_EstadosTerminalesSonFinales(t *testing.T) {
	now := time.Now()
	terminals := []entity.ReservationStatus{
		entity.ReservationStatusExpired,
		entity.ReservationStatusReleased,
		entity.ReservationStatusFulfilled,
		entity.ReservationStatusCancelled,
	}
	for _, from := range terminals {
		r := &entity.Reservation{Status: from}
		err := r.Transition(entity.ReservationStatusActive, now)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "desde %s", from)
		assert.Equal(t, from, r.Status, "el estado no cambia en un intento inválido")
	}
}

func TestReservationTransition_CaminosInvalidos(t *testing.T) {
	now := time.Now()

	// PENDING nunca expira: el sweeper solo barre reservas ACTIVE.
	r := &entity.Reservation{Status: entity.ReservationStatusPending}
	assert.ErrorIs(t, r.Transition(entity.ReservationStatusExpired, now), domain.ErrInvalidState)

	// Un destino fuera del conjunto cerrado siempre falla.
	r = &entity.Reservation{Status: entity.ReservationStatusActive}
	assert.ErrorIs(t, r.Transition(entity.ReservationStatus("FROZEN"), now), domain.ErrInvalidState)
}

func TestCountsAgainstATP(t *testing.T) {
	assert.True(t, entity.ReservationStatusPending.CountsAgainstATP())
	assert.True(t, entity.ReservationStatusActive.CountsAgainstATP())
	assert.False(t, entity.ReservationStatusExpired.CountsAgainstATP())
	assert.False(t, entity.ReservationStatusReleased.CountsAgainstATP())
	assert.False(t, entity.ReservationStatusFulfilled.CountsAgainstATP())
	assert.False(t, entity.ReservationStatusCancelled.CountsAgainstATP())
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	activa := &entity.Reservation{Status: entity.ReservationStatusActive, ExpiresAt: &past}
	assert.True(t, activa.IsExpiredAt(now))

	vigente := &entity.Reservation{Status: entity.ReservationStatusActive, ExpiresAt: &future}
	assert.False(t, vigente.IsExpiredAt(now))

	sinVencimiento := &entity.Reservation{Status: entity.ReservationStatusActive}
	assert.False(t, sinVencimiento.IsExpiredAt(now))

	pendiente := &entity.Reservation{Status: entity.ReservationStatusPending, ExpiresAt: &past}
	assert.False(t, pendiente.IsExpiredAt(now), "solo ACTIVE puede expirar")
}
