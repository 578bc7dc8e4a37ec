package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func TestCanConfirm(t *testing.T) {
	cases := []struct {
		status entity.TransactionStatus
		want   error
	}{
		{entity.TransactionStatusDraft, nil},
		{entity.TransactionStatusApproved, nil},
		{entity.TransactionStatusCompleted, domain.ErrAlreadyCompleted},
		{entity.TransactionStatusCancelled, domain.ErrInvalidState},
		{entity.TransactionStatusPendingApproval, domain.ErrInvalidState},
	}
	for _, tc := range cases {
		tx := &entity.InventoryTransaction{Status: tc.status}
		err := tx.CanConfirm()
		if tc.want == nil {
			assert.NoError(t, err, "estado %s", tc.status)
		} else {
			assert.ErrorIs(t, err, tc.want, "estado %s", tc.status)
		}
	}
}

func TestCanCancel(t *testing.T) {
	cancelables := []entity.TransactionStatus{
		entity.TransactionStatusDraft,
		entity.TransactionStatusPendingApproval,
		entity.TransactionStatusApproved,
	}
	for _, status := range cancelables {
		tx := &entity.InventoryTransaction{Status: status}
		assert.NoError(t, tx.CanCancel(), "estado %s", status)
	}

	// COMPLETED ya movió stock y CANCELLED es terminal.
	for _, status := range []entity.TransactionStatus{entity.TransactionStatusCompleted, entity.TransactionStatusCancelled} {
		tx := &entity.InventoryTransaction{Status: status}
		assert.ErrorIs(t, tx.CanCancel(), domain.ErrInvalidState, "estado %s", status)
	}
}

func TestValidateWarehouses(t *testing.T) {
	cases := []struct {
		name   string
		txType entity.TransactionType
		source string
		dest   string
		wantOK bool
	}{
		{"inbound con destino", entity.TransactionTypeInbound, "", "w-2", true},
		{"inbound sin destino", entity.TransactionTypeInbound, "w-1", "", false},
		{"outbound con origen", entity.TransactionTypeOutbound, "w-1", "", true},
		{"outbound sin origen", entity.TransactionTypeOutbound, "", "w-2", false},
		{"ajuste con origen", entity.TransactionTypeAdjustment, "w-1", "", true},
		{"ajuste sin origen", entity.TransactionTypeAdjustment, "", "", false},
		{"transfer con ambas", entity.TransactionTypeTransfer, "w-1", "w-2", true},
		{"transfer sin origen", entity.TransactionTypeTransfer, "", "w-2", false},
		{"transfer sin destino", entity.TransactionTypeTransfer, "w-1", "", false},
		{"transfer misma bodega", entity.TransactionTypeTransfer, "w-1", "w-1", false},
		{"tipo desconocido", entity.TransactionType("MAGIA"), "w-1", "w-2", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := &entity.InventoryTransaction{
				Type:                   tc.txType,
				SourceWarehouseID:      tc.source,
				DestinationWarehouseID: tc.dest,
			}
			err := tx.ValidateWarehouses()
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestTransactionTypeIsValid(t *testing.T) {
	for _, tt := range []entity.TransactionType{
		entity.TransactionTypeInbound,
		entity.TransactionTypeOutbound,
		entity.TransactionTypeTransfer,
		entity.TransactionTypeAdjustment,
	} {
		assert.True(t, tt.IsValid())
	}
	assert.False(t, entity.TransactionType("").IsValid())
	assert.False(t, entity.TransactionType("inbound").IsValid(), "sensible a mayúsculas")
}
