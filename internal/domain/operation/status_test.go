package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/operation"
)

// Matriz completa de transiciones: toda arista no listada está prohibida.
func TestCanTransition_MatrizCompleta(t *testing.T) {
	allowed := map[operation.Status][]operation.Status{
		operation.StatusDraft:   {operation.StatusWaiting, operation.StatusCanceled},
		operation.StatusWaiting: {operation.StatusReady, operation.StatusCanceled},
		operation.StatusReady:   {operation.StatusDone, operation.StatusCanceled},
	}
	all := []operation.Status{
		operation.StatusDraft, operation.StatusWaiting, operation.StatusReady,
		operation.StatusDone, operation.StatusCanceled,
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			got := operation.CanTransition(from, to)
			assert.Equal(t, want, got, "transición %s -> %s", from, to)
		}
	}
}

// DONE y CANCELED no tienen aristas de salida, ni siquiera entre ellos.
func TestCanTransition_TerminalesSinSalida(t *testing.T) {
	targets := []operation.Status{
		operation.StatusDraft, operation.StatusWaiting, operation.StatusReady,
		operation.StatusDone, operation.StatusCanceled,
	}
	for _, terminal := range []operation.Status{operation.StatusDone, operation.StatusCanceled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range targets {
			assert.False(t, operation.CanTransition(terminal, to),
				"%s es terminal, no debe permitir salida a %s", terminal, to)
		}
	}
}

// No se puede saltar estados: DRAFT debe pasar por WAITING y READY antes de DONE.
func TestCanTransition_SinSaltos(t *testing.T) {
	assert.False(t, operation.CanTransition(operation.StatusDraft, operation.StatusReady))
	assert.False(t, operation.CanTransition(operation.StatusDraft, operation.StatusDone))
	assert.False(t, operation.CanTransition(operation.StatusWaiting, operation.StatusDone))
}

// No hay aristas hacia atrás.
func TestCanTransition_SinRetrocesos(t *testing.T) {
	assert.False(t, operation.CanTransition(operation.StatusWaiting, operation.StatusDraft))
	assert.False(t, operation.CanTransition(operation.StatusReady, operation.StatusWaiting))
	assert.False(t, operation.CanTransition(operation.StatusReady, operation.StatusDraft))
}

func TestStatus_EditableYDeletable(t *testing.T) {
	assert.True(t, operation.StatusDraft.Editable())
	assert.True(t, operation.StatusWaiting.Editable())
	assert.False(t, operation.StatusReady.Editable())
	assert.False(t, operation.StatusDone.Editable())
	assert.False(t, operation.StatusCanceled.Editable())

	// Solo DRAFT se borra; desde WAITING en adelante solo se cancela.
	assert.True(t, operation.StatusDraft.Deletable())
	assert.False(t, operation.StatusWaiting.Deletable())
	assert.False(t, operation.StatusReady.Deletable())
}

func TestKind_Prefix(t *testing.T) {
	assert.Equal(t, "REC", operation.KindReceipt.Prefix())
	assert.Equal(t, "ENT", operation.KindDelivery.Prefix())
	assert.Equal(t, "TRA", operation.KindTransfer.Prefix())
	assert.Equal(t, "AJU", operation.KindAdjustment.Prefix())
}

func TestValidKindYValidStatus(t *testing.T) {
	assert.True(t, operation.ValidKind(operation.KindReceipt))
	assert.False(t, operation.ValidKind(operation.Kind("VENTA")))
	assert.False(t, operation.ValidKind(operation.Kind("")))

	assert.True(t, operation.ValidStatus(operation.StatusReady))
	assert.False(t, operation.ValidStatus(operation.Status("ARCHIVED")))
}
