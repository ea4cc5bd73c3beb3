package operations_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/operations"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	whID       = "00000000-0000-0000-0000-0000000000aa"
	locA       = "00000000-0000-0000-0000-0000000000a1"
	locB       = "00000000-0000-0000-0000-0000000000a2"
	locVendor  = "00000000-0000-0000-0000-0000000000a9"
	prodTorn   = "00000000-0000-0000-0000-0000000000p1"
	prodCable  = "00000000-0000-0000-0000-0000000000p2"
	testUserID = "00000000-0000-0000-0000-0000000000u1"
)

// newFixture construye el caso de uso sobre fakes en memoria con una bodega,
// dos ubicaciones internas, una externa (VENDOR) y dos productos.
func newFixture(t *testing.T) (*operations.OperationUseCase, *memStore) {
	t.Helper()
	s := newMemStore()
	now := time.Now()
	s.warehouses[whID] = &entity.Warehouse{ID: whID, Code: "BOD-01", Name: "Principal", CreatedAt: now, UpdatedAt: now}
	s.locations[locA] = &entity.Location{ID: locA, WarehouseID: whID, Code: "STOCK-A", Kind: entity.LocationKindInternal}
	s.locations[locB] = &entity.Location{ID: locB, WarehouseID: whID, Code: "STOCK-B", Kind: entity.LocationKindInternal}
	s.locations[locVendor] = &entity.Location{ID: locVendor, WarehouseID: whID, Code: "PROV", Kind: entity.LocationKindVendor}
	s.products[prodTorn] = &entity.Product{ID: prodTorn, SKU: "TORN-M8", Name: "Tornillo M8", UnitMeasure: "UND"}
	s.products[prodCable] = &entity.Product{ID: prodCable, SKU: "CABLE-2M", Name: "Cable 2m", UnitMeasure: "UND"}

	uc := operations.NewOperationUseCase(
		&fakeTxRunner{s},
		&fakeOperationRepo{s},
		&fakeProductRepo{s},
		&fakeWarehouseRepo{s},
		&fakeLocationRepo{s},
		&fakeSequenceRepo{s},
		nil, // PDF no interviene en estos escenarios
	)
	return uc, s
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func strPtr(s string) *string { return &s }

func line(productID string, qty int64) dto.OperationLineRequest {
	return dto.OperationLineRequest{ProductID: productID, Quantity: dec(qty)}
}

// createOp crea un documento en DRAFT.
func createOp(t *testing.T, uc *operations.OperationUseCase, in dto.CreateOperationRequest) *dto.OperationResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), testUserID, in)
	require.NoError(t, err)
	require.Equal(t, "DRAFT", out.Status)
	return out
}

// toReady avanza DRAFT -> WAITING -> READY.
func toReady(t *testing.T, uc *operations.OperationUseCase, id string) {
	t.Helper()
	_, err := uc.Transition(context.Background(), id, operation.StatusWaiting, testUserID)
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), id, operation.StatusReady, testUserID)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaNumeroPorTipo(t *testing.T) {
	uc, _ := newFixture(t)

	rec := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 5)},
	})
	assert.Equal(t, "REC-00001", rec.Number)

	rec2 := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 5)},
	})
	assert.Equal(t, "REC-00002", rec2.Number, "el secuenciador debe avanzar por tipo")

	ent := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	assert.Equal(t, "ENT-00001", ent.Number, "cada tipo lleva su propio contador")
}

func TestList_TotalCuentaTodoElFiltroNoSoloLaPagina(t *testing.T) {
	uc, _ := newFixture(t)

	for i := 0; i < 3; i++ {
		createOp(t, uc, dto.CreateOperationRequest{
			Kind: "RECEIPT", WarehouseID: whID,
			DestinationLocationID: strPtr(locA),
			Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
		})
	}
	createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 1)},
	})

	out, err := uc.List(context.Background(), repository.OperationFilter{
		Kind: operation.KindReceipt, Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2, "la página respeta el límite")
	assert.Equal(t, 3, out.Page.Total, "el total es el del filtro completo, no el de la página")

	all, err := uc.List(context.Background(), repository.OperationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)
	assert.Equal(t, 4, all.Page.Total)
}

func TestCreate_RechazaEntradasInvalidas(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, testUserID, dto.CreateOperationRequest{Kind: "VENTA", WarehouseID: whID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = uc.Create(ctx, testUserID, dto.CreateOperationRequest{Kind: "RECEIPT", WarehouseID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "bodega inexistente")

	_, err = uc.Create(ctx, testUserID, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		Lines: []dto.OperationLineRequest{line(prodTorn, 0)},
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "cantidad cero en línea de movimiento")

	_, err = uc.Create(ctx, testUserID, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		Lines: []dto.OperationLineRequest{line("prod-fantasma", 3)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

func TestCreate_AjusteAdmiteConteoCeroPeroNoNegativo(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, testUserID, dto.CreateOperationRequest{
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 0)},
	})
	require.NoError(t, err, "un conteo físico de cero es válido")
	assert.Equal(t, "AJU-00001", out.Number)

	_, err = uc.Create(ctx, testUserID, dto.CreateOperationRequest{
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines: []dto.OperationLineRequest{{
			ProductID: prodTorn, Quantity: decimal.NewFromInt(-1),
		}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "un conteo negativo no existe")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación (READY -> DONE) por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestDone_Recepcion_SumaEnDestino(t *testing.T) {
	uc, s := newFixture(t)

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 7)},
	})
	toReady(t, uc, op.ID)

	out, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "DONE", out.Status)
	require.NotNil(t, out.ValidatedBy)
	assert.Equal(t, testUserID, *out.ValidatedBy)
	assert.NotNil(t, out.ValidatedAt)

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(7)))

	moves := s.movesFor(op.ID)
	require.Len(t, moves, 1)
	assert.Nil(t, moves[0].FromLocationID, "una recepción no tiene origen interno")
	require.NotNil(t, moves[0].ToLocationID)
	assert.Equal(t, locA, *moves[0].ToLocationID)
	assert.True(t, moves[0].Quantity.Equal(dec(7)))
	assert.Equal(t, testUserID, moves[0].CreatedBy)
}

func TestDone_Entrega_RestaYRegistraMovimiento(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(10))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 4)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(6)))
	moves := s.movesFor(op.ID)
	require.Len(t, moves, 1)
	require.NotNil(t, moves[0].FromLocationID)
	assert.Equal(t, locA, *moves[0].FromLocationID)
	assert.Nil(t, moves[0].ToLocationID, "una entrega no tiene destino interno")
	assert.True(t, moves[0].Quantity.Equal(dec(4)))
}

func TestDone_Entrega_StockInsuficiente_NoCambiaNada(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(3))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 5)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, prodTorn, insuf.ProductID)
	assert.True(t, insuf.Available.Equal(dec(3)))
	assert.True(t, insuf.Required.Equal(dec(5)))

	// Nada cambió: ni saldo, ni libro, ni estado.
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(3)))
	assert.Empty(t, s.movesFor(op.ID))
	cur, err := uc.GetByID(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", cur.Status, "el documento queda en READY para corregir y reintentar")
	assert.Nil(t, cur.ValidatedBy)
}

func TestDone_Entrega_VariasLineasMismoParComponen(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(10))

	// 6 + 5 = 11 > 10: la segunda línea debe ver el compromiso de la primera.
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines: []dto.OperationLineRequest{
			line(prodTorn, 6),
			line(prodTorn, 5),
		},
	})
	toReady(t, uc, op.ID)
	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(10)))

	// 6 + 4 = 10: justo el disponible, debe pasar y dejar el saldo en cero.
	op2 := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines: []dto.OperationLineRequest{
			line(prodTorn, 6),
			line(prodTorn, 4),
		},
	})
	toReady(t, uc, op2.ID)
	_, err = uc.Transition(context.Background(), op2.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(0)))
	assert.Len(t, s.movesFor(op2.ID), 2)
}

func TestDone_Traslado_UnSoloAsientoConAmbasUbicaciones(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(5))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "TRANSFER", WarehouseID: whID,
		SourceLocationID:      strPtr(locA),
		DestinationLocationID: strPtr(locB),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 2)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(3)))
	assert.True(t, s.balance(prodTorn, locB).Equal(dec(2)))

	moves := s.movesFor(op.ID)
	require.Len(t, moves, 1, "un traslado es un único asiento, no dos")
	require.NotNil(t, moves[0].FromLocationID)
	require.NotNil(t, moves[0].ToLocationID)
	assert.Equal(t, locA, *moves[0].FromLocationID)
	assert.Equal(t, locB, *moves[0].ToLocationID)
}

func TestDone_Traslado_InsuficienteNoMueveNada(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(1))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "TRANSFER", WarehouseID: whID,
		SourceLocationID:      strPtr(locA),
		DestinationLocationID: strPtr(locB),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 2)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(1)))
	assert.True(t, s.balance(prodTorn, locB).Equal(dec(0)))
	assert.Empty(t, s.movesFor(op.ID))
}

func TestDone_Ajuste_EscribeConteoYMovimientoConDiferencia(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(10))

	// Conteo por debajo del saldo: desapareció stock.
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 7)},
	})
	toReady(t, uc, op.ID)
	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(7)), "el conteo se escribe en absoluto")
	moves := s.movesFor(op.ID)
	require.Len(t, moves, 1)
	require.NotNil(t, moves[0].FromLocationID, "diferencia negativa: sale stock")
	assert.Nil(t, moves[0].ToLocationID)
	assert.True(t, moves[0].Quantity.Equal(dec(3)), "el movimiento lleva la diferencia, no el conteo")

	// Conteo por encima: apareció stock.
	op2 := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 9)},
	})
	toReady(t, uc, op2.ID)
	_, err = uc.Transition(context.Background(), op2.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(9)))
	moves2 := s.movesFor(op2.ID)
	require.Len(t, moves2, 1)
	assert.Nil(t, moves2[0].FromLocationID)
	require.NotNil(t, moves2[0].ToLocationID, "diferencia positiva: entra stock")
	assert.True(t, moves2[0].Quantity.Equal(dec(2)))
}

func TestDone_Ajuste_SinDiferenciaNoRegistraMovimiento(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(10))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 10)},
	})
	toReady(t, uc, op.ID)
	out, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	assert.Equal(t, "DONE", out.Status, "el documento se valida aunque no haya diferencia")
	assert.Empty(t, s.movesFor(op.ID), "diferencia cero: sin asiento en el libro")
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados en Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_AristaInvalida(t *testing.T) {
	uc, _ := newFixture(t)
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
	})

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "DRAFT", invalid.From)
	assert.Equal(t, "DONE", invalid.To)
}

// La máquina de estados dictamina antes que la resolución de ubicaciones:
// pedir DONE desde un estado sin esa arista es arista inválida aunque el
// documento tampoco tenga ubicaciones resolubles.
func TestTransition_AristaInvalidaPrevaleceSobreUbicacionFaltante(t *testing.T) {
	uc, _ := newFixture(t)

	// Entrega en DRAFT, sin origen ni en línea ni en cabecera.
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		Lines: []dto.OperationLineRequest{line(prodTorn, 1)},
	})

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NotErrorIs(t, err, domain.ErrMissingLocation)

	// Desde WAITING el veredicto es el mismo.
	_, err = uc.Transition(context.Background(), op.ID, operation.StatusWaiting, testUserID)
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NotErrorIs(t, err, domain.ErrMissingLocation)
}

func TestTransition_DocumentoTerminalRespondeAlreadyTerminal(t *testing.T) {
	uc, _ := newFixture(t)
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	toReady(t, uc, op.ID)
	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	// Cualquier transición sobre un terminal distingue "ya terminó" de
	// "arista inválida".
	_, err = uc.Transition(context.Background(), op.ID, operation.StatusCanceled, testUserID)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_CancelarNoTocaStock(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(10))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 4)},
	})
	toReady(t, uc, op.ID)

	out, err := uc.Transition(context.Background(), op.ID, operation.StatusCanceled, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", out.Status)
	require.NotNil(t, out.ValidatedBy, "cancelar estampa quién lo hizo")

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(10)))
	assert.Empty(t, s.movesFor(op.ID))
}

func TestTransition_DoneSinLineasRechazado(t *testing.T) {
	uc, _ := newFixture(t)
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	cur, err := uc.GetByID(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", cur.Status)

	// Sin líneas sí puede cancelarse.
	_, err = uc.Transition(context.Background(), op.ID, operation.StatusCanceled, testUserID)
	assert.NoError(t, err)
}

func TestTransition_NoExisteRespondeNotFound(t *testing.T) {
	uc, _ := newFixture(t)
	_, err := uc.Transition(context.Background(), "no-existe", operation.StatusWaiting, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestDone_SinUbicacionResoluble(t *testing.T) {
	uc, _ := newFixture(t)

	// Entrega sin origen ni en línea ni en cabecera.
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		Lines: []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingLocation)
	assert.ErrorIs(t, err, domain.ErrValidation, "ubicación ausente es un error de validación")

	var missing *domain.MissingLocationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, prodTorn, missing.ProductID)
	assert.Equal(t, "origen", missing.Side)
}

func TestDone_OverrideDeLineaPrevaleceSobreCabecera(t *testing.T) {
	uc, s := newFixture(t)

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines: []dto.OperationLineRequest{
			line(prodTorn, 5),
			{ProductID: prodCable, Quantity: dec(3), DestinationLocationID: strPtr(locB)},
		},
	})
	toReady(t, uc, op.ID)
	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)

	assert.True(t, s.balance(prodTorn, locA).Equal(dec(5)), "sin override usa el default de cabecera")
	assert.True(t, s.balance(prodCable, locB).Equal(dec(3)), "el override de línea manda")
	assert.True(t, s.balance(prodCable, locA).Equal(dec(0)))
}

func TestDone_UbicacionNoInternaRechazada(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locVendor, dec(10))

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locVendor),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	assert.ErrorIs(t, err, domain.ErrValidation,
		"solo ubicaciones internas acumulan stock; VENDOR/CUSTOMER/SCRAP no operan saldos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y borrado según estado
// ──────────────────────────────────────────────────────────────────────────────

func TestEdicion_SoloDraftYWaiting(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
	})

	// En DRAFT y WAITING se puede editar.
	_, err := uc.ReplaceLines(ctx, op.ID, dto.ReplaceLinesRequest{
		Lines: []dto.OperationLineRequest{line(prodTorn, 2)},
	})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, op.ID, operation.StatusWaiting, testUserID)
	require.NoError(t, err)
	_, err = uc.UpdateHeader(ctx, op.ID, dto.UpdateOperationHeaderRequest{Partner: strPtr("Proveedor X")})
	require.NoError(t, err)

	// En READY ya no.
	_, err = uc.Transition(ctx, op.ID, operation.StatusReady, testUserID)
	require.NoError(t, err)
	_, err = uc.ReplaceLines(ctx, op.ID, dto.ReplaceLinesRequest{
		Lines: []dto.OperationLineRequest{line(prodTorn, 3)},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// En DONE el error distingue terminal.
	_, err = uc.Transition(ctx, op.ID, operation.StatusDone, testUserID)
	require.NoError(t, err)
	_, err = uc.UpdateHeader(ctx, op.ID, dto.UpdateOperationHeaderRequest{Partner: strPtr("Otro")})
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

func TestDelete_SoloDraft(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	require.NoError(t, uc.Delete(ctx, op.ID))
	_, err := uc.GetByID(ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	op2 := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 1)},
	})
	_, err = uc.Transition(ctx, op2.ID, operation.StatusWaiting, testUserID)
	require.NoError(t, err)
	err = uc.Delete(ctx, op2.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "desde WAITING solo puede cancelarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad: el saldo es la suma con signo del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestPropiedad_SaldoIgualASumaDelLibro(t *testing.T) {
	uc, s := newFixture(t)
	ctx := context.Background()

	run := func(in dto.CreateOperationRequest) {
		t.Helper()
		op := createOp(t, uc, in)
		toReady(t, uc, op.ID)
		_, err := uc.Transition(ctx, op.ID, operation.StatusDone, testUserID)
		require.NoError(t, err)
	}

	run(dto.CreateOperationRequest{ // +20 en A
		Kind: "RECEIPT", WarehouseID: whID,
		DestinationLocationID: strPtr(locA),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 20)},
	})
	run(dto.CreateOperationRequest{ // A -> B por 8
		Kind: "TRANSFER", WarehouseID: whID,
		SourceLocationID:      strPtr(locA),
		DestinationLocationID: strPtr(locB),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 8)},
	})
	run(dto.CreateOperationRequest{ // -5 desde A
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines:            []dto.OperationLineRequest{line(prodTorn, 5)},
	})
	run(dto.CreateOperationRequest{ // conteo 6 en B (estaba en 8)
		Kind: "ADJUSTMENT", WarehouseID: whID,
		DestinationLocationID: strPtr(locB),
		Lines:                 []dto.OperationLineRequest{line(prodTorn, 6)},
	})

	for _, loc := range []string{locA, locB} {
		assert.True(t, s.balance(prodTorn, loc).Equal(s.ledgerSum(prodTorn, loc)),
			"saldo %s != suma del libro %s en %s",
			s.balance(prodTorn, loc), s.ledgerSum(prodTorn, loc), loc)
	}
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(7)))
	assert.True(t, s.balance(prodTorn, locB).Equal(dec(6)))
}

// Un error cualquiera dentro de la tx revierte también el cambio de estado.
func TestTransition_FalloDentroDeTxRevierteTodo(t *testing.T) {
	uc, s := newFixture(t)
	s.setQuant(prodTorn, locA, dec(2))
	s.setQuant(prodCable, locA, dec(10))

	// La primera línea pasa, la segunda no: nada debe persistir.
	op := createOp(t, uc, dto.CreateOperationRequest{
		Kind: "DELIVERY", WarehouseID: whID,
		SourceLocationID: strPtr(locA),
		Lines: []dto.OperationLineRequest{
			line(prodCable, 4),
			line(prodTorn, 5),
		},
	})
	toReady(t, uc, op.ID)

	_, err := uc.Transition(context.Background(), op.ID, operation.StatusDone, testUserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, s.balance(prodCable, locA).Equal(dec(10)), "la línea válida tampoco se aplica")
	assert.True(t, s.balance(prodTorn, locA).Equal(dec(2)))
	assert.Empty(t, s.movesFor(op.ID))
}
