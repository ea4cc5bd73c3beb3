package operations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Motor de validación: calcula los movimientos que implican las líneas del
// documento, verifica disponibilidad en las salidas y aplica saldos + libro
// como una sola unidad atómica (la tx la abre Transition, en usecase.go).
//
// Disciplina por tipo:
//   - RECEIPT:    suma en destino, movimiento solo con To.
//   - DELIVERY:   pre-chequeo de disponibilidad en TODAS las líneas antes de
//     mutar nada; luego resta en origen, movimiento solo con From.
//   - TRANSFER:   pierna de salida + pierna de entrada en un mismo movimiento
//     (From y To poblados), con el mismo pre-chequeo.
//   - ADJUSTMENT: la cantidad de línea es el conteo físico (valor absoluto);
//     se escribe el saldo directamente y el movimiento lleva la diferencia
//     con signo. Nunca falla por stock insuficiente.

// commitContext agrupa el estado de una validación en curso. locked cachea
// las filas de saldo ya bloqueadas (SELECT FOR UPDATE) por clave
// producto|ubicación, de modo que varias líneas sobre el mismo par componen
// sus efectos en lugar de pisarse.
type commitContext struct {
	op        *entity.Operation
	quantRepo repository.StockQuantRepository
	moveRepo  repository.StockMoveRepository
	userID    string
	now       time.Time
	locked    map[string]*entity.StockQuant
}

func quantKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// quant devuelve la fila de saldo bloqueada para el par, bloqueándola en el
// primer acceso. La fila se crea perezosamente en cero si no existe.
func (cc *commitContext) quant(productID, locationID string) (*entity.StockQuant, error) {
	key := quantKey(productID, locationID)
	if q, ok := cc.locked[key]; ok {
		return q, nil
	}
	q, err := cc.quantRepo.GetForUpdate(productID, locationID)
	if err != nil {
		return nil, err
	}
	cc.locked[key] = q
	return q, nil
}

// flush persiste todas las filas de saldo tocadas, verificando el invariante
// cantidad >= 0 en cada una. El pre-chequeo hace inalcanzable la violación;
// este es el doble chequeo de consistencia interna.
func (cc *commitContext) flush() error {
	for _, q := range cc.locked {
		if q.Quantity.IsNegative() {
			return fmt.Errorf("%w: saldo negativo para producto %s en ubicación %s",
				domain.ErrInvariantViolation, q.ProductID, q.LocationID)
		}
		q.UpdatedAt = cc.now
		if err := cc.quantRepo.Upsert(q); err != nil {
			return err
		}
	}
	return nil
}

func (cc *commitContext) appendMove(productID string, from, to *string, qty decimal.Decimal, reason string) error {
	return cc.moveRepo.Create(&entity.StockMove{
		ID:             uuid.New().String(),
		OperationID:    cc.op.ID,
		ProductID:      productID,
		FromLocationID: from,
		ToLocationID:   to,
		Quantity:       qty,
		Date:           cc.now,
		CreatedBy:      cc.userID,
		Reason:         reason,
	})
}

// applyCommit despacha la estrategia según el tipo del documento. Se llama
// una sola vez por validación, con la fila del documento ya bloqueada.
func (uc *OperationUseCase) applyCommit(
	op *entity.Operation,
	quantRepo repository.StockQuantRepository,
	moveRepo repository.StockMoveRepository,
	userID string,
	now time.Time,
) error {
	cc := &commitContext{
		op:        op,
		quantRepo: quantRepo,
		moveRepo:  moveRepo,
		userID:    userID,
		now:       now,
		locked:    make(map[string]*entity.StockQuant),
	}
	var err error
	switch op.Kind {
	case operation.KindReceipt:
		err = cc.commitReceipt()
	case operation.KindDelivery:
		err = cc.commitDelivery()
	case operation.KindTransfer:
		err = cc.commitTransfer()
	case operation.KindAdjustment:
		err = cc.commitAdjustment()
	default:
		return fmt.Errorf("%w: tipo de operación %q", domain.ErrInvalidInput, op.Kind)
	}
	if err != nil {
		return err
	}
	return cc.flush()
}

// commitReceipt: por línea, suma la cantidad en el destino y registra el
// movimiento con To poblado (el origen externo queda implícito).
func (cc *commitContext) commitReceipt() error {
	for i := range cc.op.Lines {
		line := &cc.op.Lines[i]
		dest, err := resolveDestinationLocation(cc.op, line)
		if err != nil {
			return err
		}
		q, err := cc.quant(line.ProductID, dest)
		if err != nil {
			return err
		}
		q.Quantity = q.Quantity.Add(line.Quantity)
		if err := cc.appendMove(line.ProductID, nil, &dest, line.Quantity, moveReason(cc.op, line)); err != nil {
			return err
		}
	}
	return nil
}

// commitDelivery: primera pasada: bloquear y verificar disponibilidad de
// TODAS las líneas (acumulando lo ya comprometido sobre el mismo par);
// segunda pasada: restar y registrar movimientos. Todo o nada.
func (cc *commitContext) commitDelivery() error {
	type leg struct {
		line   *entity.OperationLine
		source string
	}
	legs := make([]leg, 0, len(cc.op.Lines))
	required := make(map[string]decimal.Decimal)

	for i := range cc.op.Lines {
		line := &cc.op.Lines[i]
		source, err := resolveSourceLocation(cc.op, line)
		if err != nil {
			return err
		}
		q, err := cc.quant(line.ProductID, source)
		if err != nil {
			return err
		}
		key := quantKey(line.ProductID, source)
		available := q.Available().Sub(required[key])
		if available.LessThan(line.Quantity) {
			return &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Available: available,
				Required:  line.Quantity,
			}
		}
		required[key] = required[key].Add(line.Quantity)
		legs = append(legs, leg{line: line, source: source})
	}

	for _, l := range legs {
		q, err := cc.quant(l.line.ProductID, l.source)
		if err != nil {
			return err
		}
		q.Quantity = q.Quantity.Sub(l.line.Quantity)
		src := l.source
		if err := cc.appendMove(l.line.ProductID, &src, nil, l.line.Quantity, moveReason(cc.op, l.line)); err != nil {
			return err
		}
	}
	return nil
}

// commitTransfer: pierna de entrega más pierna de recepción sobre el mismo
// asiento (From y To poblados). Mismo pre-chequeo que la entrega sobre el
// origen antes de mutar nada.
func (cc *commitContext) commitTransfer() error {
	type leg struct {
		line         *entity.OperationLine
		source, dest string
	}
	legs := make([]leg, 0, len(cc.op.Lines))
	required := make(map[string]decimal.Decimal)

	for i := range cc.op.Lines {
		line := &cc.op.Lines[i]
		source, err := resolveSourceLocation(cc.op, line)
		if err != nil {
			return err
		}
		dest, err := resolveDestinationLocation(cc.op, line)
		if err != nil {
			return err
		}
		q, err := cc.quant(line.ProductID, source)
		if err != nil {
			return err
		}
		key := quantKey(line.ProductID, source)
		available := q.Available().Sub(required[key])
		if available.LessThan(line.Quantity) {
			return &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Available: available,
				Required:  line.Quantity,
			}
		}
		required[key] = required[key].Add(line.Quantity)
		legs = append(legs, leg{line: line, source: source, dest: dest})
	}

	for _, l := range legs {
		src, err := cc.quant(l.line.ProductID, l.source)
		if err != nil {
			return err
		}
		dst, err := cc.quant(l.line.ProductID, l.dest)
		if err != nil {
			return err
		}
		src.Quantity = src.Quantity.Sub(l.line.Quantity)
		dst.Quantity = dst.Quantity.Add(l.line.Quantity)
		from, to := l.source, l.dest
		if err := cc.appendMove(l.line.ProductID, &from, &to, l.line.Quantity, moveReason(cc.op, l.line)); err != nil {
			return err
		}
	}
	return nil
}

// commitAdjustment: la cantidad de línea es el conteo físico en la ubicación
// resuelta. Se calcula la diferencia contra el saldo registrado, se escribe
// el saldo en absoluto (no incremental) y el movimiento lleva la diferencia:
// positiva con To (apareció stock), negativa con From (desapareció). Con
// diferencia cero no se registra movimiento. Un ajuste es una corrección
// definicional: nunca falla por stock insuficiente.
func (cc *commitContext) commitAdjustment() error {
	for i := range cc.op.Lines {
		line := &cc.op.Lines[i]
		loc, err := resolveAdjustmentLocation(cc.op, line)
		if err != nil {
			return err
		}
		q, err := cc.quant(line.ProductID, loc)
		if err != nil {
			return err
		}
		counted := line.Quantity
		difference := counted.Sub(q.Quantity)
		if difference.IsZero() {
			continue
		}
		q.Quantity = counted
		locID := loc
		if difference.GreaterThan(decimal.Zero) {
			err = cc.appendMove(line.ProductID, nil, &locID, difference, moveReason(cc.op, line))
		} else {
			err = cc.appendMove(line.ProductID, &locID, nil, difference.Neg(), moveReason(cc.op, line))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Resolución de ubicaciones: override de línea -> default del documento ->
// error tipado MissingLocation. Se invoca una vez por línea antes de mutar.

func resolveSourceLocation(op *entity.Operation, line *entity.OperationLine) (string, error) {
	if line.SourceLocationID != nil && *line.SourceLocationID != "" {
		return *line.SourceLocationID, nil
	}
	if op.SourceLocationID != nil && *op.SourceLocationID != "" {
		return *op.SourceLocationID, nil
	}
	return "", &domain.MissingLocationError{ProductID: line.ProductID, Side: "origen"}
}

func resolveDestinationLocation(op *entity.Operation, line *entity.OperationLine) (string, error) {
	if line.DestinationLocationID != nil && *line.DestinationLocationID != "" {
		return *line.DestinationLocationID, nil
	}
	if op.DestinationLocationID != nil && *op.DestinationLocationID != "" {
		return *op.DestinationLocationID, nil
	}
	return "", &domain.MissingLocationError{ProductID: line.ProductID, Side: "destino"}
}

// resolveAdjustmentLocation: un ajuste cuenta stock en una única ubicación,
// resuelta por el lado destino.
func resolveAdjustmentLocation(op *entity.Operation, line *entity.OperationLine) (string, error) {
	return resolveDestinationLocation(op, line)
}

func moveReason(op *entity.Operation, line *entity.OperationLine) string {
	if line.Remarks != "" {
		return line.Remarks
	}
	switch op.Kind {
	case operation.KindReceipt:
		return "recepción " + op.Number
	case operation.KindDelivery:
		return "entrega " + op.Number
	case operation.KindTransfer:
		return "traslado " + op.Number
	case operation.KindAdjustment:
		return "ajuste por conteo físico " + op.Number
	}
	return op.Number
}
