package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OperationUseCase gestiona el ciclo de vida de los documentos de operación
// (recepción, entrega, traslado, ajuste): creación, edición de líneas y
// cabecera, y transiciones de estado. La transición READY -> DONE dispara el
// motor de validación (commit.go) dentro de una transacción con bloqueo de
// fila (SELECT FOR UPDATE) y Commit/Rollback.
type OperationUseCase struct {
	txRunner      TxRunner
	opRepo        repository.OperationRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	locationRepo  repository.LocationRepository
	seqRepo       repository.SequenceRepository
	pdfGen        DocumentPDFGenerator
}

// NewOperationUseCase construye el caso de uso.
func NewOperationUseCase(
	txRunner TxRunner,
	opRepo repository.OperationRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	locationRepo repository.LocationRepository,
	seqRepo repository.SequenceRepository,
	pdfGen DocumentPDFGenerator,
) *OperationUseCase {
	return &OperationUseCase{
		txRunner:      txRunner,
		opRepo:        opRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		locationRepo:  locationRepo,
		seqRepo:       seqRepo,
		pdfGen:        pdfGen,
	}
}

// Create crea un documento en DRAFT con su set inicial de líneas y le asigna
// número desde el secuenciador por tipo.
func (uc *OperationUseCase) Create(ctx context.Context, userID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	kind := operation.Kind(in.Kind)
	if !operation.ValidKind(kind) {
		return nil, fmt.Errorf("%w: tipo de operación %q", domain.ErrInvalidInput, in.Kind)
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
	}
	if err := uc.checkHeaderLocations(in.SourceLocationID, in.DestinationLocationID); err != nil {
		return nil, err
	}
	lines, err := uc.buildLines(kind, in.Lines)
	if err != nil {
		return nil, err
	}

	n, err := uc.seqRepo.Next(kind.Prefix())
	if err != nil {
		return nil, fmt.Errorf("asignar número de documento: %w", err)
	}
	now := time.Now()
	op := &entity.Operation{
		ID:                    uuid.New().String(),
		Kind:                  kind,
		Number:                fmt.Sprintf("%s-%05d", kind.Prefix(), n),
		Status:                operation.StatusDraft,
		WarehouseID:           in.WarehouseID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Partner:               in.Partner,
		Notes:                 in.Notes,
		CreatedBy:             userID,
		CreatedAt:             now,
		Lines:                 lines,
	}
	for i := range op.Lines {
		op.Lines[i].OperationID = op.ID
	}
	if err := uc.opRepo.Create(op); err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// ReplaceLines reemplaza el set completo de líneas. Solo DRAFT/WAITING.
func (uc *OperationUseCase) ReplaceLines(ctx context.Context, operationID string, in dto.ReplaceLinesRequest) (*dto.OperationResponse, error) {
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	if op.Status.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if !op.Status.Editable() {
		return nil, fmt.Errorf("%w: documento en estado %s no es editable", domain.ErrValidation, op.Status)
	}
	lines, err := uc.buildLines(op.Kind, in.Lines)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].OperationID = op.ID
	}
	if err := uc.opRepo.ReplaceLines(op.ID, lines); err != nil {
		return nil, err
	}
	op.Lines = lines
	return toOperationResponse(op), nil
}

// UpdateHeader actualiza campos de cabecera. Solo DRAFT/WAITING.
func (uc *OperationUseCase) UpdateHeader(ctx context.Context, operationID string, in dto.UpdateOperationHeaderRequest) (*dto.OperationResponse, error) {
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	if op.Status.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if !op.Status.Editable() {
		return nil, fmt.Errorf("%w: documento en estado %s no es editable", domain.ErrValidation, op.Status)
	}
	if err := uc.checkHeaderLocations(in.SourceLocationID, in.DestinationLocationID); err != nil {
		return nil, err
	}
	if in.SourceLocationID != nil {
		op.SourceLocationID = in.SourceLocationID
	}
	if in.DestinationLocationID != nil {
		op.DestinationLocationID = in.DestinationLocationID
	}
	if in.Partner != nil {
		op.Partner = *in.Partner
	}
	if in.Notes != nil {
		op.Notes = *in.Notes
	}
	if err := uc.opRepo.UpdateHeader(op); err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// Delete elimina un documento. Solo DRAFT; desde WAITING en adelante el
// documento solo puede cancelarse.
func (uc *OperationUseCase) Delete(ctx context.Context, operationID string) error {
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return err
	}
	if op == nil {
		return domain.ErrNotFound
	}
	if op.Status.IsTerminal() {
		return domain.ErrAlreadyTerminal
	}
	if !op.Status.Deletable() {
		return fmt.Errorf("%w: un documento en estado %s solo puede cancelarse", domain.ErrValidation, op.Status)
	}
	return uc.opRepo.Delete(operationID)
}

// Transition solicita el cambio de estado del documento. La arista se valida
// contra la máquina de estados bajo bloqueo de la fila del documento; si el
// destino es DONE se ejecuta el motor de validación en la misma transacción.
// Cualquier fallo revierte todo: ni movimientos, ni saldos, ni cambio de estado.
func (uc *OperationUseCase) Transition(ctx context.Context, operationID string, target operation.Status, userID string) (*dto.OperationResponse, error) {
	if !operation.ValidStatus(target) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, target)
	}

	// Pre-validación fuera de la tx: existencia del documento y, para
	// READY -> DONE, resolución de ubicaciones por línea (override de línea
	// -> default de cabecera) con verificación de que son ubicaciones
	// internas. Solo aplica con el documento en READY: sobre cualquier otro
	// estado el veredicto es de la máquina de estados (arista inválida o
	// terminal), no de las ubicaciones. Las líneas no pueden cambiar entre
	// esta lectura y el bloqueo porque la edición está prohibida desde READY.
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	if target == operation.StatusDone && op.Status == operation.StatusReady {
		if err := uc.checkResolvedLocations(op); err != nil {
			return nil, err
		}
	}

	var result *entity.Operation
	err = uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		quantRepo repository.StockQuantRepository,
		moveRepo repository.StockMoveRepository,
	) error {
		cur, err := opRepo.GetForUpdate(operationID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if cur.Status.IsTerminal() {
			return domain.ErrAlreadyTerminal
		}
		if !operation.CanTransition(cur.Status, target) {
			return &domain.InvalidTransitionError{From: string(cur.Status), To: string(target)}
		}

		now := time.Now()
		var validatedBy *string
		var validatedAt *time.Time
		switch target {
		case operation.StatusDone:
			if len(cur.Lines) == 0 {
				return fmt.Errorf("%w: el documento no tiene líneas", domain.ErrValidation)
			}
			if err := uc.applyCommit(cur, quantRepo, moveRepo, userID, now); err != nil {
				return err
			}
			validatedBy, validatedAt = &userID, &now
		case operation.StatusCanceled:
			// Cancelar solo estampa validador y fecha; nunca toca el stock.
			validatedBy, validatedAt = &userID, &now
		}

		if err := opRepo.UpdateStatus(operationID, target, validatedBy, validatedAt); err != nil {
			return err
		}
		cur.Status = target
		cur.ValidatedBy = validatedBy
		cur.ValidatedAt = validatedAt
		result = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOperationResponse(result), nil
}

// GetByID obtiene un documento con sus líneas.
func (uc *OperationUseCase) GetByID(ctx context.Context, operationID string) (*dto.OperationResponse, error) {
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return toOperationResponse(op), nil
}

// GeneratePDF genera el documento imprimible de la operación, resolviendo
// SKU, nombre de producto y códigos de ubicación por línea.
func (uc *OperationUseCase) GeneratePDF(ctx context.Context, operationID string) ([]byte, string, error) {
	op, err := uc.opRepo.GetByID(operationID)
	if err != nil {
		return nil, "", err
	}
	if op == nil {
		return nil, "", domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(op.WarehouseID)
	if err != nil {
		return nil, "", err
	}
	if wh == nil {
		return nil, "", fmt.Errorf("%w: bodega %s", domain.ErrNotFound, op.WarehouseID)
	}

	locationCode := func(id *string) (string, error) {
		if id == nil || *id == "" {
			return "", nil
		}
		loc, err := uc.locationRepo.GetByID(*id)
		if err != nil {
			return "", err
		}
		if loc == nil {
			return *id, nil
		}
		return loc.Code, nil
	}
	headerSrc, err := locationCode(op.SourceLocationID)
	if err != nil {
		return nil, "", err
	}
	headerDest, err := locationCode(op.DestinationLocationID)
	if err != nil {
		return nil, "", err
	}

	lines := make([]LineForPDF, 0, len(op.Lines))
	for i := range op.Lines {
		l := &op.Lines[i]
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, "", err
		}
		sku, name := l.ProductID, l.ProductID
		if product != nil {
			sku, name = product.SKU, product.Name
		}
		src, err := locationCode(l.SourceLocationID)
		if err != nil {
			return nil, "", err
		}
		if src == "" {
			src = headerSrc
		}
		dest, err := locationCode(l.DestinationLocationID)
		if err != nil {
			return nil, "", err
		}
		if dest == "" {
			dest = headerDest
		}
		lines = append(lines, LineForPDF{
			ProductSKU:  sku,
			ProductName: name,
			Quantity:    l.Quantity,
			UnitMeasure: l.UnitMeasure,
			SourceCode:  src,
			DestCode:    dest,
			Remarks:     l.Remarks,
		})
	}

	data, err := uc.pdfGen.GenerateOperationPDF(ctx, op, wh, lines)
	if err != nil {
		return nil, "", err
	}
	return data, op.Number, nil
}

// List lista documentos con filtros y paginación.
func (uc *OperationUseCase) List(ctx context.Context, filter repository.OperationFilter) (*dto.OperationListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	list, err := uc.opRepo.List(filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.opRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OperationResponse, 0, len(list))
	for _, op := range list {
		items = append(items, *toOperationResponse(op))
	}
	return &dto.OperationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// buildLines valida y materializa las líneas de un request. Cantidades: > 0
// para mover; en AJUSTE la cantidad contada admite cero pero no negativos
// (un conteo físico no puede ser negativo).
func (uc *OperationUseCase) buildLines(kind operation.Kind, in []dto.OperationLineRequest) ([]entity.OperationLine, error) {
	lines := make([]entity.OperationLine, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" {
			return nil, fmt.Errorf("%w: línea sin producto", domain.ErrValidation)
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		if kind == operation.KindAdjustment {
			if l.Quantity.IsNegative() {
				return nil, fmt.Errorf("%w: cantidad contada negativa para producto %s", domain.ErrValidation, l.ProductID)
			}
		} else if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: cantidad debe ser mayor que cero para producto %s", domain.ErrValidation, l.ProductID)
		}
		if err := uc.checkHeaderLocations(l.SourceLocationID, l.DestinationLocationID); err != nil {
			return nil, err
		}
		um := l.UnitMeasure
		if um == "" {
			um = product.UnitMeasure
		}
		lines = append(lines, entity.OperationLine{
			ID:                    uuid.New().String(),
			ProductID:             l.ProductID,
			Quantity:              l.Quantity,
			UnitMeasure:           um,
			SourceLocationID:      l.SourceLocationID,
			DestinationLocationID: l.DestinationLocationID,
			Remarks:               l.Remarks,
		})
	}
	return lines, nil
}

// checkHeaderLocations verifica que las ubicaciones referenciadas existan.
func (uc *OperationUseCase) checkHeaderLocations(ids ...*string) error {
	for _, id := range ids {
		if id == nil || *id == "" {
			continue
		}
		loc, err := uc.locationRepo.GetByID(*id)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, *id)
		}
	}
	return nil
}

// checkResolvedLocations resuelve las ubicaciones de cada línea según el tipo
// del documento y verifica que sean ubicaciones internas de almacenamiento.
// Los extremos VENDOR/CUSTOMER no se resuelven: quedan implícitos como el
// lado ausente del movimiento.
func (uc *OperationUseCase) checkResolvedLocations(op *entity.Operation) error {
	check := func(locationID string) error {
		loc, err := uc.locationRepo.GetByID(locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
		}
		if !loc.IsInternal() {
			return fmt.Errorf("%w: la ubicación %s (%s) no es de almacenamiento interno", domain.ErrValidation, loc.Code, loc.Kind)
		}
		return nil
	}
	for i := range op.Lines {
		line := &op.Lines[i]
		switch op.Kind {
		case operation.KindReceipt:
			dest, err := resolveDestinationLocation(op, line)
			if err != nil {
				return err
			}
			if err := check(dest); err != nil {
				return err
			}
		case operation.KindDelivery:
			src, err := resolveSourceLocation(op, line)
			if err != nil {
				return err
			}
			if err := check(src); err != nil {
				return err
			}
		case operation.KindTransfer:
			src, err := resolveSourceLocation(op, line)
			if err != nil {
				return err
			}
			dest, err := resolveDestinationLocation(op, line)
			if err != nil {
				return err
			}
			if err := check(src); err != nil {
				return err
			}
			if err := check(dest); err != nil {
				return err
			}
		case operation.KindAdjustment:
			loc, err := resolveAdjustmentLocation(op, line)
			if err != nil {
				return err
			}
			if err := check(loc); err != nil {
				return err
			}
		}
	}
	return nil
}

func toOperationResponse(op *entity.Operation) *dto.OperationResponse {
	if op == nil {
		return nil
	}
	lines := make([]dto.OperationLineResponse, 0, len(op.Lines))
	for _, l := range op.Lines {
		lines = append(lines, dto.OperationLineResponse{
			ID:                    l.ID,
			ProductID:             l.ProductID,
			Quantity:              l.Quantity,
			UnitMeasure:           l.UnitMeasure,
			SourceLocationID:      l.SourceLocationID,
			DestinationLocationID: l.DestinationLocationID,
			Remarks:               l.Remarks,
		})
	}
	return &dto.OperationResponse{
		ID:                    op.ID,
		Kind:                  string(op.Kind),
		Number:                op.Number,
		Status:                string(op.Status),
		WarehouseID:           op.WarehouseID,
		SourceLocationID:      op.SourceLocationID,
		DestinationLocationID: op.DestinationLocationID,
		Partner:               op.Partner,
		Notes:                 op.Notes,
		CreatedBy:             op.CreatedBy,
		ValidatedBy:           op.ValidatedBy,
		ValidatedAt:           op.ValidatedAt,
		CreatedAt:             op.CreatedAt,
		Lines:                 lines,
	}
}
