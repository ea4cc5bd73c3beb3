// Package operation define los tipos cerrados del ciclo de vida de un
// documento de operación: su tipo (recepción, entrega, traslado, ajuste)
// y la máquina de estados que gobierna sus transiciones.
package operation

// Kind es el tipo de operación. Variante cerrada: el motor de validación
// despacha una estrategia por tipo, sin comparaciones de strings dispersas.
type Kind string

const (
	KindReceipt    Kind = "RECEIPT"    // entrada desde proveedor
	KindDelivery   Kind = "DELIVERY"   // salida hacia cliente
	KindTransfer   Kind = "TRANSFER"   // traslado interno entre ubicaciones
	KindAdjustment Kind = "ADJUSTMENT" // ajuste por conteo físico
)

// ValidKind valida el tipo de operación.
func ValidKind(k Kind) bool {
	switch k {
	case KindReceipt, KindDelivery, KindTransfer, KindAdjustment:
		return true
	}
	return false
}

// Prefix devuelve el prefijo del número de documento para este tipo.
func (k Kind) Prefix() string {
	switch k {
	case KindReceipt:
		return "REC"
	case KindDelivery:
		return "ENT"
	case KindTransfer:
		return "TRA"
	case KindAdjustment:
		return "AJU"
	}
	return "OPE"
}

// Status es el estado del documento.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusWaiting  Status = "WAITING"
	StatusReady    Status = "READY"
	StatusDone     Status = "DONE"
	StatusCanceled Status = "CANCELED"
)

// ValidStatus valida el estado.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// allowedTransitions: aristas permitidas de la máquina de estados.
// DONE y CANCELED son terminales (sin aristas de salida).
var allowedTransitions = map[Status][]Status{
	StatusDraft:   {StatusWaiting, StatusCanceled},
	StatusWaiting: {StatusReady, StatusCanceled},
	StatusReady:   {StatusDone, StatusCanceled},
}

// CanTransition indica si la arista from -> to está permitida.
func CanTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado no tiene aristas de salida.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Editable indica si el documento admite edición de líneas y cabecera.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusWaiting
}

// Deletable indica si el documento puede eliminarse. Una vez en WAITING
// solo puede cancelarse, no borrarse.
func (s Status) Deletable() bool {
	return s == StatusDraft
}
