package repository

// SequenceRepository define el puerto del secuenciador de números de documento:
// un contador por prefijo de tipo de operación, incrementado atómicamente.
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor del contador para el prefijo.
	Next(prefix string) (int64, error)
}
