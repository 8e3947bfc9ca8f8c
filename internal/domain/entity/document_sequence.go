package entity

// DocumentSequence es el contador persistido por (tipo, año, mes).
// LastNumber empieza en 0 y solo crece de uno en uno con cada documento confirmado.
type DocumentSequence struct {
	DocType    DocKind
	Year       int
	Month      int
	LastNumber int
}
