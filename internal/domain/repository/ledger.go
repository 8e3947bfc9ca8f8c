package repository

// LedgerRepos agrupa los repositorios del libro atados a una misma transacción (o al pool,
// para lecturas fuera de transacción).
type LedgerRepos struct {
	Sequences SequenceRepository
	Products  ProductRepository
	Movements StockMovementRepository
	Invoices  InvoiceRepository
}
