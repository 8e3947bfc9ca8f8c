// Package memstore es un almacén en memoria con semántica transaccional para los tests de casos de uso.
// Las transacciones se serializan con un mutex global (equivale a bloquear todas las filas), trabajan
// sobre una copia del estado y solo la publican en el commit; un error o un contexto cancelado la descarta.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/facturas-ledger/internal/domain/entity"
	"github.com/jhoicas/facturas-ledger/internal/domain/repository"
)

type seqKey struct {
	kind  entity.DocKind
	year  int
	month int
}

type state struct {
	sequences map[seqKey]entity.DocumentSequence
	products  map[int64]entity.Product
	movements []entity.StockMovement
	invoices  map[int64]entity.Invoice
	items     map[int64][]entity.InvoiceItem

	lastProduct, lastMovement, lastInvoice, lastItem int64
}

func newState() *state {
	return &state{
		sequences: make(map[seqKey]entity.DocumentSequence),
		products:  make(map[int64]entity.Product),
		invoices:  make(map[int64]entity.Invoice),
		items:     make(map[int64][]entity.InvoiceItem),
	}
}

// clone copia mapas y slices. Los punteros internos (ProductID, InvoiceID, PaymentMethod) se tratan
// como inmutables: los repos siempre guardan copias propias.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	c.lastProduct, c.lastMovement, c.lastInvoice, c.lastItem = s.lastProduct, s.lastMovement, s.lastInvoice, s.lastItem
	return c
}

// Store implementa RunLedger (inventory.TxRunner y billing.LedgerTxRunner).
type Store struct {
	mu sync.Mutex
	st *state

	invoiceInsertFailures []error
	commits               int
	rollbacks             int
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// RunLedger ejecuta fn sobre una copia del estado y la publica si fn y el contexto lo permiten.
func (s *Store) RunLedger(ctx context.Context, fn func(repos repository.LedgerRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	work := s.st.clone()
	if err := fn(s.bind(work)); err != nil {
		s.rollbacks++
		return err
	}
	if err := ctx.Err(); err != nil {
		s.rollbacks++
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.st = work
	s.commits++
	return nil
}

// Repos devuelve repositorios en modo autocommit (cada llamada toma el mutex).
func (s *Store) Repos() repository.LedgerRepos {
	return s.bind(nil)
}

// FailNextInvoiceInsert hace que el próximo Invoices.Create devuelva err (uno por llamada).
// Sirve para simular carreras sobre la restricción única del número.
func (s *Store) FailNextInvoiceInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoiceInsertFailures = append(s.invoiceInsertFailures, err)
}

// Stats devuelve transacciones confirmadas y revertidas.
func (s *Store) Stats() (commits, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits, s.rollbacks
}

func (s *Store) bind(st *state) repository.LedgerRepos {
	c := &conn{store: s, st: st}
	return repository.LedgerRepos{
		Sequences: &sequenceRepo{c},
		Products:  &productRepo{c},
		Movements: &movementRepo{c},
		Invoices:  &invoiceRepo{c},
	}
}

// conn con st != nil opera dentro de una transacción (mutex ya tomado); con st == nil, en autocommit.
type conn struct {
	store *Store
	st    *state
}

func (c *conn) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.st != nil {
		return fn(c.st)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return fn(c.store.st)
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
