package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/tienda-social-api/internal/application/delivery"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-social-api/pkg/textutil"
	"github.com/shopspring/decimal"
)

// Ensure Store implements ambos runners transaccionales.
var _ inventory.TxRunner = (*Store)(nil)
var _ delivery.TxRunner = (*Store)(nil)

// Store es un almacén en memoria que implementa todos los puertos de
// persistencia más los runners transaccionales. Sustituye a PostgreSQL en
// los tests: las transacciones se serializan con un mutex y el rollback se
// hace restaurando una copia previa del estado. Todas las lecturas y
// escrituras pasan clones, nunca los punteros internos.
type Store struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	movements  []*entity.StockMovement
	kits       map[string]*entity.Kit
	deliveries map[string]*entity.Delivery

	// Inyección de fallas por producto para tests de rollback.
	failStockUpdate map[string]error
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:        make(map[string]*entity.Product),
		kits:            make(map[string]*entity.Kit),
		deliveries:      make(map[string]*entity.Delivery),
		failStockUpdate: make(map[string]error),
	}
}

// FailStockUpdate hace que la próxima actualización de stock del producto
// falle con err (simula un fallo del almacén a mitad de transacción).
func (s *Store) FailStockUpdate(productID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStockUpdate[productID] = err
}

// Products devuelve el puerto de productos (con bloqueo propio por llamada).
func (s *Store) Products() repository.ProductRepository { return productRepo{s: s} }

// Movements devuelve el puerto del libro de movimientos.
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s: s} }

// Kits devuelve el puerto de kits.
func (s *Store) Kits() repository.KitRepository { return kitRepo{s: s} }

// Deliveries devuelve el puerto de entregas.
func (s *Store) Deliveries() repository.DeliveryRepository { return deliveryRepo{s: s} }

// enter toma el mutex salvo que ya estemos dentro de una transacción;
// devuelve la función de liberación.
func (s *Store) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot copia el estado para poder revertirlo. Los valores de los mapas
// nunca se mutan en sitio (toda escritura reemplaza el puntero por un
// clon), así que basta con copiar los mapas y recordar el largo del libro.
type snapshot struct {
	products   map[string]*entity.Product
	kits       map[string]*entity.Kit
	deliveries map[string]*entity.Delivery
	movements  int
}

func (s *Store) snapshotLocked() snapshot {
	sn := snapshot{
		products:   make(map[string]*entity.Product, len(s.products)),
		kits:       make(map[string]*entity.Kit, len(s.kits)),
		deliveries: make(map[string]*entity.Delivery, len(s.deliveries)),
		movements:  len(s.movements),
	}
	for k, v := range s.products {
		sn.products[k] = v
	}
	for k, v := range s.kits {
		sn.kits[k] = v
	}
	for k, v := range s.deliveries {
		sn.deliveries[k] = v
	}
	return sn
}

func (s *Store) restoreLocked(sn snapshot) {
	s.products = sn.products
	s.kits = sn.kits
	s.deliveries = sn.deliveries
	s.movements = s.movements[:sn.movements]
}

// Run ejecuta fn como una transacción: commit si devuelve nil, rollback
// completo si falla.
func (s *Store) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snapshotLocked()
	if err := fn(movementRepo{s: s, inTx: true}, productRepo{s: s, inTx: true}); err != nil {
		s.restoreLocked(sn)
		return err
	}
	return nil
}

// RunDelivery ejecuta fn como una transacción con los cuatro puertos.
func (s *Store) RunDelivery(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snapshotLocked()
	err := fn(
		movementRepo{s: s, inTx: true},
		productRepo{s: s, inTx: true},
		kitRepo{s: s, inTx: true},
		deliveryRepo{s: s, inTx: true},
	)
	if err != nil {
		s.restoreLocked(sn)
		return err
	}
	return nil
}

// ── clones ────────────────────────────────────────────────────────────────

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		c.ExpiryDate = &t
	}
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	return &c
}

func cloneKit(k *entity.Kit) *entity.Kit {
	c := *k
	c.Items = append([]entity.KitItem(nil), k.Items...)
	return &c
}

func cloneDelivery(d *entity.Delivery) *entity.Delivery {
	c := *d
	c.ScheduledDate = cloneTime(d.ScheduledDate)
	c.RequestedAt = cloneTime(d.RequestedAt)
	c.ApprovedAt = cloneTime(d.ApprovedAt)
	c.RejectedAt = cloneTime(d.RejectedAt)
	c.ConfirmedAt = cloneTime(d.ConfirmedAt)
	c.CancelledAt = cloneTime(d.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ── lógica interna (requiere el mutex tomado) ─────────────────────────────

func (s *Store) createProduct(p *entity.Product) error {
	if p.Barcode != "" {
		for _, other := range s.products {
			if other.IsActive && other.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *Store) getProduct(id string) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	return cloneProduct(p)
}

func (s *Store) getProductByBarcode(barcode string) *entity.Product {
	for _, p := range s.products {
		if p.IsActive && p.Barcode == barcode {
			return cloneProduct(p)
		}
	}
	return nil
}

func (s *Store) updateProduct(p *entity.Product) error {
	existing, ok := s.products[p.ID]
	if !ok {
		return nil
	}
	if p.Barcode != "" {
		for _, other := range s.products {
			if other.ID != p.ID && other.IsActive && other.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	c := cloneProduct(p)
	// El stock y la bandera de activo no se editan por este camino.
	c.CurrentStock = existing.CurrentStock
	c.IsActive = existing.IsActive
	s.products[p.ID] = c
	return nil
}

func (s *Store) updateStock(productID string, stock decimal.Decimal, updatedAt time.Time) error {
	if err, ok := s.failStockUpdate[productID]; ok {
		return err
	}
	existing, ok := s.products[productID]
	if !ok {
		return nil
	}
	c := cloneProduct(existing)
	c.CurrentStock = stock
	c.UpdatedAt = updatedAt
	s.products[productID] = c
	return nil
}

func (s *Store) softDeleteProduct(id string, updatedAt time.Time) error {
	existing, ok := s.products[id]
	if !ok {
		return nil
	}
	c := cloneProduct(existing)
	c.IsActive = false
	c.UpdatedAt = updatedAt
	s.products[id] = c
	return nil
}

func (s *Store) listProducts(filter func(*entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	for _, p := range s.products {
		if filter(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) createMovement(m *entity.StockMovement) error {
	s.movements = append(s.movements, cloneMovement(m))
	return nil
}

func (s *Store) getMovement(id string) *entity.StockMovement {
	for _, m := range s.movements {
		if m.ID == id {
			return cloneMovement(m)
		}
	}
	return nil
}

func (s *Store) createKit(k *entity.Kit) error {
	s.kits[k.ID] = cloneKit(k)
	return nil
}

func (s *Store) getKit(id string) *entity.Kit {
	k, ok := s.kits[id]
	if !ok {
		return nil
	}
	return cloneKit(k)
}

func (s *Store) updateKit(k *entity.Kit) error {
	existing, ok := s.kits[k.ID]
	if !ok {
		return nil
	}
	c := cloneKit(k)
	c.IsActive = existing.IsActive
	s.kits[k.ID] = c
	return nil
}

func (s *Store) softDeleteKit(id string, updatedAt time.Time) error {
	existing, ok := s.kits[id]
	if !ok {
		return nil
	}
	c := cloneKit(existing)
	c.IsActive = false
	c.UpdatedAt = updatedAt
	s.kits[id] = c
	return nil
}

func (s *Store) listKits(filter func(*entity.Kit) bool) []*entity.Kit {
	var out []*entity.Kit
	for _, k := range s.kits {
		if filter(k) {
			out = append(out, cloneKit(k))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) createDelivery(d *entity.Delivery) error {
	s.deliveries[d.ID] = cloneDelivery(d)
	return nil
}

func (s *Store) getDelivery(id string) *entity.Delivery {
	d, ok := s.deliveries[id]
	if !ok {
		return nil
	}
	return cloneDelivery(d)
}

func (s *Store) updateDelivery(d *entity.Delivery) error {
	if _, ok := s.deliveries[d.ID]; !ok {
		return nil
	}
	s.deliveries[d.ID] = cloneDelivery(d)
	return nil
}

func (s *Store) listDeliveries(filter func(*entity.Delivery) bool) []*entity.Delivery {
	var out []*entity.Delivery
	for _, d := range s.deliveries {
		if filter(d) {
			out = append(out, cloneDelivery(d))
		}
	}
	// Más recientes primero, como el adaptador PostgreSQL.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func matchesSearch(text, query string) bool {
	return strings.Contains(textutil.Normalize(text), query)
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
