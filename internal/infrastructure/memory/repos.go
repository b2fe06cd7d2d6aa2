package memory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
)

// Adaptadores finos sobre el Store. Fuera de transacción cada método toma el
// mutex; dentro de una transacción (inTx) el Run ya lo tiene tomado.

var _ repository.ProductRepository = productRepo{}
var _ repository.StockMovementRepository = movementRepo{}
var _ repository.KitRepository = kitRepo{}
var _ repository.DeliveryRepository = deliveryRepo{}

type productRepo struct {
	s    *Store
	inTx bool
}

func (r productRepo) Create(p *entity.Product) error {
	defer r.s.enter(r.inTx)()
	return r.s.createProduct(p)
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getProduct(id), nil
}

func (r productRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getProductByBarcode(barcode), nil
}

func (r productRepo) Update(p *entity.Product) error {
	defer r.s.enter(r.inTx)()
	return r.s.updateProduct(p)
}

func (r productRepo) UpdateStock(productID string, stock decimal.Decimal, updatedAt time.Time) error {
	defer r.s.enter(r.inTx)()
	return r.s.updateStock(productID, stock, updatedAt)
}

func (r productRepo) SoftDelete(id string, updatedAt time.Time) error {
	defer r.s.enter(r.inTx)()
	return r.s.softDeleteProduct(id, updatedAt)
}

func (r productRepo) ListByCategory(category string, limit, offset int) ([]*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listProducts(func(p *entity.Product) bool {
		return p.IsActive && p.Category == category
	})
	return paginate(out, limit, offset), nil
}

func (r productRepo) ListLowStock() ([]*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	return r.s.listProducts(func(p *entity.Product) bool {
		return p.IsActive && p.CurrentStock.LessThanOrEqual(p.MinimumStock)
	}), nil
}

func (r productRepo) ListNearExpiry(days int) ([]*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	cutoff := time.Now().AddDate(0, 0, days)
	return r.s.listProducts(func(p *entity.Product) bool {
		return p.IsActive && p.ExpiryDate != nil && !p.ExpiryDate.After(cutoff)
	}), nil
}

func (r productRepo) Search(query string, limit, offset int) ([]*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listProducts(func(p *entity.Product) bool {
		return p.IsActive && matchesSearch(p.Name, query)
	})
	return paginate(out, limit, offset), nil
}

func (r productRepo) GetForUpdate(id string) (*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getProduct(id), nil
}

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r movementRepo) Create(m *entity.StockMovement) error {
	defer r.s.enter(r.inTx)()
	return r.s.createMovement(m)
}

func (r movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getMovement(id), nil
}

func (r movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.s.enter(r.inTx)()
	var out []*entity.StockMovement
	// El libro se guarda en orden de inserción; se recorre al revés para
	// devolver los más recientes primero, como el adaptador PostgreSQL.
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	return paginate(out, limit, offset), nil
}

func (r movementRepo) ListByReference(referenceDoc string) ([]*entity.StockMovement, error) {
	defer r.s.enter(r.inTx)()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceDoc == referenceDoc {
			out = append(out, cloneMovement(m))
		}
	}
	return out, nil
}

type kitRepo struct {
	s    *Store
	inTx bool
}

func (r kitRepo) Create(k *entity.Kit) error {
	defer r.s.enter(r.inTx)()
	return r.s.createKit(k)
}

func (r kitRepo) GetByID(id string) (*entity.Kit, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getKit(id), nil
}

func (r kitRepo) Update(k *entity.Kit) error {
	defer r.s.enter(r.inTx)()
	return r.s.updateKit(k)
}

func (r kitRepo) SoftDelete(id string, updatedAt time.Time) error {
	defer r.s.enter(r.inTx)()
	return r.s.softDeleteKit(id, updatedAt)
}

func (r kitRepo) List(activeOnly bool, limit, offset int) ([]*entity.Kit, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listKits(func(k *entity.Kit) bool {
		return !activeOnly || k.IsActive
	})
	return paginate(out, limit, offset), nil
}

func (r kitRepo) Search(query string, limit, offset int) ([]*entity.Kit, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listKits(func(k *entity.Kit) bool {
		return k.IsActive && matchesSearch(k.Name, query)
	})
	return paginate(out, limit, offset), nil
}

type deliveryRepo struct {
	s    *Store
	inTx bool
}

func (r deliveryRepo) Create(d *entity.Delivery) error {
	defer r.s.enter(r.inTx)()
	return r.s.createDelivery(d)
}

func (r deliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getDelivery(id), nil
}

func (r deliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) {
	defer r.s.enter(r.inTx)()
	return r.s.getDelivery(id), nil
}

func (r deliveryRepo) Update(d *entity.Delivery) error {
	defer r.s.enter(r.inTx)()
	return r.s.updateDelivery(d)
}

func (r deliveryRepo) ListByStatus(status string, limit, offset int) ([]*entity.Delivery, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listDeliveries(func(d *entity.Delivery) bool {
		return d.Status == status
	})
	return paginate(out, limit, offset), nil
}

func (r deliveryRepo) ListByBeneficiary(beneficiaryID string, limit, offset int) ([]*entity.Delivery, error) {
	defer r.s.enter(r.inTx)()
	out := r.s.listDeliveries(func(d *entity.Delivery) bool {
		return d.BeneficiaryID == beneficiaryID
	})
	return paginate(out, limit, offset), nil
}
