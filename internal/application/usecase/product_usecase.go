package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-social-api/pkg/textutil"
)

// ProductUseCase casos de uso del catálogo de productos. El stock nunca se
// edita directamente aquí: todo cambio pasa por el motor de movimientos
// (el stock inicial de un producto nuevo se asienta como movimiento entry).
type ProductUseCase struct {
	repo     repository.ProductRepository
	recorder *inventory.RecordMovementUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, recorder *inventory.RecordMovementUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, recorder: recorder}
}

// Create crea un producto. El código de barras, si viene, debe ser único
// entre productos activos (los vacíos no cuentan como duplicados). El stock
// nace en cero; si viene InitialStock se asienta como movimiento de entrada.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || !entity.ValidCategory(in.Category) || !entity.ValidUnit(in.Unit) {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Barcode:      in.Barcode,
		Category:     in.Category,
		Unit:         in.Unit,
		CurrentStock: decimal.Zero,
		MinimumStock: in.MinimumStock,
		ExpiryDate:   in.ExpiryDate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock != nil && in.InitialStock.GreaterThan(decimal.Zero) {
		mov, err := uc.recorder.RecordMovement(ctx, inventory.MovementInput{
			ProductID:   product.ID,
			Type:        entity.MovementTypeEntry,
			Quantity:    *in.InitialStock,
			Reason:      "stock inicial",
			PerformedBy: actorID,
		})
		if err != nil {
			return nil, err
		}
		product.CurrentStock = mov.NewStock
		product.UpdatedAt = mov.CreatedAt
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// GetByBarcode obtiene un producto activo por código de barras.
func (uc *ProductUseCase) GetByBarcode(barcode string) (*dto.ProductResponse, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos del producto. No toca CurrentStock: los cambios
// de stock van por el motor de movimientos.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Barcode != nil && *in.Barcode != product.Barcode {
		if *in.Barcode != "" {
			existing, err := uc.repo.GetByBarcode(*in.Barcode)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, domain.ErrDuplicate
			}
		}
		product.Barcode = *in.Barcode
	}
	if in.Category != nil {
		if !entity.ValidCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		product.Category = *in.Category
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	if in.MinimumStock != nil {
		if in.MinimumStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.MinimumStock = *in.MinimumStock
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SoftDelete marca el producto como inactivo. No borra la fila ni su
// historial de movimientos.
func (uc *ProductUseCase) SoftDelete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now())
}

// ListByCategory lista productos activos de una categoría.
func (uc *ProductUseCase) ListByCategory(category string, limit, offset int) (*dto.ProductListResponse, error) {
	if !entity.ValidCategory(category) {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.ListByCategory(category, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(products), nil
}

// ListLowStock lista productos activos en o por debajo del stock mínimo.
func (uc *ProductUseCase) ListLowStock() (*dto.ProductListResponse, error) {
	products, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	return toProductListResponse(products), nil
}

// ListNearExpiry lista productos activos que vencen dentro de days días.
func (uc *ProductUseCase) ListNearExpiry(days int) (*dto.ProductListResponse, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.ListNearExpiry(days)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(products), nil
}

// Search busca productos activos por texto (insensible a mayúsculas y tildes).
func (uc *ProductUseCase) Search(query string, limit, offset int) (*dto.ProductListResponse, error) {
	q := textutil.Normalize(query)
	if q == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.Search(q, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(products), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		Category:     p.Category,
		Unit:         p.Unit,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		ExpiryDate:   p.ExpiryDate,
		IsActive:     p.IsActive,
		LowStock:     p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductListResponse(products []*entity.Product) *dto.ProductListResponse {
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	out.Count = len(out.Items)
	return out
}
