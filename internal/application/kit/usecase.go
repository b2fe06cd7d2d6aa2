package kit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-social-api/pkg/textutil"
)

// KitUseCase casos de uso del catálogo de kits: CRUD de definiciones y
// cálculo de disponibilidad contra el stock vivo del catálogo de productos.
// La disponibilidad es consultiva: solo la confirmación de una entrega
// consume stock realmente.
type KitUseCase struct {
	kitRepo     repository.KitRepository
	productRepo repository.ProductRepository
}

// NewKitUseCase construye el caso de uso.
func NewKitUseCase(kitRepo repository.KitRepository, productRepo repository.ProductRepository) *KitUseCase {
	return &KitUseCase{kitRepo: kitRepo, productRepo: productRepo}
}

// Create crea un kit. Cada renglón debe referenciar un producto existente;
// el nombre y la unidad del producto se copian como foto para visualización.
func (uc *KitUseCase) Create(actorID string, in dto.CreateKitRequest) (*dto.KitResponse, error) {
	if in.Name == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.resolveItems(in.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	k := &entity.Kit{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Items:       items,
		IsActive:    true,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.kitRepo.Create(k); err != nil {
		return nil, err
	}
	return toKitResponse(k), nil
}

// resolveItems valida los renglones y copia nombre/unidad del producto vivo.
func (uc *KitUseCase) resolveItems(in []dto.KitItemRequest) ([]entity.KitItem, error) {
	items := make([]entity.KitItem, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) || seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.KitItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			Unit:        product.Unit,
		})
	}
	return items, nil
}

// GetByID obtiene un kit por ID.
func (uc *KitUseCase) GetByID(id string) (*dto.KitResponse, error) {
	k, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrNotFound
	}
	return toKitResponse(k), nil
}

// Update actualiza nombre/descripción y, si vienen, reemplaza los renglones.
func (uc *KitUseCase) Update(id string, in dto.UpdateKitRequest) (*dto.KitResponse, error) {
	k, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		k.Name = *in.Name
	}
	if in.Description != nil {
		k.Description = *in.Description
	}
	if in.Items != nil {
		if len(in.Items) == 0 {
			return nil, domain.ErrInvalidInput
		}
		items, err := uc.resolveItems(in.Items)
		if err != nil {
			return nil, err
		}
		k.Items = items
	}
	k.UpdatedAt = time.Now()
	if err := uc.kitRepo.Update(k); err != nil {
		return nil, err
	}
	return toKitResponse(k), nil
}

// SoftDelete marca el kit como inactivo; las entregas históricas que lo
// referencian conservan su integridad.
func (uc *KitUseCase) SoftDelete(id string) error {
	k, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return err
	}
	if k == nil {
		return domain.ErrNotFound
	}
	return uc.kitRepo.SoftDelete(id, time.Now())
}

// List lista kits; con activeOnly solo los activos.
func (uc *KitUseCase) List(activeOnly bool, limit, offset int) (*dto.KitListResponse, error) {
	kits, err := uc.kitRepo.List(activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	return toKitListResponse(kits), nil
}

// Search busca kits activos por texto (insensible a mayúsculas y tildes).
func (uc *KitUseCase) Search(query string, limit, offset int) (*dto.KitListResponse, error) {
	q := textutil.Normalize(query)
	if q == "" {
		return nil, domain.ErrInvalidInput
	}
	kits, err := uc.kitRepo.Search(q, limit, offset)
	if err != nil {
		return nil, err
	}
	return toKitListResponse(kits), nil
}

// CheckAvailability evalúa si el kit puede satisfacerse completo con el
// stock actual. Devuelve false (no error) ante el primer renglón que falle:
// producto inexistente o inactivo, o stock insuficiente. Error solo por kit
// inexistente o fallo del almacén.
func (uc *KitUseCase) CheckAvailability(kitID string) (bool, error) {
	k, err := uc.kitRepo.GetByID(kitID)
	if err != nil {
		return false, err
	}
	if k == nil {
		return false, domain.ErrNotFound
	}
	for _, item := range k.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return false, err
		}
		if product == nil || !product.IsActive || product.CurrentStock.LessThan(item.Quantity) {
			return false, nil
		}
	}
	return true, nil
}

// GetAvailabilityDetails evalúa todos los renglones sin cortar en el primero
// que falle, para que el caller pueda mostrar el detalle completo. El mapa
// va indexado por ID de producto.
func (uc *KitUseCase) GetAvailabilityDetails(kitID string) (map[string]entity.KitItemAvailability, error) {
	k, err := uc.kitRepo.GetByID(kitID)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.ErrNotFound
	}
	details := make(map[string]entity.KitItemAvailability, len(k.Items))
	for _, item := range k.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		av := entity.KitItemAvailability{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			RequiredQuantity: item.Quantity,
			AvailableStock:   decimal.Zero,
		}
		if product != nil {
			// El nombre vivo manda sobre la foto desnormalizada del kit.
			av.ProductName = product.Name
			av.AvailableStock = product.CurrentStock
			av.IsActive = product.IsActive
			av.IsAvailable = product.IsActive && product.CurrentStock.GreaterThanOrEqual(item.Quantity)
		}
		details[item.ProductID] = av
	}
	return details, nil
}

func toKitResponse(k *entity.Kit) *dto.KitResponse {
	items := make([]dto.KitItemResponse, 0, len(k.Items))
	for _, it := range k.Items {
		items = append(items, dto.KitItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
		})
	}
	return &dto.KitResponse{
		ID:          k.ID,
		Name:        k.Name,
		Description: k.Description,
		Items:       items,
		IsActive:    k.IsActive,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}

func toKitListResponse(kits []*entity.Kit) *dto.KitListResponse {
	out := &dto.KitListResponse{Items: make([]dto.KitResponse, 0, len(kits))}
	for _, k := range kits {
		out.Items = append(out.Items, *toKitResponse(k))
	}
	out.Count = len(out.Items)
	return out
}
