package repository

import (
	"time"

	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
)

// KitRepository define el puerto de persistencia para Kit (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type KitRepository interface {
	Create(kit *entity.Kit) error
	// GetByID devuelve el kit con sus renglones en el orden definido.
	GetByID(id string) (*entity.Kit, error)
	// Update reemplaza datos y renglones del kit.
	Update(kit *entity.Kit) error
	// SoftDelete marca el kit como inactivo; nunca borra la fila.
	SoftDelete(id string, updatedAt time.Time) error
	List(activeOnly bool, limit, offset int) ([]*entity.Kit, error)
	// Search busca por texto normalizado (minúsculas, sin tildes) entre activos.
	Search(query string, limit, offset int) ([]*entity.Kit, error)
}
