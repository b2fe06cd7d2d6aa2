package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-social-api/pkg/textutil"
)

var _ repository.KitRepository = (*KitRepo)(nil)

// KitRepo implementación del puerto KitRepository sobre PostgreSQL (usable
// con pool o tx). Un kit son dos tablas: kits y kit_items (renglones con
// posición para conservar el orden).
type KitRepo struct {
	q Querier
}

// NewKitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKitRepository(q Querier) *KitRepo {
	return &KitRepo{q: q}
}

// Create persiste el kit y sus renglones.
func (r *KitRepo) Create(kit *entity.Kit) error {
	query := `
		INSERT INTO kits (id, name, description, search_text, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		kit.ID, kit.Name, kit.Description,
		textutil.Normalize(kit.Name+" "+kit.Description),
		kit.IsActive, kit.CreatedBy, kit.CreatedAt, kit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kit: %w", err)
	}
	return r.insertItems(kit.ID, kit.Items)
}

func (r *KitRepo) insertItems(kitID string, items []entity.KitItem) error {
	for i, item := range items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO kit_items (kit_id, position, product_id, product_name, quantity, unit)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			kitID, i, item.ProductID, item.ProductName, item.Quantity, item.Unit,
		)
		if err != nil {
			return fmt.Errorf("insert kit item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un kit con sus renglones en orden.
func (r *KitRepo) GetByID(id string) (*entity.Kit, error) {
	var k entity.Kit
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description, is_active, created_by, created_at, updated_at
		 FROM kits WHERE id = $1`, id).Scan(
		&k.ID, &k.Name, &k.Description, &k.IsActive, &k.CreatedBy, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit: %w", err)
	}
	items, err := r.loadItems([]string{k.ID})
	if err != nil {
		return nil, err
	}
	k.Items = items[k.ID]
	return &k, nil
}

// loadItems carga los renglones de varios kits en una sola consulta.
func (r *KitRepo) loadItems(kitIDs []string) (map[string][]entity.KitItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT kit_id, product_id, product_name, quantity, unit
		 FROM kit_items WHERE kit_id = ANY($1)
		 ORDER BY kit_id, position`, kitIDs)
	if err != nil {
		return nil, fmt.Errorf("list kit items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.KitItem, len(kitIDs))
	for rows.Next() {
		var kitID string
		var item entity.KitItem
		if err := rows.Scan(&kitID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("scan kit item: %w", err)
		}
		out[kitID] = append(out[kitID], item)
	}
	return out, rows.Err()
}

// Update reemplaza datos y renglones del kit.
func (r *KitRepo) Update(kit *entity.Kit) error {
	query := `
		UPDATE kits SET name = $2, description = $3, search_text = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		kit.ID, kit.Name, kit.Description,
		textutil.Normalize(kit.Name+" "+kit.Description), kit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update kit: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM kit_items WHERE kit_id = $1`, kit.ID); err != nil {
		return fmt.Errorf("delete kit items: %w", err)
	}
	return r.insertItems(kit.ID, kit.Items)
}

// SoftDelete marca el kit como inactivo. Nunca borra la fila.
func (r *KitRepo) SoftDelete(id string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE kits SET is_active = false, updated_at = $2 WHERE id = $1`,
		id, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete kit: %w", err)
	}
	return nil
}

// List lista kits con paginación; con activeOnly solo los activos.
func (r *KitRepo) List(activeOnly bool, limit, offset int) ([]*entity.Kit, error) {
	query := `
		SELECT id, name, description, is_active, created_by, created_at, updated_at
		FROM kits WHERE ($1 = false OR is_active)
		ORDER BY name LIMIT $2 OFFSET $3`
	return r.list(query, activeOnly, limit, offset)
}

// Search busca kits activos por texto normalizado.
func (r *KitRepo) Search(query string, limit, offset int) ([]*entity.Kit, error) {
	sql := `
		SELECT id, name, description, is_active, created_by, created_at, updated_at
		FROM kits WHERE is_active AND search_text LIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2 OFFSET $3`
	return r.list(sql, query, limit, offset)
}

func (r *KitRepo) list(query string, args ...any) ([]*entity.Kit, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kits: %w", err)
	}
	defer rows.Close()
	var kits []*entity.Kit
	var ids []string
	for rows.Next() {
		var k entity.Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Description, &k.IsActive, &k.CreatedBy, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		kits = append(kits, &k)
		ids = append(ids, k.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return kits, nil
	}
	items, err := r.loadItems(ids)
	if err != nil {
		return nil, err
	}
	for _, k := range kits {
		k.Items = items[k.ID]
	}
	return kits, nil
}
