package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/application/events"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/application/usecase"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

func newUseCases(store *memory.Store) (*usecase.ProductUseCase, *inventory.RecordMovementUseCase) {
	recorder := inventory.NewRecordMovementUseCase(store, store.Products(), store.Movements(), events.NopNotifier{})
	return usecase.NewProductUseCase(store.Products(), recorder), recorder
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createProduct(t *testing.T, uc *usecase.ProductUseCase, in dto.CreateProductRequest) *dto.ProductResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), testUserID, in)
	require.NoError(t, err, "el producto debe crearse sin error")
	require.NotNil(t, out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_StockNaceEnCero(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	out := createProduct(t, uc, dto.CreateProductRequest{
		Name:     "Arroz",
		Category: entity.CategoryFood,
		Unit:     entity.UnitKilogram,
	})

	assert.True(t, out.CurrentStock.IsZero(), "sin initial_stock el producto nace en cero")
	assert.True(t, out.IsActive)
}

// El stock inicial no se fija a mano: se asienta como movimiento de entrada,
// de modo que el libro arranca completo desde el primer día.
func TestProductCreate_StockInicialSeAsientaComoEntrada(t *testing.T) {
	store := memory.NewStore()
	uc, recorder := newUseCases(store)

	out := createProduct(t, uc, dto.CreateProductRequest{
		Name:         "Lentejas",
		Category:     entity.CategoryFood,
		Unit:         entity.UnitKilogram,
		InitialStock: decPtr("7"),
	})

	assert.True(t, out.CurrentStock.Equal(decimal.RequireFromString("7")))

	movs, err := recorder.ListByProduct(out.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "el stock inicial deja exactamente un asiento")
	assert.Equal(t, entity.MovementTypeEntry, movs[0].Type)
	assert.Equal(t, "stock inicial", movs[0].Reason)
	assert.True(t, movs[0].PreviousStock.IsZero())
	assert.True(t, movs[0].NewStock.Equal(decimal.RequireFromString("7")))
}

func TestProductCreate_CodigoDeBarrasDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Arroz", Barcode: "7701234567890",
		Category: entity.CategoryFood, Unit: entity.UnitKilogram,
	})

	_, err := uc.Create(context.Background(), testUserID, dto.CreateProductRequest{
		Name: "Arroz premium", Barcode: "7701234567890",
		Category: entity.CategoryFood, Unit: entity.UnitKilogram,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Dos productos sin código de barras no chocan entre sí.
func TestProductCreate_CodigosVaciosNoSonDuplicados(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	createProduct(t, uc, dto.CreateProductRequest{Name: "Arroz", Category: entity.CategoryFood, Unit: entity.UnitKilogram})
	createProduct(t, uc, dto.CreateProductRequest{Name: "Sal", Category: entity.CategoryFood, Unit: entity.UnitUnit})
}

func TestProductCreate_EntradasInvalidas(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Category: entity.CategoryFood, Unit: entity.UnitUnit}},
		{"categoría desconocida", dto.CreateProductRequest{Name: "X", Category: "toys", Unit: entity.UnitUnit}},
		{"unidad desconocida", dto.CreateProductRequest{Name: "X", Category: entity.CategoryFood, Unit: "docena"}},
		{"mínimo negativo", dto.CreateProductRequest{Name: "X", Category: entity.CategoryFood, Unit: entity.UnitUnit, MinimumStock: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), testUserID, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update y SoftDelete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_NoTocaElStock(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	created := createProduct(t, uc, dto.CreateProductRequest{
		Name: "Arroz", Category: entity.CategoryFood, Unit: entity.UnitKilogram,
		InitialStock: decPtr("10"),
	})

	out, err := uc.Update(created.ID, dto.UpdateProductRequest{
		Name:         strPtr("Arroz integral"),
		MinimumStock: decPtr("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz integral", out.Name)
	assert.True(t, out.CurrentStock.Equal(decimal.RequireFromString("10")),
		"editar datos del producto no cambia el stock")
}

func TestProductUpdate_CodigoDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Arroz", Barcode: "111", Category: entity.CategoryFood, Unit: entity.UnitKilogram,
	})
	other := createProduct(t, uc, dto.CreateProductRequest{
		Name: "Sal", Barcode: "222", Category: entity.CategoryFood, Unit: entity.UnitUnit,
	})

	_, err := uc.Update(other.ID, dto.UpdateProductRequest{Barcode: strPtr("111")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductSoftDelete_ConservaHistorial(t *testing.T) {
	store := memory.NewStore()
	uc, recorder := newUseCases(store)

	created := createProduct(t, uc, dto.CreateProductRequest{
		Name: "Atún", Barcode: "333", Category: entity.CategoryFood, Unit: entity.UnitUnit,
		InitialStock: decPtr("3"),
	})
	require.NoError(t, uc.SoftDelete(created.ID))

	// Sigue accesible por ID, marcado inactivo.
	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Por código de barras ya no (esa búsqueda es solo entre activos).
	_, err = uc.GetByBarcode("333")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El libro de movimientos queda intacto.
	movs, err := recorder.ListByProduct(created.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestProductListLowStock_IncluyeElLimite(t *testing.T) {
	store := memory.NewStore()
	uc, recorder := newUseCases(store)

	created := createProduct(t, uc, dto.CreateProductRequest{
		Name: "Arroz", Category: entity.CategoryFood, Unit: entity.UnitKilogram,
		MinimumStock: decimal.NewFromInt(10),
		InitialStock: decPtr("20"),
	})

	out, err := uc.ListLowStock()
	require.NoError(t, err)
	assert.Zero(t, out.Count, "stock 20 sobre mínimo 10 no es bajo")

	// Una salida deja el stock exactamente en el mínimo: cuenta como bajo.
	_, err = recorder.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID:   created.ID,
		Type:        entity.MovementTypeExit,
		Quantity:    decimal.NewFromInt(10),
		PerformedBy: testUserID,
	})
	require.NoError(t, err)

	out, err = uc.ListLowStock()
	require.NoError(t, err)
	require.Equal(t, 1, out.Count, "stock igual al mínimo cuenta como bajo")
	assert.True(t, out.Items[0].LowStock)
}

func TestProductListNearExpiry(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	soon := time.Now().AddDate(0, 0, 5)
	far := time.Now().AddDate(0, 6, 0)
	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Leche", Category: entity.CategoryFood, Unit: entity.UnitLiter, ExpiryDate: &soon,
	})
	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Sal", Category: entity.CategoryFood, Unit: entity.UnitUnit, ExpiryDate: &far,
	})
	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Jabón", Category: entity.CategoryHygiene, Unit: entity.UnitUnit,
	})

	out, err := uc.ListNearExpiry(30)
	require.NoError(t, err)
	require.Equal(t, 1, out.Count, "solo el que vence dentro de la ventana")
	assert.Equal(t, "Leche", out.Items[0].Name)

	_, err = uc.ListNearExpiry(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductSearch_InsensibleATildesYMayusculas(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	createProduct(t, uc, dto.CreateProductRequest{
		Name: "Fríjol Rojo", Category: entity.CategoryFood, Unit: entity.UnitKilogram,
	})

	for _, q := range []string{"frijol", "FRÍJOL", "fríjol rojo"} {
		out, err := uc.Search(q, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Count, "la búsqueda %q debe encontrar el producto", q)
	}

	out, err := uc.Search("lenteja", 50, 0)
	require.NoError(t, err)
	assert.Zero(t, out.Count)
}

func TestProductListByCategory(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCases(store)

	createProduct(t, uc, dto.CreateProductRequest{Name: "Arroz", Category: entity.CategoryFood, Unit: entity.UnitKilogram})
	createProduct(t, uc, dto.CreateProductRequest{Name: "Jabón", Category: entity.CategoryHygiene, Unit: entity.UnitUnit})

	out, err := uc.ListByCategory(entity.CategoryFood, 50, 0)
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Arroz", out.Items[0].Name)

	_, err = uc.ListByCategory("toys", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
