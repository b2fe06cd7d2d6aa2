package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdelivery "github.com/tu-usuario/tienda-social-api/internal/application/delivery"
	"github.com/tu-usuario/tienda-social-api/internal/application/dto"
	"github.com/tu-usuario/tienda-social-api/internal/application/events"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/domain"
	"github.com/tu-usuario/tienda-social-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-social-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testVolunteerID   = "00000000-0000-0000-0000-000000000001"
	testAdminID       = "00000000-0000-0000-0000-000000000002"
	testBeneficiaryID = "00000000-0000-0000-0000-000000000003"
)

// fixture arma el almacén con dos productos y un kit que los combina:
// Arroz (stock 5, requiere 2) y Aceite (stock 1, requiere 1).
type fixture struct {
	store   *memory.Store
	uc      *appdelivery.DeliveryUseCase
	kit     *entity.Kit
	arroz   *entity.Product
	aceite  *entity.Product
	eventos *[]events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	arroz := seedProduct(t, store, "Arroz", "5")
	aceite := seedProduct(t, store, "Aceite", "1")
	k := seedKit(t, store, "Kit básico",
		entity.KitItem{ProductID: arroz.ID, ProductName: arroz.Name, Quantity: decimal.NewFromInt(2), Unit: arroz.Unit},
		entity.KitItem{ProductID: aceite.ID, ProductName: aceite.Name, Quantity: decimal.NewFromInt(1), Unit: aceite.Unit},
	)

	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(func(e events.Event) { published = append(published, e) })

	recorder := inventory.NewRecordMovementUseCase(store, store.Products(), store.Movements(), events.NopNotifier{})
	uc := appdelivery.NewDeliveryUseCase(store, store.Deliveries(), store.Kits(), recorder, bus)

	return &fixture{store: store, uc: uc, kit: k, arroz: arroz, aceite: aceite, eventos: &published}
}

func seedProduct(t *testing.T, store *memory.Store, name, stock string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Category:     entity.CategoryFood,
		Unit:         entity.UnitUnit,
		CurrentStock: decimal.RequireFromString(stock),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Products().Create(p))
	return p
}

func seedKit(t *testing.T, store *memory.Store, name string, items ...entity.KitItem) *entity.Kit {
	t.Helper()
	now := time.Now()
	k := &entity.Kit{
		ID:        uuid.New().String(),
		Name:      name,
		Items:     items,
		IsActive:  true,
		CreatedBy: testAdminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Kits().Create(k))
	return k
}

// createPending crea una entrega sin fecha: nace pendiente de aprobación.
func (f *fixture) createPending(t *testing.T) *dto.DeliveryResponse {
	t.Helper()
	out, err := f.uc.Create(testVolunteerID, dto.CreateDeliveryRequest{
		BeneficiaryID: testBeneficiaryID,
		KitID:         f.kit.ID,
	})
	require.NoError(t, err)
	return out
}

// createScheduled crea una entrega con fecha: nace directamente agendada.
func (f *fixture) createScheduled(t *testing.T) *dto.DeliveryResponse {
	t.Helper()
	date := time.Now().Add(24 * time.Hour)
	out, err := f.uc.Create(testVolunteerID, dto.CreateDeliveryRequest{
		BeneficiaryID: testBeneficiaryID,
		KitID:         f.kit.ID,
		ScheduledDate: &date,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stockOf(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryCreate_SinFechaNacePendiente(t *testing.T) {
	f := newFixture(t)
	out := f.createPending(t)

	assert.Equal(t, entity.DeliveryStatusPendingApproval, out.Status)
	assert.NotNil(t, out.RequestedAt, "la solicitud queda fechada")
	assert.Equal(t, testVolunteerID, out.CreatedBy)
	require.Len(t, *f.eventos, 1)
	assert.Equal(t, events.DeliveryCreated, (*f.eventos)[0].Type)
}

func TestDeliveryCreate_ConFechaNaceAgendada(t *testing.T) {
	f := newFixture(t)
	out := f.createScheduled(t)

	assert.Equal(t, entity.DeliveryStatusScheduled, out.Status,
		"con fecha la entrega salta el circuito de aprobación")
	assert.NotNil(t, out.ScheduledDate)
}

func TestDeliveryCreate_KitInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(testVolunteerID, dto.CreateDeliveryRequest{
		BeneficiaryID: testBeneficiaryID,
		KitID:         uuid.New().String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryCreate_SinBeneficiario(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(testVolunteerID, dto.CreateDeliveryRequest{KitID: f.kit.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación, rechazo y agenda
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryApprove_DesdePendiente(t *testing.T) {
	f := newFixture(t)
	created := f.createPending(t)

	out, err := f.uc.Approve(created.ID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusApproved, out.Status)
	assert.Equal(t, testAdminID, out.ApprovedBy)
	assert.NotNil(t, out.ApprovedAt)
}

func TestDeliveryApprove_SoloDesdePendiente(t *testing.T) {
	f := newFixture(t)
	created := f.createScheduled(t)

	_, err := f.uc.Approve(created.ID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"una entrega ya agendada no puede volver a aprobarse")
}

func TestDeliveryReject_MotivoObligatorio(t *testing.T) {
	f := newFixture(t)
	created := f.createPending(t)

	_, err := f.uc.Reject(created.ID, testAdminID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := f.uc.Reject(created.ID, testAdminID, "beneficiario ya atendido este mes")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusRejected, out.Status)
	assert.Equal(t, "beneficiario ya atendido este mes", out.RejectionReason)

	// Rechazada es terminal: no se puede aprobar ni cancelar.
	_, err = f.uc.Approve(created.ID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Cancel(created.ID, testAdminID, "da igual")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeliverySchedule_DesdeAprobada(t *testing.T) {
	f := newFixture(t)
	created := f.createPending(t)

	// Agendar sin aprobar primero debe fallar.
	date := time.Now().Add(48 * time.Hour)
	_, err := f.uc.Schedule(created.ID, date, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Approve(created.ID, testAdminID)
	require.NoError(t, err)

	out, err := f.uc.Schedule(created.ID, date, "entregar en la mañana")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusScheduled, out.Status)
	require.NotNil(t, out.ScheduledDate)
	assert.True(t, out.ScheduledDate.Equal(date))
	assert.Equal(t, "entregar en la mañana", out.Notes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación atómica
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryConfirm_DescuentaTodoElKit(t *testing.T) {
	f := newFixture(t)
	created := f.createScheduled(t)

	out, err := f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusConfirmed, out.Status)
	assert.Equal(t, testVolunteerID, out.ConfirmedBy)

	assert.True(t, f.stockOf(t, f.arroz.ID).Equal(decimal.NewFromInt(3)), "arroz: 5 - 2 = 3")
	assert.True(t, f.stockOf(t, f.aceite.ID).IsZero(), "aceite: 1 - 1 = 0")

	// Un asiento de salida por renglón, referenciando la entrega.
	movs, err := f.store.Movements().ListByReference(created.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeExit, m.Type)
		assert.Equal(t, appdelivery.ReasonDeliveryConfirmed, m.Reason)
		assert.Equal(t, testVolunteerID, m.PerformedBy)
	}

	// Evento post-commit.
	require.NotEmpty(t, *f.eventos)
	last := (*f.eventos)[len(*f.eventos)-1]
	assert.Equal(t, events.DeliveryConfirmed, last.Type)
	assert.Equal(t, created.ID, last.EntityID)
}

// Reintentar un Confirm ya aplicado no vuelve a descontar stock.
func TestDeliveryConfirm_ReintentoEsRechazado(t *testing.T) {
	f := newFixture(t)
	created := f.createScheduled(t)

	_, err := f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.True(t, f.stockOf(t, f.arroz.ID).Equal(decimal.NewFromInt(3)),
		"el reintento no debe descontar de nuevo")
	movs, err := f.store.Movements().ListByReference(created.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "siguen siendo los asientos del primer Confirm")
}

// Si falla el descuento de cualquier renglón se revierte todo: ningún
// movimiento queda asentado, ningún stock cambia y la entrega sigue agendada.
func TestDeliveryConfirm_RollbackSiFallaUnRenglon(t *testing.T) {
	f := newFixture(t)
	created := f.createScheduled(t)

	f.store.FailStockUpdate(f.aceite.ID, errors.New("disco lleno"))

	_, err := f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	require.Error(t, err)

	assert.True(t, f.stockOf(t, f.arroz.ID).Equal(decimal.NewFromInt(5)),
		"el descuento del primer renglón también debe revertirse")
	assert.True(t, f.stockOf(t, f.aceite.ID).Equal(decimal.NewFromInt(1)))

	movs, err := f.store.Movements().ListByReference(created.ID)
	require.NoError(t, err)
	assert.Empty(t, movs, "la transacción fallida no deja asientos")

	got, err := f.uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusScheduled, got.Status,
		"la entrega queda agendada, lista para reintentar")

	for _, e := range *f.eventos {
		assert.NotEqual(t, events.DeliveryConfirmed, e.Type,
			"no debe publicarse confirmación sin commit")
	}
}

func TestDeliveryConfirm_SoloAgendada(t *testing.T) {
	f := newFixture(t)
	created := f.createPending(t)

	_, err := f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.True(t, f.stockOf(t, f.arroz.ID).Equal(decimal.NewFromInt(5)))
}

func TestDeliveryConfirm_EntregaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Confirm(context.Background(), uuid.New().String(), testVolunteerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryCancel_EstadosNoTerminales(t *testing.T) {
	f := newFixture(t)

	// Pendiente → cancelable.
	pending := f.createPending(t)
	out, err := f.uc.Cancel(pending.ID, testAdminID, "beneficiario no asistió")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusCancelled, out.Status)
	assert.Equal(t, "beneficiario no asistió", out.CancelReason)

	// Agendada → cancelable, sin tocar stock.
	scheduled := f.createScheduled(t)
	_, err = f.uc.Cancel(scheduled.ID, testAdminID, "kit dañado")
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, f.arroz.ID).Equal(decimal.NewFromInt(5)),
		"cancelar nunca toca el stock")
}

func TestDeliveryCancel_ConfirmadaNoSePuedeCancelar(t *testing.T) {
	f := newFixture(t)
	created := f.createScheduled(t)

	_, err := f.uc.Confirm(context.Background(), created.ID, testVolunteerID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(created.ID, testAdminID, "arrepentidos")
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"no hay camino de reversa del stock de una entrega confirmada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryListByStatus(t *testing.T) {
	f := newFixture(t)
	f.createPending(t)
	f.createPending(t)
	f.createScheduled(t)

	pendientes, err := f.uc.ListByStatus(entity.DeliveryStatusPendingApproval, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, pendientes.Count)

	_, err = f.uc.ListByStatus("entregada", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado desconocido")
}

func TestDeliveryListByBeneficiary(t *testing.T) {
	f := newFixture(t)
	f.createPending(t)
	f.createScheduled(t)

	historial, err := f.uc.ListByBeneficiary(testBeneficiaryID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, historial.Count)

	otro, err := f.uc.ListByBeneficiary(uuid.New().String(), 50, 0)
	require.NoError(t, err)
	assert.Zero(t, otro.Count)
}
