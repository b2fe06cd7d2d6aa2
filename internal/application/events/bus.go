package events

import (
	"sync"
	"time"
)

// Tipos de evento publicados tras una escritura confirmada.
const (
	MovementRecorded  = "movement.recorded"
	DeliveryCreated   = "delivery.created"
	DeliveryApproved  = "delivery.approved"
	DeliveryRejected  = "delivery.rejected"
	DeliveryScheduled = "delivery.scheduled"
	DeliveryConfirmed = "delivery.confirmed"
	DeliveryCancelled = "delivery.cancelled"
)

// Event notifica una escritura ya confirmada (post-commit). Es un gancho
// para la capa de presentación (refrescos de UI, notificaciones); el core
// no depende de que alguien lo consuma.
type Event struct {
	Type     string
	EntityID string
	At       time.Time
}

// Notifier publica eventos post-commit.
type Notifier interface {
	Publish(e Event)
}

// NopNotifier descarta todos los eventos. Útil cuando no hay suscriptores.
type NopNotifier struct{}

// Publish no hace nada.
func (NopNotifier) Publish(Event) {}

// Bus es un bus de eventos en memoria, seguro para uso concurrente.
// Los suscriptores se invocan de forma síncrona en el orden de suscripción;
// deben ser rápidos o despachar a su propia goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus construye un bus vacío.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registra un suscriptor. No hay des-suscripción: los suscriptores
// viven tanto como la aplicación.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish entrega el evento a todos los suscriptores.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}
