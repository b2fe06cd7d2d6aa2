package events_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/tienda-social-api/internal/application/events"
)

func TestBus_EntregaATodosLosSuscriptores(t *testing.T) {
	bus := events.NewBus()
	var primero, segundo []events.Event
	bus.Subscribe(func(e events.Event) { primero = append(primero, e) })
	bus.Subscribe(func(e events.Event) { segundo = append(segundo, e) })

	e := events.Event{Type: events.MovementRecorded, EntityID: "m-1", At: time.Now()}
	bus.Publish(e)

	assert.Equal(t, []events.Event{e}, primero)
	assert.Equal(t, []events.Event{e}, segundo)
}

func TestBus_SinSuscriptoresNoFalla(t *testing.T) {
	bus := events.NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(events.Event{Type: events.DeliveryCreated, EntityID: "d-1"})
	})
}

func TestBus_PublicacionConcurrente(t *testing.T) {
	bus := events.NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(func(events.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(events.Event{Type: events.MovementRecorded})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count, "cada Publish debe llegar al suscriptor exactamente una vez")
}

func TestNopNotifier_DescartaEventos(t *testing.T) {
	var n events.Notifier = events.NopNotifier{}
	assert.NotPanics(t, func() {
		n.Publish(events.Event{Type: events.DeliveryConfirmed})
	})
}
