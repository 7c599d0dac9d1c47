// Package notification implementa el feed de avisos en vivo: una vista
// derivada y efímera sobre los eventos nuevos del ledger y del catálogo.
package notification

import (
	"fmt"
	"sort"
	"sync"

	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
)

// maxNotifications tope de avisos retenidos por sesión.
const maxNotifications = 20

// EventStream puerto de suscripción a eventos de stock. cancel libera el
// slot del suscriptor y cierra el canal; debe poder llamarse una sola vez.
type EventStream interface {
	Subscribe() (events <-chan entity.StockEvent, cancel func())
}

// Feed mantiene la lista de notificaciones de una sesión suscrita.
// Estados: Idle (sin suscripción) ↔ Subscribed. Unsubscribe es síncrono:
// cuando retorna, la goroutine consumidora terminó y el stream quedó liberado.
type Feed struct {
	stream EventStream

	mu         sync.Mutex
	items      []entity.Notification
	subscribed bool
}

// NewFeed construye un feed sobre el stream dado.
func NewFeed(stream EventStream) *Feed {
	return &Feed{stream: stream}
}

// Subscribe pasa el feed a Subscribed y entrega cada aviso nuevo a onNotification
// (además de acumularlo en la lista interna). Devuelve el handle de baja.
// Un feed ya suscrito no admite una segunda suscripción.
func (f *Feed) Subscribe(onNotification func(entity.Notification)) (unsubscribe func(), err error) {
	f.mu.Lock()
	if f.subscribed {
		f.mu.Unlock()
		return nil, domain.ErrInvalidInput
	}
	f.subscribed = true
	f.mu.Unlock()

	events, cancel := f.stream.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range events {
			note := entity.Notification{
				Message:    formatMessage(ev),
				OccurredAt: ev.OccurredAt,
			}
			f.add(note)
			if onNotification != nil {
				onNotification(note)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done // la goroutine drenó y terminó antes de retornar
			f.mu.Lock()
			f.subscribed = false
			f.mu.Unlock()
		})
	}, nil
}

// Snapshot devuelve las notificaciones acumuladas, más recientes primero.
func (f *Feed) Snapshot() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// add antepone el aviso, reordena por fecha descendente y corta en el tope.
// Lo perdido mientras no hubo suscripción no se rellena.
func (f *Feed) add(note entity.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]entity.Notification{note}, f.items...)
	sort.SliceStable(f.items, func(i, j int) bool {
		return f.items[i].OccurredAt.After(f.items[j].OccurredAt)
	})
	if len(f.items) > maxNotifications {
		f.items = f.items[:maxNotifications]
	}
}

func formatMessage(ev entity.StockEvent) string {
	switch ev.Source {
	case entity.EventSourceEntry:
		return fmt.Sprintf("Entrada: %dx %s", ev.Quantity, ev.MedicationName)
	case entity.EventSourceExit:
		return fmt.Sprintf("Salida: %dx %s", ev.Quantity, ev.MedicationName)
	case entity.EventSourceMedication:
		return fmt.Sprintf("Nuevo medicamento registrado: %s", ev.MedicationName)
	}
	return ev.MedicationName
}
