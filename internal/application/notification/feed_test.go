package notification_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabem/farmastock-api/internal/application/notification"
	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
)

// fakeStream stream de eventos controlado por el test.
type fakeStream struct {
	ch chan entity.StockEvent

	mu       sync.Mutex
	canceled bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{ch: make(chan entity.StockEvent, 64)}
}

func (s *fakeStream) Subscribe() (<-chan entity.StockEvent, func()) {
	return s.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.canceled {
			s.canceled = true
			close(s.ch)
		}
	}
}

func collectNotes(t *testing.T, notes <-chan entity.Notification, n int) []entity.Notification {
	t.Helper()
	out := make([]entity.Notification, 0, n)
	for i := 0; i < n; i++ {
		select {
		case note := <-notes:
			out = append(out, note)
		case <-time.After(2 * time.Second):
			t.Fatalf("esperaba %d avisos, llegaron %d", n, len(out))
		}
	}
	return out
}

// Cada fuente de evento produce su mensaje propio.
func TestFeed_FormatoDeMensajes(t *testing.T) {
	stream := newFakeStream()
	feed := notification.NewFeed(stream)

	notes := make(chan entity.Notification, 8)
	unsubscribe, err := feed.Subscribe(func(n entity.Notification) { notes <- n })
	require.NoError(t, err)
	defer unsubscribe()

	now := time.Now()
	stream.ch <- entity.StockEvent{Source: entity.EventSourceEntry, MedicationName: "Paracetamol", Quantity: 20, OccurredAt: now}
	stream.ch <- entity.StockEvent{Source: entity.EventSourceExit, MedicationName: "Ibuprofeno", Quantity: 5, OccurredAt: now.Add(time.Second)}
	stream.ch <- entity.StockEvent{Source: entity.EventSourceMedication, MedicationName: "Amoxicilina", OccurredAt: now.Add(2 * time.Second)}

	got := collectNotes(t, notes, 3)
	assert.Equal(t, "Entrada: 20x Paracetamol", got[0].Message)
	assert.Equal(t, "Salida: 5x Ibuprofeno", got[1].Message)
	assert.Equal(t, "Nuevo medicamento registrado: Amoxicilina", got[2].Message)
}

// La lista retiene como máximo 20 avisos, los más recientes primero.
func TestFeed_TopeDeVeinteMasRecientesPrimero(t *testing.T) {
	stream := newFakeStream()
	feed := notification.NewFeed(stream)

	notes := make(chan entity.Notification, 64)
	unsubscribe, err := feed.Subscribe(func(n entity.Notification) { notes <- n })
	require.NoError(t, err)
	defer unsubscribe()

	base := time.Now()
	for i := 0; i < 25; i++ {
		stream.ch <- entity.StockEvent{
			Source:         entity.EventSourceEntry,
			MedicationName: fmt.Sprintf("Med-%02d", i),
			Quantity:       1,
			OccurredAt:     base.Add(time.Duration(i) * time.Minute),
		}
	}
	collectNotes(t, notes, 25)

	snapshot := feed.Snapshot()
	require.Len(t, snapshot, 20, "nunca retiene más de 20 avisos")
	assert.Equal(t, "Entrada: 1x Med-24", snapshot[0].Message, "el más reciente va primero")
	assert.Equal(t, "Entrada: 1x Med-05", snapshot[19].Message, "los 5 más viejos se descartaron")
	for i := 1; i < len(snapshot); i++ {
		assert.False(t, snapshot[i].OccurredAt.After(snapshot[i-1].OccurredAt),
			"el orden debe ser descendente por fecha")
	}
}

// Un feed suscrito no admite una segunda suscripción.
func TestFeed_DobleSuscripcionRechazada(t *testing.T) {
	feed := notification.NewFeed(newFakeStream())

	unsubscribe, err := feed.Subscribe(nil)
	require.NoError(t, err)
	defer unsubscribe()

	_, err = feed.Subscribe(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La baja es síncrona: al retornar, el slot quedó libre y no llegan más avisos.
func TestFeed_BajaSincrona(t *testing.T) {
	stream := newFakeStream()
	feed := notification.NewFeed(stream)

	notes := make(chan entity.Notification, 8)
	unsubscribe, err := feed.Subscribe(func(n entity.Notification) { notes <- n })
	require.NoError(t, err)

	stream.ch <- entity.StockEvent{Source: entity.EventSourceEntry, MedicationName: "Paracetamol", Quantity: 1, OccurredAt: time.Now()}
	collectNotes(t, notes, 1)

	unsubscribe()
	assert.Empty(t, notes, "tras la baja no se entregan más avisos")

	// El feed vuelve a Idle y admite una nueva suscripción
	unsubscribe2, err := feed.Subscribe(nil)
	require.NoError(t, err, "tras la baja el feed debe poder resuscribirse")
	unsubscribe2()

	// Llamar la baja dos veces es inocuo
	unsubscribe()
}
