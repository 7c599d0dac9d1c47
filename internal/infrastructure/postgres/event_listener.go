package postgres

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmabem/farmastock-api/internal/application/notification"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/pkg/logger"
)

// eventChannel canal de LISTEN/NOTIFY donde los escritores publican eventos.
const eventChannel = "stock_events"

// subscriberBuffer tamaño del buffer por suscriptor; con el buffer lleno los
// eventos se descartan para que un consumidor lento no frene el listener.
const subscriberBuffer = 32

// publishEvent emite el evento por pg_notify usando el mismo Querier (pool o
// tx) del escritor. Dentro de una transacción la entrega queda diferida al
// commit, que es exactamente la semántica que el feed necesita.
func publishEvent(ctx context.Context, q Querier, ev entity.StockEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return storeError("marshal stock event", err)
	}
	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, eventChannel, string(payload)); err != nil {
		return storeError("notify stock event", err)
	}
	return nil
}

// Ensure EventListener implements notification.EventStream.
var _ notification.EventStream = (*EventListener)(nil)

// EventListener mantiene una conexión dedicada en LISTEN sobre eventChannel y
// reparte cada notificación entre los suscriptores en proceso.
type EventListener struct {
	pool *pgxpool.Pool
	log  *logger.Logger

	mu     sync.Mutex
	subs   map[int]chan entity.StockEvent
	nextID int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEventListener construye el listener (sin arrancarlo).
func NewEventListener(pool *pgxpool.Pool, log *logger.Logger) *EventListener {
	return &EventListener{
		pool: pool,
		log:  log,
		subs: make(map[int]chan entity.StockEvent),
	}
}

// Start lanza la goroutine de escucha. Ante un error de conexión reintenta
// con una pausa fija hasta que se llame Close.
func (l *EventListener) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for {
			if err := l.listen(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				l.log.Warn().Err(err).Msg("listener de eventos desconectado, reintentando")
				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Second):
				}
			}
		}
	}()
}

// listen toma una conexión del pool, la deja en LISTEN y bombea
// notificaciones hasta que falle o se cancele el contexto.
func (l *EventListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN `+eventChannel); err != nil {
		return err
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var ev entity.StockEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			l.log.Warn().Err(err).Str("payload", n.Payload).Msg("evento de stock ilegible, descartado")
			continue
		}
		l.broadcast(ev)
	}
}

// Subscribe registra un suscriptor. cancel lo da de baja y cierra su canal;
// el cierre es síncrono, al retornar el slot quedó liberado.
func (l *EventListener) Subscribe() (<-chan entity.StockEvent, func()) {
	ch := make(chan entity.StockEvent, subscriberBuffer)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// broadcast entrega el evento a cada suscriptor sin bloquear: si el buffer
// de alguno está lleno, ese evento se pierde para ese suscriptor.
func (l *EventListener) broadcast(ev entity.StockEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close detiene la escucha y espera a que la goroutine termine.
func (l *EventListener) Close() {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}
}
