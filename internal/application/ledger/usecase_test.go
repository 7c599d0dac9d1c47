package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabem/farmastock-api/internal/application/dto"
	"github.com/farmabem/farmastock-api/internal/application/ledger"
	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: un almacén en memoria con semántica transaccional real. Run serializa
// las transacciones con un mutex (equivalente al lock de fila) y ante error
// restaura el snapshot previo, igual que un ROLLBACK.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu   sync.Mutex
	meds map[string]*entity.Medication
	movs map[string]*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		meds: make(map[string]*entity.Medication),
		movs: make(map[string]*entity.StockMovement),
	}
}

func (s *memStore) addMedication(id, name string, initial int64) {
	s.meds[id] = &entity.Medication{
		ID:              id,
		Name:            name,
		InitialQuantity: initial,
		Quantity:        initial,
	}
}

func (s *memStore) snapshot() (map[string]*entity.Medication, map[string]*entity.StockMovement) {
	meds := make(map[string]*entity.Medication, len(s.meds))
	for k, v := range s.meds {
		cp := *v
		meds[k] = &cp
	}
	movs := make(map[string]*entity.StockMovement, len(s.movs))
	for k, v := range s.movs {
		cp := *v
		movs[k] = &cp
	}
	return meds, movs
}

// Run implementa ledger.TxRunner sobre el almacén en memoria.
func (s *memStore) Run(ctx context.Context, fn func(repository.StockMovementRepository, repository.MedicationRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meds, movs := s.snapshot()
	err := fn(&memMovementRepo{s: s}, &memMedicationRepo{s: s})
	if err != nil {
		s.meds, s.movs = meds, movs // rollback
		return err
	}
	return nil
}

type memMedicationRepo struct{ s *memStore }

func (r *memMedicationRepo) Create(_ context.Context, med *entity.Medication) error {
	cp := *med
	r.s.meds[med.ID] = &cp
	return nil
}

func (r *memMedicationRepo) GetByID(_ context.Context, id string) (*entity.Medication, error) {
	m, ok := r.s.meds[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMedicationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Medication, error) {
	// El lock de fila ya lo aporta el mutex de Run
	return r.GetByID(ctx, id)
}

func (r *memMedicationRepo) UpdateAttributes(_ context.Context, med *entity.Medication) error {
	existing, ok := r.s.meds[med.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *med
	cp.Quantity = existing.Quantity
	cp.InitialQuantity = existing.InitialQuantity
	r.s.meds[med.ID] = &cp
	return nil
}

func (r *memMedicationRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	m, ok := r.s.meds[id]
	if !ok {
		return domain.ErrNotFound
	}
	// Misma restricción que el CHECK (quantity >= 0) de la tabla real
	if quantity < 0 {
		return fmt.Errorf("update quantity: %w", errors.Join(domain.ErrStore, errors.New("check constraint violada")))
	}
	m.Quantity = quantity
	return nil
}

func (r *memMedicationRepo) RecomputeQuantity(ctx context.Context, id string) (int64, error) {
	m, ok := r.s.meds[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	total := m.InitialQuantity
	for _, mov := range r.s.movs {
		if mov.MedicationID != id {
			continue
		}
		if mov.Kind == entity.MovementKindEntry {
			total += mov.Quantity
		} else {
			total -= mov.Quantity
		}
	}
	// Igual que el adaptador real: un total negativo no se persiste, se
	// devuelve para que el caller rechace la corrección
	if total < 0 {
		return total, nil
	}
	if err := r.UpdateQuantity(ctx, id, total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *memMedicationRepo) List(_ context.Context) ([]*entity.Medication, error) {
	out := make([]*entity.Medication, 0, len(r.s.meds))
	for _, m := range r.s.meds {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	cp := *movement
	r.s.movs[movement.ID] = &cp
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.s.movs[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	m, ok := r.s.movs[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Quantity = quantity
	return nil
}

func (r *memMovementRepo) ListByMedication(_ context.Context, medicationID string, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movs {
		if m.MedicationID == medicationID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

const (
	medID      = "med-001"
	testUserID = "user-001"
)

func entryReq(qty int64) dto.RegisterEntryRequest {
	return dto.RegisterEntryRequest{
		MedicationID: medID,
		Quantity:     qty,
		Batch:        "L-2026-01",
		Responsible:  "Ana Pérez",
	}
}

func exitReq(qty int64) dto.RegisterExitRequest {
	return dto.RegisterExitRequest{
		MedicationID: medID,
		Quantity:     qty,
		Reason:       "dispensación",
		Responsible:  "Ana Pérez",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

// Una entrada suma al stock y deja exactamente un evento en el log.
func TestRecordEntry_SumaStockYRegistraEvento(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Paracetamol 500mg", 50)
	uc := ledger.NewLedgerUseCase(store)

	eventID, err := uc.RecordEntry(context.Background(), testUserID, entryReq(20))
	require.NoError(t, err)
	require.NotEmpty(t, eventID)

	assert.Equal(t, int64(70), store.meds[medID].Quantity,
		"el stock debe pasar de 50 a 70")
	require.Len(t, store.movs, 1, "debe quedar exactamente un evento")
	mov := store.movs[eventID]
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementKindEntry, mov.Kind)
	assert.Equal(t, int64(20), mov.Quantity)
	assert.Equal(t, "Paracetamol 500mg", mov.MedicationName)
	assert.Equal(t, testUserID, mov.CreatedBy)
}

func TestRecordEntry_MedicamentoInexistente(t *testing.T) {
	store := newMemStore()
	uc := ledger.NewLedgerUseCase(store)

	_, err := uc.RecordEntry(context.Background(), testUserID, entryReq(20))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movs, "no debe quedar ningún evento")
}

func TestRecordEntry_ValidacionDeEntrada(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Paracetamol 500mg", 50)
	uc := ledger.NewLedgerUseCase(store)

	// Cantidad cero
	req := entryReq(0)
	_, err := uc.RecordEntry(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin responsable
	req = entryReq(10)
	req.Responsible = ""
	_, err = uc.RecordEntry(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Fecha con formato inválido
	req = entryReq(10)
	req.MovementDate = "01/02/2026"
	_, err = uc.RecordEntry(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(50), store.meds[medID].Quantity, "el stock no debe moverse")
	assert.Empty(t, store.movs)
}

// Sin fecha informada se completa con la fecha del día.
func TestRecordEntry_FechaVaciaUsaHoy(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Paracetamol 500mg", 50)
	uc := ledger.NewLedgerUseCase(store)

	eventID, err := uc.RecordEntry(context.Background(), testUserID, entryReq(5))
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), store.movs[eventID].MovementDate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

// Una salida que excede el stock se rechaza completa: ni evento ni decremento.
func TestRecordExit_StockInsuficiente(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Ibuprofeno 400mg", 70)
	uc := ledger.NewLedgerUseCase(store)

	_, err := uc.RecordExit(context.Background(), testUserID, exitReq(100))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(70), store.meds[medID].Quantity, "el stock debe quedar intacto")
	assert.Empty(t, store.movs, "no debe registrarse ningún evento")
}

// Sacar exactamente el stock disponible deja la cantidad en cero.
func TestRecordExit_HastaCero(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Ibuprofeno 400mg", 70)
	uc := ledger.NewLedgerUseCase(store)

	eventID, err := uc.RecordExit(context.Background(), testUserID, exitReq(70))
	require.NoError(t, err)

	assert.Equal(t, int64(0), store.meds[medID].Quantity)
	assert.Equal(t, entity.MovementKindExit, store.movs[eventID].Kind)
}

// Dos salidas concurrentes que no caben juntas: exactamente una gana.
func TestRecordExit_ConcurrenciaUnaSolaGana(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Amoxicilina 500mg", 10)
	uc := ledger.NewLedgerUseCase(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RecordExit(context.Background(), testUserID, exitReq(8))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactamente una salida debe aplicarse")
	assert.Equal(t, 1, insufficient, "la otra debe fallar por stock insuficiente")
	assert.Equal(t, int64(2), store.meds[medID].Quantity, "10 - 8 = 2, nunca negativo")
	assert.Len(t, store.movs, 1, "solo la salida ganadora deja evento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrección de cantidad con reconciliación
// ──────────────────────────────────────────────────────────────────────────────

// Corregir un evento recalcula el stock desde el log completo.
func TestCorrectQuantity_ReconciliaStock(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Paracetamol 500mg", 50)
	uc := ledger.NewLedgerUseCase(store)

	entryID, err := uc.RecordEntry(context.Background(), testUserID, entryReq(20))
	require.NoError(t, err)
	_, err = uc.RecordExit(context.Background(), testUserID, exitReq(30))
	require.NoError(t, err)
	require.Equal(t, int64(40), store.meds[medID].Quantity, "50 + 20 - 30")

	// La entrada real fue de 35, no de 20
	require.NoError(t, uc.CorrectQuantity(context.Background(), entryID, 35))

	assert.Equal(t, int64(35), store.movs[entryID].Quantity, "el evento queda corregido")
	assert.Equal(t, int64(55), store.meds[medID].Quantity, "50 + 35 - 30, reconciliado")
}

// Una corrección que dejaría el stock negativo se rechaza completa.
func TestCorrectQuantity_RechazaStockNegativo(t *testing.T) {
	store := newMemStore()
	store.addMedication(medID, "Paracetamol 500mg", 10)
	uc := ledger.NewLedgerUseCase(store)

	exitID, err := uc.RecordExit(context.Background(), testUserID, exitReq(5))
	require.NoError(t, err)

	// Corregir la salida a 25 implicaría 10 - 25 = -15
	err = uc.CorrectQuantity(context.Background(), exitID, 25)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrStore,
		"el rechazo es de negocio, nunca debe verse como falla del almacén")

	assert.Equal(t, int64(5), store.movs[exitID].Quantity, "el evento no debe cambiar")
	assert.Equal(t, int64(5), store.meds[medID].Quantity, "el stock no debe cambiar")
}

func TestCorrectQuantity_Validaciones(t *testing.T) {
	store := newMemStore()
	uc := ledger.NewLedgerUseCase(store)

	assert.ErrorIs(t, uc.CorrectQuantity(context.Background(), "mov-x", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.CorrectQuantity(context.Background(), "mov-x", -3), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.CorrectQuantity(context.Background(), "mov-x", 10), domain.ErrNotFound)
}
