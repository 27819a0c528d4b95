package receiving_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/application/dto"
	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
	"github.com/jhoicas/Recepciones-api/pkg/logger"
)

// ---- fakes en memoria ----

type fakeReceiptRepo struct {
	receipts map[string]*entity.GoodsReceipt
	created  []*entity.GoodsReceipt
}

func newFakeReceiptRepo(receipts ...*entity.GoodsReceipt) *fakeReceiptRepo {
	repo := &fakeReceiptRepo{receipts: map[string]*entity.GoodsReceipt{}}
	for _, r := range receipts {
		repo.receipts[r.ID] = r
	}
	return repo
}

func (f *fakeReceiptRepo) Create(r *entity.GoodsReceipt) error {
	cp := *r
	f.receipts[r.ID] = &cp
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeReceiptRepo) GetByID(id string) (*entity.GoodsReceipt, error) {
	r, ok := f.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	cp.Items = append([]entity.GoodsReceiptItem(nil), r.Items...)
	return &cp, nil
}

func (f *fakeReceiptRepo) Update(r *entity.GoodsReceipt) error {
	if _, ok := f.receipts[r.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *r
	f.receipts[r.ID] = &cp
	return nil
}

func (f *fakeReceiptRepo) List(_ repository.GoodsReceiptFilters, _, _ int) ([]*entity.GoodsReceipt, error) {
	out := make([]*entity.GoodsReceipt, 0, len(f.receipts))
	for _, r := range f.receipts {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReceiptRepo) Delete(id string) error {
	if _, ok := f.receipts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.receipts, id)
	return nil
}

type fakePORepo struct {
	orders map[string]*entity.PurchaseOrder
}

func (f *fakePORepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return f.orders[id], nil
}

func (f *fakePORepo) List(_ string, _, _ int) ([]*entity.PurchaseOrder, error) { return nil, nil }

func (f *fakePORepo) SetFieldReportVerified(_ string, _ bool) error { return nil }

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) Create(_ *entity.Warehouse) error { return nil }
func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}
func (f *fakeWarehouseRepo) Update(_ *entity.Warehouse) error              { return nil }
func (f *fakeWarehouseRepo) List(_, _ int) ([]*entity.Warehouse, error)    { return nil, nil }
func (f *fakeWarehouseRepo) Delete(_ string) error                         { return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(_ *entity.Product) error                 { return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error)     { return f.products[id], nil }
func (f *fakeProductRepo) GetBySKU(_ string) (*entity.Product, error)     { return nil, nil }
func (f *fakeProductRepo) Update(_ *entity.Product) error                 { return nil }
func (f *fakeProductRepo) List(_, _ int) ([]*entity.Product, error)       { return nil, nil }
func (f *fakeProductRepo) Delete(_ string) error                          { return nil }
func (f *fakeProductRepo) GetByIDs(ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeTxRunner struct {
	receiptRepo repository.GoodsReceiptRepository
	poRepo      repository.PurchaseOrderRepository
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	repository.GoodsReceiptRepository,
	repository.PurchaseOrderRepository,
) error) error {
	return fn(f.receiptRepo, f.poRepo)
}

type fakeUnlocker struct{ released bool }

func (f *fakeUnlocker) Release(_ context.Context) error {
	f.released = true
	return nil
}

type fakeLocker struct {
	busy     bool
	unlocker *fakeUnlocker
	keys     []string
}

func (f *fakeLocker) Lock(_ context.Context, key string, _ time.Duration) (apprecv.Unlocker, error) {
	f.keys = append(f.keys, key)
	if f.busy {
		return nil, errors.New("lock no obtenido")
	}
	f.unlocker = &fakeUnlocker{}
	return f.unlocker, nil
}

type fakePublisher struct {
	keys   []string
	events []any
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, key string, event any) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.events = append(f.events, event)
	return nil
}

// ---- armado de escenarios ----

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func seedReceipt(status string, items ...entity.GoodsReceiptItem) *entity.GoodsReceipt {
	return &entity.GoodsReceipt{
		ID:              "gr-1",
		Number:          "GR-20260901-TEST01",
		Status:          status,
		SourceType:      entity.ReceiptSourcePurchase,
		WarehouseID:     "wh-1",
		PurchaseOrderID: "po-1",
		Items:           items,
	}
}

func seedItem(id string, plan, received float64, qc string) entity.GoodsReceiptItem {
	return entity.GoodsReceiptItem{
		ID:          "item-" + id,
		ReceiptID:   "gr-1",
		ProductID:   "prod-" + id,
		Unit:        "UN",
		QtyPlan:     d(plan),
		QtyReceived: d(received),
		QCStatus:    qc,
		POItemID:    "po-item-" + id,
	}
}

type env struct {
	uc          *apprecv.WorkflowUseCase
	receiptRepo *fakeReceiptRepo
	locker      *fakeLocker
	publisher   *fakePublisher
}

func newEnv(t *testing.T, receipts ...*entity.GoodsReceipt) *env {
	t.Helper()
	receiptRepo := newFakeReceiptRepo(receipts...)
	poRepo := &fakePORepo{orders: map[string]*entity.PurchaseOrder{
		"po-1": {
			ID:          "po-1",
			Status:      entity.POStatusApproved,
			WarehouseID: "wh-1",
			Items: []entity.PurchaseOrderItem{
				{ID: "po-item-a", ProductID: "prod-a", Unit: "UN", Quantity: d(100), FieldReportVerified: true},
				{ID: "po-item-b", ProductID: "prod-b", Unit: "UN", Quantity: d(50), FieldReportVerified: true},
			},
		},
	}}
	warehouseRepo := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh-1": {ID: "wh-1", Name: "Principal"},
	}}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-a": {ID: "prod-a", SKU: "SKU-A", Name: "Cemento gris"},
		"prod-b": {ID: "prod-b", SKU: "SKU-B", Name: "Varilla 3/8"},
	}}
	locker := &fakeLocker{}
	publisher := &fakePublisher{}
	uc := apprecv.NewWorkflowUseCase(
		&fakeTxRunner{receiptRepo: receiptRepo, poRepo: poRepo},
		receiptRepo, poRepo, warehouseRepo, productRepo,
		locker, publisher, nil, nil,
		logger.NewNop(),
	)
	return &env{uc: uc, receiptRepo: receiptRepo, locker: locker, publisher: publisher}
}

// ---- pruebas ----

func TestMarkArrived_Persiste(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusDraft,
		seedItem("a", 100, 0, entity.QCStatusPending),
		seedItem("b", 50, 0, entity.QCStatusPending),
	))

	resp, err := e.uc.MarkArrived(context.Background(), "user-1", "gr-1", dto.MarkArrivedRequest{
		DeliveryNote: "REM-001",
		Items: []dto.ArrivalItemRequest{
			{ID: "item-a", QtyReceived: d(80)},
			{ID: "item-b", QtyReceived: d(50)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusArrived, resp.Receipt.Status)
	assert.Nil(t, resp.SpawnedReceipt)

	stored, _ := e.receiptRepo.GetByID("gr-1")
	assert.Equal(t, entity.ReceiptStatusArrived, stored.Status, "el cambio debe quedar persistido")
	assert.True(t, d(80).Equal(stored.Items[0].QtyReceived))
	assert.Equal(t, "REM-001", stored.DeliveryNote)
	require.NotNil(t, e.locker.unlocker)
	assert.True(t, e.locker.unlocker.released, "el lock debe liberarse al terminar")
	assert.Equal(t, []string{"lock:gr:gr-1"}, e.locker.keys)
}

func TestMarkArrived_LoteInvalidoNoPersiste(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusDraft,
		seedItem("a", 100, 0, entity.QCStatusPending),
		seedItem("b", 50, 0, entity.QCStatusPending),
	))

	_, err := e.uc.MarkArrived(context.Background(), "user-1", "gr-1", dto.MarkArrivedRequest{
		Items: []dto.ArrivalItemRequest{
			{ID: "item-a", QtyReceived: d(80)},
			{ID: "item-b", QtyReceived: d(-5)},
		},
	})

	var verr *receiving.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, _ := e.receiptRepo.GetByID("gr-1")
	assert.Equal(t, entity.ReceiptStatusDraft, stored.Status, "nada debe persistirse si el lote falla")
	assert.True(t, stored.Items[0].QtyReceived.IsZero())
}

func TestQCCheck_ConservacionViolada(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusArrived,
		seedItem("a", 100, 50, entity.QCStatusArrived),
	))

	_, err := e.uc.QCCheck(context.Background(), "user-1", "gr-1", dto.QCCheckRequest{
		Items: []dto.QCItemRequest{
			{ID: "item-a", QtyPassed: d(30), QtyRejected: d(25)},
		},
	})

	var verr *receiving.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "item-a", verr.Violations[0].ItemID)
}

func TestPassAllQC_ApruebaTodoLoRecibido(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusArrived,
		seedItem("a", 100, 80, entity.QCStatusArrived),
		seedItem("b", 50, 50, entity.QCStatusArrived),
	))

	resp, err := e.uc.PassAllQC(context.Background(), "user-1", "gr-1")

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusPassed, resp.Receipt.Status)
	for _, it := range resp.Receipt.Items {
		assert.Equal(t, entity.QCStatusPassed, it.QCStatus)
		assert.True(t, it.QtyPassed.Equal(it.QtyReceived))
		assert.True(t, it.QtyRejected.IsZero())
	}
}

func TestApprove_ConFaltanteCreaHijoYPublica(t *testing.T) {
	parent := seedReceipt(entity.ReceiptStatusPassed,
		seedItem("a", 100, 60, entity.QCStatusPassed),
		seedItem("b", 50, 50, entity.QCStatusPassed),
	)
	parent.Items[0].QtyPassed = d(60)
	parent.Items[1].QtyPassed = d(50)
	e := newEnv(t, parent)

	resp, err := e.uc.Approve(context.Background(), "user-1", "gr-1", dto.ApproveRequest{})

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCompleted, resp.Receipt.Status)
	require.NotNil(t, resp.SpawnedReceipt, "el faltante debe generar documento hijo")

	child, _ := e.receiptRepo.GetByID(resp.SpawnedReceipt.ID)
	require.NotNil(t, child)
	assert.Equal(t, entity.ReceiptStatusDraft, child.Status)
	assert.Equal(t, "gr-1", child.ParentID)
	require.Len(t, child.Items, 1, "solo la línea con faltante va al hijo")
	assert.Equal(t, "prod-a", child.Items[0].ProductID)
	assert.True(t, d(40).Equal(child.Items[0].QtyPlan), "el plan del hijo es el faltante")
	assert.Equal(t, entity.QCStatusPending, child.Items[0].QCStatus)

	require.Len(t, e.publisher.events, 1)
	event, ok := e.publisher.events[0].(apprecv.CompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "gr-1", event.ReceiptID)
	assert.Equal(t, child.ID, event.SpawnedID)
	assert.Equal(t, "goods_receipt.completed", e.publisher.keys[0])
}

func TestApprove_SinFaltanteNoCreaHijo(t *testing.T) {
	parent := seedReceipt(entity.ReceiptStatusPassed,
		seedItem("a", 100, 100, entity.QCStatusPassed),
	)
	parent.Items[0].QtyPassed = d(100)
	e := newEnv(t, parent)

	resp, err := e.uc.Approve(context.Background(), "user-1", "gr-1", dto.ApproveRequest{})

	require.NoError(t, err)
	assert.Nil(t, resp.SpawnedReceipt)
	assert.Len(t, e.receiptRepo.created, 0)
}

func TestApprove_ItemPendienteRechaza(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusArrived,
		seedItem("a", 100, 100, entity.QCStatusPassed),
		seedItem("b", 50, 0, entity.QCStatusPending),
	))

	_, err := e.uc.Approve(context.Background(), "user-1", "gr-1", dto.ApproveRequest{})

	var serr *receiving.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestApprove_FalloDePublicacionNoRevierte(t *testing.T) {
	parent := seedReceipt(entity.ReceiptStatusPassed,
		seedItem("a", 100, 100, entity.QCStatusPassed),
	)
	parent.Items[0].QtyPassed = d(100)
	e := newEnv(t, parent)
	e.publisher.err = errors.New("broker caído")

	resp, err := e.uc.Approve(context.Background(), "user-1", "gr-1", dto.ApproveRequest{})

	require.NoError(t, err, "publicar es mejor esfuerzo")
	assert.Equal(t, entity.ReceiptStatusCompleted, resp.Receipt.Status)
	stored, _ := e.receiptRepo.GetByID("gr-1")
	assert.Equal(t, entity.ReceiptStatusCompleted, stored.Status)
}

func TestAcciones_DocumentoBloqueado(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusDraft,
		seedItem("a", 100, 0, entity.QCStatusPending),
	))
	e.locker.busy = true

	_, err := e.uc.MarkArrived(context.Background(), "user-1", "gr-1", dto.MarkArrivedRequest{
		Items: []dto.ArrivalItemRequest{{ID: "item-a", QtyReceived: d(100)}},
	})

	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
}

func TestCancel_SoloDesdeDraftOArrived(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusCompleted,
		seedItem("a", 100, 100, entity.QCStatusPassed),
	))

	_, err := e.uc.Cancel(context.Background(), "user-1", "gr-1")

	var serr *receiving.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestDelete_SoloDraftSinCantidades(t *testing.T) {
	e := newEnv(t,
		seedReceipt(entity.ReceiptStatusDraft, seedItem("a", 100, 0, entity.QCStatusPending)),
	)

	require.NoError(t, e.uc.Delete(context.Background(), "gr-1"))
	_, err := e.uc.GetByID(context.Background(), "gr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ConCantidadesRechaza(t *testing.T) {
	e := newEnv(t,
		seedReceipt(entity.ReceiptStatusDraft, seedItem("a", 100, 40, entity.QCStatusArrived)),
	)

	err := e.uc.Delete(context.Background(), "gr-1")

	var serr *receiving.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestSummary_AgregadosYGate(t *testing.T) {
	e := newEnv(t, seedReceipt(entity.ReceiptStatusDraft,
		seedItem("a", 100, 0, entity.QCStatusPending),
		seedItem("b", 50, 0, entity.QCStatusPending),
	))

	got, err := e.uc.Summary(context.Background(), "gr-1")

	require.NoError(t, err)
	assert.True(t, d(150).Equal(got.TotalPlan))
	assert.Equal(t, 0, got.CompletionPct)
	assert.Equal(t, receiving.ActionMarkArrived, got.NextAction)
}

func TestCreateFromPO_TodasLasLineas(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.CreateFromPO(context.Background(), "user-1", dto.CreateReceiptRequest{
		PurchaseOrderID: "po-1",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusDraft, resp.Status)
	assert.Equal(t, "wh-1", resp.WarehouseID)
	require.Len(t, resp.Items, 2)
	assert.True(t, d(100).Equal(resp.Items[0].QtyPlan))
	for _, it := range resp.Items {
		assert.Equal(t, entity.QCStatusPending, it.QCStatus)
	}
}

func TestCreateFromPO_LineaAjena(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.CreateFromPO(context.Background(), "user-1", dto.CreateReceiptRequest{
		PurchaseOrderID: "po-1",
		Items: []dto.CreateReceiptItemRequest{
			{POItemID: "po-item-x", QtyPlan: d(10)},
		},
	})

	var verr *receiving.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "po-item-x", verr.Violations[0].ItemID)
}
