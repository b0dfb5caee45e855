package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/gorm"

	customerdomain "github.com/smallbiznis/warung/internal/customer/domain"
)

type stubLedger struct {
	mu       sync.Mutex
	attached []snowflake.ID
}

func (s *stubLedger) AttachOrder(ctx context.Context, orderID snowflake.ID, phone, name string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = append(s.attached, orderID)
	return nil
}

func (s *stubLedger) orders() []snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]snowflake.ID(nil), s.attached...)
}

func (s *stubLedger) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	return nil, nil
}

func (s *stubLedger) List(ctx context.Context, req customerdomain.ListRequest) ([]customerdomain.Customer, error) {
	return nil, nil
}

func (s *stubLedger) GetByID(ctx context.Context, id string) (*customerdomain.Detail, error) {
	return nil, nil
}

func (s *stubLedger) Update(ctx context.Context, req customerdomain.UpdateRequest) (*customerdomain.Customer, error) {
	return nil, nil
}

func (s *stubLedger) ReconcileTx(ctx context.Context, tx *gorm.DB, phone, name string, amount decimal.Decimal, now time.Time) (*customerdomain.Customer, error) {
	return nil, nil
}

func (s *stubLedger) ReverseTx(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) error {
	return nil
}

func TestDispatcherProcessesJobs(t *testing.T) {
	ledger := &stubLedger{}
	lc := fxtest.NewLifecycle(t)
	d := New(Params{LC: lc, Log: zap.NewNop(), Customers: ledger})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	lc.RequireStart()
	first := node.Generate()
	second := node.Generate()
	d.Enqueue(Job{OrderID: first, Phone: "5551234567", Name: "Budi", Amount: decimal.NewFromInt(100)})
	d.Enqueue(Job{OrderID: second, Phone: "5551234567", Name: "Budi", Amount: decimal.NewFromInt(50)})

	// Stop drains the queue before returning.
	lc.RequireStop()

	assert.Equal(t, []snowflake.ID{first, second}, ledger.orders())
}

func TestDispatcherEnqueueAfterStop(t *testing.T) {
	ledger := &stubLedger{}
	lc := fxtest.NewLifecycle(t)
	d := New(Params{LC: lc, Log: zap.NewNop(), Customers: ledger})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	lc.RequireStart()
	lc.RequireStop()

	// Dropped, not a panic on the closed queue.
	d.Enqueue(Job{OrderID: node.Generate(), Phone: "5551234567", Name: "Budi", Amount: decimal.NewFromInt(25)})

	assert.Empty(t, ledger.orders())
}
