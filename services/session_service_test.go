package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"pos-backend/entity"
	"pos-backend/pkg/pricing"
	"pos-backend/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Table{}, &entity.Order{}, &entity.OrderItem{},
		&entity.KitchenTicket{},
	))
	return db
}

func seedTables(t *testing.T, db *gorm.DB, n int) []entity.Table {
	t.Helper()
	out := make([]entity.Table, 0, n)
	for i := 1; i <= n; i++ {
		tb := entity.Table{TableNumber: i}
		require.NoError(t, db.Create(&tb).Error)
		out = append(out, tb)
	}
	return out
}

// publisher ปลอมไว้จับ event หลัง commit
type captureEvents struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (c *captureEvents) Publish(ctx context.Context, routingKey string, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, ok := event.(OrderEvent); ok {
		c.events = append(c.events, ev)
	}
	return nil
}

func newSession(db *gorm.DB, events EventPublisher) *SessionService {
	return NewSessionService(
		db,
		repository.NewOrderRepository(db),
		repository.NewTableRepository(db),
		repository.NewKitchenRepository(db),
		events,
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCart() pricing.Cart {
	return pricing.Cart{
		{ProductID: 1, Name: "Turkish Tea", UnitPrice: dec("15"), Qty: 2},
		{ProductID: 3, Name: "Adana Kebab", UnitPrice: dec("180"), Qty: 1},
	}
}

func testPolicy() pricing.Policy {
	return pricing.Policy{
		TaxRatePercent:      dec("10"),
		ShippingFlat:        dec("0"),
		DiscountRatePercent: dec("0"),
		ExtraDiscountFlat:   dec("0"),
		TaxMode:             pricing.TaxBefore,
	}
}

// table.is_occupied ต้องตรงกับ "มีออเดอร์ open/held อยู่จริง"
// และต่อโต๊ะมีออเดอร์ค้างได้ไม่เกินหนึ่ง
func assertOccupancyInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()
	var tables []entity.Table
	require.NoError(t, db.Find(&tables).Error)
	for _, tb := range tables {
		var n int64
		require.NoError(t, db.Model(&entity.Order{}).
			Where("table_id = ? AND status IN ?", tb.ID,
				[]entity.OrderStatus{entity.StatusOpen, entity.StatusHeld}).
			Count(&n).Error)
		assert.Equal(t, n > 0, tb.IsOccupied, "occupancy flag out of sync on table %d", tb.ID)
		assert.LessOrEqual(t, n, int64(1), "more than one open order on table %d", tb.ID)
	}
}

// ----- Select -----

func TestSelect_CreatesThenResumes(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	s := newSession(db, nil)
	ctx := context.Background()

	first, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	assert.NotZero(t, first.OrderID)
	assert.True(t, strings.HasPrefix(first.InvoiceNo, "POS"))
	assert.Equal(t, entity.StatusOpen, first.Status)
	assert.Equal(t, entity.PaymentCash, first.PaymentType)
	assertOccupancyInvariant(t, db)

	// เลือกซ้ำต้องได้ออเดอร์เดิม ไม่เปิดใหม่
	second, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.InvoiceNo, second.InvoiceNo)

	var count int64
	require.NoError(t, db.Model(&entity.Order{}).
		Where("table_id = ?", tables[0].ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSelect_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	s := newSession(db, nil)

	_, err := s.Select(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSelect_ConcurrentCreatesSingleOrder(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			out, err := s.Select(context.Background(), tables[0].ID)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = out.OrderID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, db.Model(&entity.Order{}).
		Where("table_id = ? AND status = ?", tables[0].ID, entity.StatusOpen).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assertOccupancyInvariant(t, db)
}

// ----- Checkout -----

func TestCheckout_CashClosesOrderAndFreesTable(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)

	orderID, err := s.Checkout(ctx, CheckoutInput{
		TableID:      tables[0].ID,
		OrderID:      sel.OrderID,
		Cart:         testCart(),
		Policy:       testPolicy(),
		PaymentType:  entity.PaymentCash,
		CustomerName: "Ahmet",
	})
	require.NoError(t, err)
	assert.Equal(t, sel.OrderID, orderID)

	var o entity.Order
	require.NoError(t, db.First(&o, orderID).Error)
	assert.Equal(t, entity.StatusClosed, o.Status)
	assert.Equal(t, entity.PaymentCash, o.PaymentType)
	assert.Equal(t, "Ahmet", o.CustomerName)
	// 15*2 + 180 = 210, ภาษี 10% = 21
	assert.Equal(t, "210.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "21.00", o.TaxAmount.StringFixed(2))
	assert.Equal(t, "231.00", o.Total.StringFixed(2))

	var tb entity.Table
	require.NoError(t, db.First(&tb, tables[0].ID).Error)
	assert.False(t, tb.IsOccupied)
	assertOccupancyInvariant(t, db)
}

func TestCheckout_OpenAccountHoldsTable(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	_, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)

	orderID, err := s.Checkout(ctx, CheckoutInput{
		TableID:     tables[0].ID,
		Cart:        testCart(),
		Policy:      testPolicy(),
		PaymentType: entity.PaymentOpenAccount,
	})
	require.NoError(t, err)

	var o entity.Order
	require.NoError(t, db.First(&o, orderID).Error)
	assert.Equal(t, entity.StatusHeld, o.Status)
	assert.Equal(t, entity.PaymentOpenAccount, o.PaymentType)

	var tb entity.Table
	require.NoError(t, db.First(&tb, tables[0].ID).Error)
	assert.True(t, tb.IsOccupied, "held order must keep the table occupied")
	assertOccupancyInvariant(t, db)
}

func TestCheckout_WithoutSelectOpensOrder(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)

	orderID, err := s.Checkout(context.Background(), CheckoutInput{
		TableID:     tables[0].ID,
		Cart:        testCart(),
		Policy:      testPolicy(),
		PaymentType: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.NotZero(t, orderID)
	assertOccupancyInvariant(t, db)
}

func TestCheckout_Validation(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	_, err := s.Checkout(ctx, CheckoutInput{
		TableID: tables[0].ID, Policy: testPolicy(), PaymentType: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)

	bad := testPolicy()
	bad.TaxRatePercent = dec("-3")
	_, err = s.Checkout(ctx, CheckoutInput{
		TableID: tables[0].ID, Cart: testCart(), Policy: bad, PaymentType: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, pricing.ErrInvalidPolicy)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCheckout_StaleOrderID(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	_, err = s.Checkout(ctx, CheckoutInput{
		TableID: tables[0].ID, OrderID: sel.OrderID,
		Cart: testCart(), Policy: testPolicy(), PaymentType: entity.PaymentCash,
	})
	require.NoError(t, err)

	// บิลเก่าปิดไปแล้ว — อ้าง order id เดิมกับออเดอร์รอบใหม่ต้องโดนปัด
	_, err = s.Checkout(ctx, CheckoutInput{
		TableID: tables[0].ID, OrderID: sel.OrderID,
		Cart: testCart(), Policy: testPolicy(), PaymentType: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ----- Hold / Cancel -----

func TestHold_KeepsTableOccupied(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.Hold(ctx, sel.OrderID))

	var o entity.Order
	require.NoError(t, db.First(&o, sel.OrderID).Error)
	assert.Equal(t, entity.StatusHeld, o.Status)
	assert.Equal(t, entity.PaymentOpenAccount, o.PaymentType)
	assertOccupancyInvariant(t, db)
}

func TestCancel_OpenAccountFreesTable(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 1)
	s := newSession(db, nil)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.Hold(ctx, sel.OrderID))

	require.NoError(t, s.Cancel(ctx, sel.OrderID, tables[0].ID, "customer left"))

	var o entity.Order
	require.NoError(t, db.First(&o, sel.OrderID).Error)
	assert.Equal(t, entity.StatusCancelled, o.Status)
	assert.Equal(t, "customer left", o.CancelReason)

	var tb entity.Table
	require.NoError(t, db.First(&tb, tables[0].ID).Error)
	assert.False(t, tb.IsOccupied)
	assertOccupancyInvariant(t, db)
}

func TestCancel_Rejections(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	s := newSession(db, nil)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)

	// ไม่มีเหตุผล → validation
	err = s.Cancel(ctx, sel.OrderID, tables[0].ID, "   ")
	assert.ErrorIs(t, err, ErrMissingReason)
	assert.Equal(t, KindValidation, KindOf(err))

	// ออเดอร์เงินสดที่ยัง open — ไม่ใช่ open_account ยกเลิกไม่ได้
	err = s.Cancel(ctx, sel.OrderID, tables[0].ID, "changed mind")
	assert.ErrorIs(t, err, ErrNotHeld)
	assert.Equal(t, KindStateConflict, KindOf(err))

	// บิลปิดแล้วเป็น terminal
	_, err = s.Checkout(ctx, CheckoutInput{
		TableID: tables[0].ID, Cart: testCart(), Policy: testPolicy(),
		PaymentType: entity.PaymentCash,
	})
	require.NoError(t, err)
	err = s.Cancel(ctx, sel.OrderID, tables[0].ID, "too late")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	assert.Equal(t, KindStateConflict, KindOf(err))
	assertOccupancyInvariant(t, db)
}

func TestCancel_WrongTableLeavesBothTablesAlone(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	s := newSession(db, nil)
	ctx := context.Background()

	selA, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.Hold(ctx, selA.OrderID))
	_, err = s.Select(ctx, tables[1].ID)
	require.NoError(t, err)

	// อ้าง table id ผิดโต๊ะ — ต้องปัดทิ้ง ห้ามปลด flag โต๊ะที่ส่งมามั่ว
	err = s.Cancel(ctx, selA.OrderID, tables[1].ID, "wrong table")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var o entity.Order
	require.NoError(t, db.First(&o, selA.OrderID).Error)
	assert.Equal(t, entity.StatusHeld, o.Status)

	for _, id := range []uint{tables[0].ID, tables[1].ID} {
		var tb entity.Table
		require.NoError(t, db.First(&tb, id).Error)
		assert.True(t, tb.IsOccupied)
	}
	assertOccupancyInvariant(t, db)
}

// ----- Transfer -----

func TestTransfer_MovesOrderTicketsAndFlags(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	events := &captureEvents{}
	s := newSession(db, events)
	ctx := context.Background()

	sel, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entity.KitchenTicket{
		TableID: tables[0].ID, OrderID: sel.OrderID, ProductName: "Lahmacun", Qty: 2,
	}).Error)

	require.NoError(t, s.Transfer(ctx, tables[0].ID, tables[1].ID))

	var o entity.Order
	require.NoError(t, db.First(&o, sel.OrderID).Error)
	require.NotNil(t, o.TableID)
	assert.Equal(t, tables[1].ID, *o.TableID)

	var tickets []entity.KitchenTicket
	require.NoError(t, db.Where("table_id = ?", tables[1].ID).Find(&tickets).Error)
	assert.Len(t, tickets, 1)

	var from, to entity.Table
	require.NoError(t, db.First(&from, tables[0].ID).Error)
	require.NoError(t, db.First(&to, tables[1].ID).Error)
	assert.False(t, from.IsOccupied)
	assert.True(t, to.IsOccupied)
	assertOccupancyInvariant(t, db)

	require.Len(t, events.events, 1)
	assert.Equal(t, "order.transferred", events.events[0].Type)
	assert.Equal(t, tables[0].ID, events.events[0].FromTableID)
	assert.Equal(t, tables[1].ID, events.events[0].TableID)
}

func TestTransfer_DestinationOccupiedLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	s := newSession(db, nil)
	ctx := context.Background()

	src, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	dst, err := s.Select(ctx, tables[1].ID)
	require.NoError(t, err)

	err = s.Transfer(ctx, tables[0].ID, tables[1].ID)
	assert.ErrorIs(t, err, ErrDestinationOccupied)
	assert.Equal(t, KindStateConflict, KindOf(err))

	// ทั้งสองฝั่งต้องไม่ขยับเลย
	var o1, o2 entity.Order
	require.NoError(t, db.First(&o1, src.OrderID).Error)
	require.NoError(t, db.First(&o2, dst.OrderID).Error)
	assert.Equal(t, tables[0].ID, *o1.TableID)
	assert.Equal(t, tables[1].ID, *o2.TableID)
	assert.Equal(t, entity.StatusOpen, o1.Status)
	assert.Equal(t, entity.StatusOpen, o2.Status)

	var t1, t2 entity.Table
	require.NoError(t, db.First(&t1, tables[0].ID).Error)
	require.NoError(t, db.First(&t2, tables[1].ID).Error)
	assert.True(t, t1.IsOccupied)
	assert.True(t, t2.IsOccupied)
	assertOccupancyInvariant(t, db)
}

func TestTransfer_NoOpenOrderAtSource(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 2)
	s := newSession(db, nil)

	err := s.Transfer(context.Background(), tables[0].ID, tables[1].ID)
	assert.ErrorIs(t, err, ErrNoOpenOrderAtSource)
	assertOccupancyInvariant(t, db)
}

// ----- RefreshOccupancy / invariant ภายใต้ลำดับสุ่ม -----

func TestRefreshOccupancy(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 3)
	s := newSession(db, nil)
	ctx := context.Background()

	_, err := s.Select(ctx, tables[0].ID)
	require.NoError(t, err)
	_, err = s.Select(ctx, tables[2].ID)
	require.NoError(t, err)

	open, err := s.RefreshOccupancy(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{tables[0].ID, tables[2].ID}, open)
}

func TestOccupancyInvariant_RandomTransitionSequence(t *testing.T) {
	db := newTestDB(t)
	tables := seedTables(t, db, 4)
	s := newSession(db, nil)
	orderRepo := repository.NewOrderRepository(db)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	pick := func() entity.Table { return tables[rng.Intn(len(tables))] }

	for step := 0; step < 200; step++ {
		tb := pick()
		switch rng.Intn(6) {
		case 0:
			_, _ = s.Select(ctx, tb.ID)
		case 1:
			_, _ = s.Checkout(ctx, CheckoutInput{
				TableID: tb.ID, Cart: testCart(), Policy: testPolicy(),
				PaymentType: entity.PaymentCash,
			})
		case 2:
			_, _ = s.Checkout(ctx, CheckoutInput{
				TableID: tb.ID, Cart: testCart(), Policy: testPolicy(),
				PaymentType: entity.PaymentOpenAccount,
			})
		case 3:
			if o, err := orderRepo.GetOpenOrder(db, tb.ID); err == nil && o != nil {
				_ = s.Hold(ctx, o.ID)
			}
		case 4:
			if o, err := orderRepo.GetOpenOrder(db, tb.ID); err == nil && o != nil {
				_ = s.Cancel(ctx, o.ID, tb.ID, "spilled drinks")
			}
		case 5:
			_ = s.Transfer(ctx, tb.ID, pick().ID)
		}
		assertOccupancyInvariant(t, db)
	}
}
