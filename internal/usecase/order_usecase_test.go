package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAll(ctx context.Context, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderCartRepoMock struct{ mock.Mock }

func (m *OrderCartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *OrderCartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type OrderCartItemRepoMock struct{ mock.Mock }

func (m *OrderCartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *OrderCartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderCartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	panic("not used in OrderUsecase tests")
}

type OrderProductRepoMock struct{ mock.Mock }

func (m *OrderProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderProductRepoMock) SearchPublic(ctx context.Context, q repo.ProductSearchQuery) ([]model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *OrderProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in OrderUsecase tests")
}

// WithinTxをモックrepoでそのまま実行するスタブ。
// fnがerrorを返せばそのまま返す（rollback相当）。
type txReposStub struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *OrderCartRepoMock
	cartItems  *OrderCartItemRepoMock
	products   *OrderProductRepoMock
	auditLogs  *AuditRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.orderItems }
func (s *txReposStub) Carts() repo.CartRepository           { return s.carts }
func (s *txReposStub) CartItems() repo.CartItemRepository   { return s.cartItems }
func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Addresses() repo.AddressRepository    { panic("not used in OrderUsecase tests") }
func (s *txReposStub) AuditLogs() repo.AuditLogRepository   { return s.auditLogs }

type txManagerStub struct{ repos *txReposStub }

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

func newOrderFixture() (*txReposStub, *AuditRepoMock, *usecase.OrderUsecase) {
	repos := &txReposStub{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(OrderCartRepoMock),
		cartItems:  new(OrderCartItemRepoMock),
		products:   new(OrderProductRepoMock),
		auditLogs:  new(AuditRepoMock),
	}
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: repos})
	return repos, repos.auditLogs, uc
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), want),
			"error %q should contain %q", err.Error(), want)
	}
}

// =====================
// CreateFromCart
// =====================

func TestOrderUsecase_CreateFromCart_TotalFromCurrentPrices(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	cart := model.Cart{ID: 5, UserID: 1}
	repos.carts.On("FindByUserID", mock.Anything, int64(1)).Return(cart, nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 10, CartID: 5, ProductID: 100, Quantity: 2},
		{ID: 11, CartID: 5, ProductID: 101, Quantity: 1},
	}, nil)

	repos.products.On("FindByID", mock.Anything, int64(100)).
		Return(model.Product{ID: 100, Name: "A", Price: decimal.RequireFromString("10.00"), IsActive: true}, nil)
	repos.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "B", Price: decimal.RequireFromString("5.50"), IsActive: true}, nil)

	// 10.00*2 + 5.50*1 = 25.50
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Status == model.OrderStatusPending &&
			o.TotalAmount.Equal(decimal.RequireFromString("25.50"))
	})).Return(int64(77), nil)

	// unit_priceは現在価格の写し
	repos.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		return items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) &&
			items[0].Quantity == 2 &&
			items[1].UnitPrice.Equal(decimal.RequireFromString("5.50")) &&
			items[1].Quantity == 1
	})).Return(nil)

	repos.carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	repos.orders.On("FindByID", mock.Anything, int64(77)).Return(model.Order{
		ID:              77,
		UserID:          1,
		Status:          model.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("25.50"),
		ShippingAddress: "tokyo",
		CreatedAt:       time.Now(),
	}, nil)

	out, err := uc.CreateFromCart(ctx, 1, usecase.CreateOrderInput{ShippingAddress: "tokyo"})
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, "pending", out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, 2, len(out.Items))
	assert.True(t, out.Items[0].Subtotal.Equal(decimal.RequireFromString("20.00")))

	repos.orders.AssertExpectations(t)
	repos.orderItems.AssertExpectations(t)
	repos.carts.AssertExpectations(t)
}

func TestOrderUsecase_CreateFromCart_EmptyCart(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	_, err := uc.CreateFromCart(ctx, 1, usecase.CreateOrderInput{ShippingAddress: "tokyo"})
	assertErrContains(t, err, "cart is empty")

	//注文は一切作られない
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateFromCart_CartNotFound(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.CreateFromCart(ctx, 1, usecase.CreateOrderInput{ShippingAddress: "tokyo"})
	assertErrContains(t, err, "cart not found")
}

func TestOrderUsecase_CreateFromCart_ProductGone_NoOrder(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 10, CartID: 5, ProductID: 100, Quantity: 2},
	}, nil)
	repos.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.CreateFromCart(ctx, 1, usecase.CreateOrderInput{ShippingAddress: "tokyo"})
	assertErrContains(t, err, "product no longer available")

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateFromCart_MissingAddress(t *testing.T) {
	_, _, uc := newOrderFixture()

	_, err := uc.CreateFromCart(context.Background(), 1, usecase.CreateOrderInput{ShippingAddress: "  "})
	assertErrContains(t, err, "invalid shipping_address")
}

// =====================
// Cancel
// =====================

func TestOrderUsecase_Cancel_FromPending(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 1, Status: model.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("10.00"),
	}, nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(9), model.OrderStatusCancelled).Return(nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(9)).Return([]model.OrderItem{}, nil)

	out, err := uc.Cancel(ctx, usecase.Actor{UserID: 1}, 9)
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	repos.orders.AssertExpectations(t)
}

func TestOrderUsecase_Cancel_ShippedRejected(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 1, Status: model.OrderStatusShipped,
	}, nil)

	_, err := uc.Cancel(ctx, usecase.Actor{UserID: 1}, 9)
	assertErrContains(t, err, "cannot cancel")

	repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_Cancel_OthersOrderLooksAbsent(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusPending,
	}, nil)

	//他人の注文は404（存在の有無を漏らさない）
	_, err := uc.Cancel(ctx, usecase.Actor{UserID: 1}, 9)
	assertErrContains(t, err, "not found")
}

// =====================
// GetOrderDetail / List
// =====================

func TestOrderUsecase_GetOrderDetail_StaffCanSeeAny(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusPending,
	}, nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(9)).Return([]model.OrderItem{}, nil)

	out, err := uc.GetOrderDetail(ctx, usecase.Actor{UserID: 1, IsStaff: true}, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
}

func TestOrderUsecase_GetOrderDetail_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusPending,
	}, nil)

	_, err := uc.GetOrderDetail(ctx, usecase.Actor{UserID: 1}, 9)
	assertErrContains(t, err, "not found")
}

// =====================
// StaffUpdateStatus
// =====================

func TestOrderUsecase_StaffUpdateStatus_Forward(t *testing.T) {
	ctx := context.Background()
	repos, audit, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusPending,
	}, nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(9), model.OrderStatusProcessing).Return(nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(9)).Return([]model.OrderItem{}, nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 9 && l.ActorUserID == 5
	})).Return(nil)

	out, err := uc.StaffUpdateStatus(ctx, 5, 9, usecase.StaffUpdateOrderStatusInput{Status: "processing"})
	assert.NoError(t, err)
	assert.Equal(t, "processing", out.Status)

	audit.AssertExpectations(t)
}

func TestOrderUsecase_StaffUpdateStatus_AuditFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repos, audit, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusPending,
	}, nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(9), model.OrderStatusProcessing).Return(nil)

	//監査ログが書けなければステータス更新ごと失敗させる
	audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := uc.StaffUpdateStatus(ctx, 5, 9, usecase.StaffUpdateOrderStatusInput{Status: "processing"})
	assertErrContains(t, err, "db error")
}

func TestOrderUsecase_StaffUpdateStatus_BackwardRejected(t *testing.T) {
	ctx := context.Background()
	repos, _, uc := newOrderFixture()

	repos.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID: 9, UserID: 2, Status: model.OrderStatusShipped,
	}, nil)

	_, err := uc.StaffUpdateStatus(ctx, 5, 9, usecase.StaffUpdateOrderStatusInput{Status: "processing"})
	assertErrContains(t, err, "invalid state transition")

	repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_StaffUpdateStatus_UnknownStatus(t *testing.T) {
	_, _, uc := newOrderFixture()

	_, err := uc.StaffUpdateStatus(context.Background(), 5, 9, usecase.StaffUpdateOrderStatusInput{Status: "PENDING"})
	assertErrContains(t, err, "invalid status")
}
