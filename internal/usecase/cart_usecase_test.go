package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SearchPublic(ctx context.Context, q repo.ProductSearchQuery) ([]model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in CartUsecase tests")
}

func newCartFixture() (*CartRepoMock, *CartItemRepoMock, *CartProductRepoMock, *usecase.CartUsecase) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(CartProductRepoMock)
	uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)
	return cartRepo, itemRepo, productRepo, uc
}

func TestCartUsecase_GetCart_CreatesLazily(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, _, uc := newCartFixture()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Equal(t, 0, out.TotalItems)

	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_AddItem_AccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, productRepo, uc := newCartFixture()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(100)).
		Return(model.Product{ID: 100, Name: "A", Price: decimal.RequireFromString("10.00"), IsActive: true}, nil)

	//同一商品は上書きではなく加算（2 + 3 = 5はrepo側のupsertが担う）
	itemRepo.On("UpsertByCartAndProduct", mock.Anything, int64(5), int64(100), int64(3)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 10, CartID: 5, ProductID: 100, Quantity: 5},
	}, nil)

	out, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{ProductID: 100, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Items[0].Quantity)

	itemRepo.AssertExpectations(t)
}

func TestCartUsecase_AddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, productRepo, uc := newCartFixture()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	productRepo.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{ProductID: 999, Quantity: 1})
	assertErrContains(t, err, "product not found")

	itemRepo.AssertNotCalled(t, "UpsertByCartAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_InactiveProductLooksAbsent(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, productRepo, uc := newCartFixture()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	//非公開商品はIDを知っていてもカートに入れられない
	productRepo.On("FindByID", mock.Anything, int64(100)).
		Return(model.Product{ID: 100, Name: "A", Price: decimal.RequireFromString("10.00"), IsActive: false}, nil)

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{ProductID: 100, Quantity: 1})
	assertErrContains(t, err, "product not found")

	itemRepo.AssertNotCalled(t, "UpsertByCartAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	_, _, _, uc := newCartFixture()

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{ProductID: 100, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_UpdateItem_ZeroDeletes(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, _, uc := newCartFixture()

	itemRepo.On("IsOwnedByUser", mock.Anything, int64(10), int64(1)).Return(true, nil)
	itemRepo.On("DeleteByID", mock.Anything, int64(10)).Return(nil)
	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	out, err := uc.UpdateItem(ctx, 1, usecase.UpdateCartItemInput{ItemID: 10, Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	itemRepo.AssertExpectations(t)
	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItem_OthersItemLooksAbsent(t *testing.T) {
	ctx := context.Background()
	_, itemRepo, _, uc := newCartFixture()

	itemRepo.On("IsOwnedByUser", mock.Anything, int64(10), int64(1)).Return(false, nil)

	_, err := uc.UpdateItem(ctx, 1, usecase.UpdateCartItemInput{ItemID: 10, Quantity: 2})
	assertErrContains(t, err, "item not found")
}

func TestCartUsecase_Clear_NoCartIsNoop(t *testing.T) {
	ctx := context.Background()
	cartRepo, _, _, uc := newCartFixture()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	//カートが無くてもエラーにしない（冪等）
	err := uc.Clear(ctx, 1)
	assert.NoError(t, err)

	cartRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCartUsecase_BuildResponse_SkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	cartRepo, itemRepo, productRepo, uc := newCartFixture()

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 10, CartID: 5, ProductID: 100, Quantity: 1},
		{ID: 11, CartID: 5, ProductID: 101, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(100)).
		Return(model.Product{ID: 100, Name: "A", Price: decimal.RequireFromString("3.00")}, nil)
	productRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(100), out.Items[0].ProductID)
}
