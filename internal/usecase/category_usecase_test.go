package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CatCategoryRepoMock struct{ mock.Mock }

func (m *CatCategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *CatCategoryRepoMock) FindByID(ctx context.Context, categoryID int64) (model.Category, error) {
	args := m.Called(ctx, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CatCategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CatCategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CatCategoryRepoMock) Delete(ctx context.Context, categoryID int64) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func TestCategoryUsecase_StaffCreate_WritesAudit(t *testing.T) {
	ctx := context.Background()
	categories := new(CatCategoryRepoMock)
	audits := new(ProdAuditRepoMock)
	uc := usecase.NewCategoryUsecase(categories, audits, nil)

	categories.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.Name == "Coffee"
	})).Return(model.Category{ID: 3, Name: "Coffee"}, nil)

	audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateCategory && l.ResourceID == 3 && l.ActorUserID == 9
	})).Return(nil)

	created, err := uc.StaffCreate(ctx, 9, usecase.CategoryInput{Name: " Coffee "})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	categories.AssertExpectations(t)
	audits.AssertExpectations(t)
}

func TestCategoryUsecase_StaffCreate_EmptyName(t *testing.T) {
	categories := new(CatCategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories, new(ProdAuditRepoMock), nil)

	_, err := uc.StaffCreate(context.Background(), 9, usecase.CategoryInput{Name: "   "})
	assertErrContains(t, err, "name required")
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryUsecase_StaffDelete_InUseConflicts(t *testing.T) {
	ctx := context.Background()
	categories := new(CatCategoryRepoMock)
	audits := new(ProdAuditRepoMock)
	uc := usecase.NewCategoryUsecase(categories, audits, nil)

	categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3, Name: "Coffee"}, nil)
	//FK制約違反はErrNotFound以外のエラーで返る
	categories.On("Delete", mock.Anything, int64(3)).Return(errors.New("violates foreign key constraint"))

	err := uc.StaffDelete(ctx, 9, 3)
	assertErrContains(t, err, "category in use")

	audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryUsecase_Get_NotFound(t *testing.T) {
	categories := new(CatCategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories, new(ProdAuditRepoMock), nil)

	categories.On("FindByID", mock.Anything, int64(99)).Return(model.Category{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), 99)
	assertErrContains(t, err, "not found")
}
