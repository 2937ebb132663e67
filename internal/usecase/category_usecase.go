package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/infra/cache"
	repo "app/internal/repository"
)

// カテゴリは誰でも読める。書き込みはスタッフのみ（Handler側でガード）。
type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	cache        *cache.ProductCache
}

func NewCategoryUsecase(
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	productCache *cache.ProductCache,
) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		cache:        productCache,
	}
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	list, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, categoryID int64) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) StaffCreate(ctx context.Context, actorUserID int64, in CategoryInput) (model.Category, error) {
	if actorUserID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, actorUserID, model.AuditActionCreateCategory, created.ID, "", auditJSON(created))
	u.cache.Invalidate(ctx)

	return created, nil
}

func (u *CategoryUsecase) StaffUpdate(ctx context.Context, actorUserID int64, categoryID int64, in CategoryInput) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	before, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after := model.Category{ID: categoryID, Name: name, Description: in.Description}

	if err := u.categoryRepo.Update(ctx, after); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, actorUserID, model.AuditActionUpdateCategory, categoryID, auditJSON(before), auditJSON(after))
	u.cache.Invalidate(ctx)

	return nil
}

func (u *CategoryUsecase) StaffDelete(ctx context.Context, actorUserID int64, categoryID int64) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.categoryRepo.Delete(ctx, categoryID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		//商品が参照中などで削除できない
		return NewHTTPError(http.StatusConflict, "category in use")
	}

	u.writeAudit(ctx, actorUserID, model.AuditActionDeleteCategory, categoryID, auditJSON(before), "")
	u.cache.Invalidate(ctx)

	return nil
}

// 監査ログはbest effort。この時点で本体の変更は確定している
func (u *CategoryUsecase) writeAudit(ctx context.Context, actorUserID int64, action model.AuditAction, resourceID int64, beforeJSON, afterJSON string) {
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: model.AuditResourceCategory,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
	})
}
