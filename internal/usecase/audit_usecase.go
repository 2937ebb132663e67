package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AuditLogUsecase はスタッフ向けの監査ログ閲覧です。
// 書き込みは各usecase（商品・カテゴリ・注文ステータス）が行う。
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type ListAuditLogsInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Limit        int
	Offset       int
}

// StaffListAuditLogs は監査ログを新しい順で返す（スタッフのみ。Handler側でガード）。
func (u *AuditLogUsecase) StaffListAuditLogs(ctx context.Context, actorUserID int64, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if actorUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if a := strings.TrimSpace(in.Action); a != "" {
		action := model.AuditAction(a)
		f.Action = &action
	}
	if rt := strings.TrimSpace(in.ResourceType); rt != "" {
		resourceType := model.AuditResourceType(rt)
		f.ResourceType = &resourceType
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return logs, nil
}
