package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

// 住所系で存在しないことを表す（Handlerが404に変換する）。
// 他人の住所も「存在しない扱い」でこれを返す。
var ErrNotFound = errors.New("not found")

type AddressDTO struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Line1       string  `json:"line1"`
	Line2       string  `json:"line2"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	Ward        string  `json:"ward"`
	IsDefault   bool    `json:"is_default"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type AddressCreateRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	District    string `json:"district"`
	Ward        string `json:"ward"`
	IsDefault   bool   `json:"is_default"`
}

type AddressUpdateRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	District    string `json:"district"`
	Ward        string `json:"ward"`
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Get(ctx context.Context, userID int64, addressID int64) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}
	if addressID <= 0 {
		return AddressDTO{}, ErrValidation
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressDTO{}, ErrNotFound
		}
		return AddressDTO{}, ErrInternal
	}

	//他人の住所は404
	if a.UserID != userID {
		return AddressDTO{}, ErrNotFound
	}

	return toAddressDTO(&a), nil
}

// GetDefault はデフォルト住所を返す。未設定なら404。
func (u *AddressUsecase) GetDefault(ctx context.Context, userID int64) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	a, err := u.addresses.FindDefaultByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressDTO{}, ErrNotFound
		}
		return AddressDTO{}, ErrInternal
	}

	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressCreateRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	if req.FullName == "" || req.PhoneNumber == "" || req.Line1 == "" || req.City == "" {
		return AddressDTO{}, ErrValidation
	}

	a := model.ShippingAddress{
		UserID:      userID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Line1:       req.Line1,
		Line2:       req.Line2,
		City:        req.City,
		District:    req.District,
		Ward:        req.Ward,
		IsDefault:   false,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	//is_default付きで作られたら他を落として自分に付け替える
	if req.IsDefault {
		if err := u.addresses.SetDefault(ctx, userID, created.ID); err != nil {
			return AddressDTO{}, ErrInternal
		}
		created.IsDefault = true
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressUpdateRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}
	if addressID <= 0 {
		return AddressDTO{}, ErrValidation
	}

	//所有チェック（他人のものは404）
	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}
	if !owned {
		return AddressDTO{}, ErrNotFound
	}

	if req.FullName == "" || req.PhoneNumber == "" || req.Line1 == "" || req.City == "" {
		return AddressDTO{}, ErrValidation
	}

	a := model.ShippingAddress{
		ID:          addressID,
		UserID:      userID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Line1:       req.Line1,
		Line2:       req.Line2,
		City:        req.City,
		District:    req.District,
		Ward:        req.Ward,
	}

	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressDTO{}, ErrNotFound
		}
		return AddressDTO{}, ErrInternal
	}

	updated, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	return toAddressDTO(&updated), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return ErrInternal
	}
	if !owned {
		return ErrNotFound
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) (*AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	if addressID <= 0 {
		return nil, ErrValidation
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return nil, ErrInternal
	}
	if !owned {
		return nil, ErrNotFound
	}

	//user内でdefaultは1つ
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, ErrInternal
	}

	dto := toAddressDTO(&a)
	return &dto, nil
}

func toAddressDTO(a *model.ShippingAddress) AddressDTO {
	dto := AddressDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		District:    a.District,
		Ward:        a.Ward,
		IsDefault:   a.IsDefault,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
	t := a.UpdatedAt.Format(time.RFC3339)
	dto.UpdatedAt = &t
	return dto
}
