package repository

import (
	"app/internal/domain/model"
	"context"
)

// 配送先住所(ShippingAddress)を保存・取得する窓口
type AddressRepository interface {
	//作成後はaddress（IDなどが埋まったもの）を返す
	Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error)

	//ユーザーが持つ住所一覧を返す
	ListByUserID(ctx context.Context, userID int64) ([]model.ShippingAddress, error)

	//住所IDから住所を1件取得
	FindByID(ctx context.Context, addressID int64) (model.ShippingAddress, error)

	//デフォルト住所を1件取得（無ければErrNotFound）
	FindDefaultByUserID(ctx context.Context, userID int64) (model.ShippingAddress, error)

	Update(ctx context.Context, address model.ShippingAddress) error
	Delete(ctx context.Context, addressID int64) error

	//住所がそのユーザーのものかを確認
	IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error)

	//デフォルトの切り替え。1トランザクションで他を全てfalse→対象をtrue
	SetDefault(ctx context.Context, userID, addressID int64) error
}
