package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//価格は小数2桁の固定小数点（floatは使わない）
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	Stock    int64  `gorm:"not null;default:0" json:"stock"`
	ImageURL string `gorm:"type:varchar(500)" json:"image_url"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`

	//カテゴリ未設定も許す。参照中のカテゴリはRESTRICTで削除不可。
	CategoryID *int64    `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
