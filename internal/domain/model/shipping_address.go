package model

import "time"

// 配送先住所
type ShippingAddress struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	FullName string `gorm:"type:varchar(150);not null" json:"full_name"`

	//受取人の電話番号
	PhoneNumber string `gorm:"type:varchar(20);not null" json:"phone_number"`

	//番地など
	Line1 string `gorm:"type:varchar(255);not null" json:"line1"`

	//建物名など
	Line2 string `gorm:"type:varchar(255)" json:"line2"`

	City     string `gorm:"type:varchar(100);not null" json:"city"`
	District string `gorm:"type:varchar(100)" json:"district"`
	Ward     string `gorm:"type:varchar(100)" json:"ward"`

	//このユーザーのデフォルト住所か（ユーザーごとに最大1件）
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
