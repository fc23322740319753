package domain

import "time"

// Notification is an in-app notification addressed to a single user.
type Notification struct {
	ID    int64  `gorm:"column:id;primaryKey" json:"id"`
	Title string `gorm:"column:title" json:"title"`

	Location      string `gorm:"column:location" json:"location,omitempty"`
	LocationID    int64  `gorm:"column:location_id" json:"location_id,omitempty"`
	LocationTitle string `gorm:"column:location_title" json:"location_title,omitempty"`

	SubLocation      string `gorm:"column:sub_location" json:"sub_location,omitempty"`
	SubLocationID    int64  `gorm:"column:sub_location_id" json:"sub_location_id,omitempty"`
	SubLocationTitle string `gorm:"column:sub_location_title" json:"sub_location_title,omitempty"`

	IsOpened bool `gorm:"column:is_opened" json:"is_opened"`

	CreatedForUserID int64  `gorm:"column:created_for_user_id;index" json:"created_for_user"`
	CreatedByUserID  *int64 `gorm:"column:created_by_user_id" json:"created_by_user,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }
