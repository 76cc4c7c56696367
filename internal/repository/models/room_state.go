package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoomState 是房間文件的資料列，Version 作為樂觀鎖
type RoomState struct {
	Code      string         `gorm:"primaryKey;size:8"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	Version   int64          `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoomState) TableName() string {
	return "room_states"
}
