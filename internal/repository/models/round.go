package models

import "gorm.io/datatypes"

// Round 是唯讀的回合內容
type Round struct {
	ID       string         `gorm:"primaryKey"`
	Category string         `gorm:"index;not null"`
	Name     string         `gorm:"not null"`
	Data     datatypes.JSON `gorm:"type:jsonb"`
}

func (Round) TableName() string {
	return "rounds"
}
