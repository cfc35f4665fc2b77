// models/gorm_models.go
package models

import (
	"gorm.io/gorm"

	"github.com/wfunc/roomsync/reducer"
)

// GormGameRecord is the database mapping of GameRecord.
type GormGameRecord struct {
	gorm.Model
	RoomID  string             `gorm:"index;not null"`
	Game    string             `gorm:"not null"`
	Players []PlayerInfo       `gorm:"type:jsonb;serializer:json"`
	Log     []reducer.LogEntry `gorm:"type:jsonb;serializer:json"`
}
