package model

import (
	"time"

	"gorm.io/datatypes"
)

type Notebook struct {
	Id           string            `gorm:"type:varchar(255);primaryKey"`
	Title        string            `gorm:"type:varchar(500);not null"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	LastSyncedAt *time.Time        `gorm:"type:timestamptz"`
	SourceCount  int               `gorm:"default:0"`
	IsActive     bool              `gorm:"default:true"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`

	Sources []Source `gorm:"foreignKey:NotebookId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Queries []Query  `gorm:"foreignKey:NotebookId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Notebook) TableName() string {
	return "notebooks"
}
