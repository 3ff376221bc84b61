package model

import (
	"time"

	"gorm.io/datatypes"
)

type Source struct {
	Id              string            `gorm:"type:varchar(255);primaryKey"`
	NotebookId      string            `gorm:"type:varchar(255);not null;index"`
	Title           string            `gorm:"type:varchar(1000);not null"`
	SourceType      string            `gorm:"type:varchar(50);default:'pdf'"`
	ZoteroKey       *string           `gorm:"type:varchar(50)"`
	FileName        *string           `gorm:"type:varchar(1000)"`
	Status          string            `gorm:"type:varchar(50);default:'ready'"`
	Authors         *string           `gorm:"type:varchar(2000)"`
	PublicationDate *string           `gorm:"type:varchar(100)"`
	ItemType        *string           `gorm:"type:varchar(100)"`
	UploadedAt      time.Time         `gorm:"autoCreateTime"`
	Metadata        datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`
}

func (Source) TableName() string {
	return "sources"
}
