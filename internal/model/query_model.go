package model

import (
	"time"

	"gorm.io/datatypes"
)

type Query struct {
	Id             uint              `gorm:"primaryKey;autoIncrement"`
	NotebookId     string            `gorm:"type:varchar(255);not null;index"`
	Question       string            `gorm:"type:text;not null"`
	Answer         *string           `gorm:"type:text"`
	ConversationId *string           `gorm:"type:varchar(255)"`
	TurnNumber     *int              `gorm:"type:integer"`
	BatchId        *string           `gorm:"type:varchar(32);index"`
	Status         string            `gorm:"type:varchar(20);not null;default:'pending';index"`
	AskedAt        time.Time         `gorm:"type:timestamptz;not null"`
	AnsweredAt     *time.Time        `gorm:"type:timestamptz"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`

	Citations []Citation `gorm:"foreignKey:QueryId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Query) TableName() string {
	return "queries"
}
