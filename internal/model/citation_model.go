package model

type Citation struct {
	Id             uint    `gorm:"primaryKey;autoIncrement"`
	QueryId        uint    `gorm:"not null;index"`
	CitationNumber int     `gorm:"not null"`
	SourceId       *string `gorm:"type:varchar(255)"`
	SourceTitle    *string `gorm:"type:varchar(1000)"`
	CitedText      *string `gorm:"type:text"`
	StartChar      *int
	EndChar        *int
	SourceAuthors  *string `gorm:"type:varchar(2000)"`
	SourceDate     *string `gorm:"type:varchar(100)"`
}

func (Citation) TableName() string {
	return "citations"
}
