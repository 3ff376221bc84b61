package specification

import "gorm.io/gorm"

type ByNotebookID struct {
	NotebookID string
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

type ByBatchID struct {
	BatchID string
}

func (s ByBatchID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("batch_id = ?", s.BatchID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// WithCitations preloads a query's citations ordered by number.
type WithCitations struct{}

func (s WithCitations) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Citations", func(db *gorm.DB) *gorm.DB {
		return db.Order("citation_number ASC, id ASC")
	})
}
