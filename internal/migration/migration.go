package migration

import (
	"log"

	"notebooklm-be/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Notebook{},
		&model.Source{},
		&model.Query{},
		&model.Citation{},
	}
}

var indexSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_queries_notebook_asked ON queries (notebook_id, asked_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_citations_query_number ON citations (query_id, citation_number);`,
}

func Run(db *gorm.DB) error {
	log.Println("Step 1: Running AutoMigrate...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	log.Println("Step 2: Ensuring composite indexes...")
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute index SQL: %v. Continuing...", err)
		}
	}

	log.Println("Migration complete")
	return nil
}
