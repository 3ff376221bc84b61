package service

import (
	"context"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/pkg/notebooklm"

	"gorm.io/gorm"
)

const Version = "0.1.0"

type IHealthService interface {
	Health(ctx context.Context) *dto.HealthResponse
	Status(ctx context.Context) *dto.StatusResponse
}

type healthService struct {
	db                *gorm.DB
	handle            *notebooklm.SessionHandle
	refreshConfigured bool
}

func NewHealthService(db *gorm.DB, handle *notebooklm.SessionHandle, refreshConfigured bool) IHealthService {
	return &healthService{
		db:                db,
		handle:            handle,
		refreshConfigured: refreshConfigured,
	}
}

func (s *healthService) Health(ctx context.Context) *dto.HealthResponse {
	database := s.pingDatabase(ctx)
	auth := s.authState()

	return &dto.HealthResponse{
		Status:         overallStatus(database),
		Version:        Version,
		Database:       database,
		NotebookLMAuth: auth,
	}
}

func (s *healthService) Status(ctx context.Context) *dto.StatusResponse {
	database := s.pingDatabase(ctx)
	res := &dto.StatusResponse{
		Status:            overallStatus(database),
		Version:           Version,
		Database:          database,
		DatabaseTables:    []string{},
		NotebookLMAuth:    s.authState(),
		RefreshConfigured: s.refreshConfigured,
	}

	if database == "connected" {
		if tables, err := s.db.WithContext(ctx).Migrator().GetTables(); err == nil {
			res.DatabaseTables = tables
		}
	}

	if engine := s.handle.Load(); engine != nil {
		listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		notebooks, err := engine.ListNotebooks(listCtx)
		if err != nil {
			res.NotebookLMAuth = "error"
		} else {
			count := len(notebooks)
			res.NotebookLMNotebooks = &count
		}
	}

	return res
}

func (s *healthService) pingDatabase(ctx context.Context) string {
	if s.db == nil {
		return "error"
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return "error"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return "error"
	}
	return "connected"
}

func (s *healthService) authState() string {
	if s.handle.Load() == nil {
		return "not_configured"
	}
	return "configured"
}

func overallStatus(database string) string {
	if database == "connected" {
		return "ok"
	}
	return "degraded"
}
