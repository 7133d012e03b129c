package service

import (
	"context"
	"errors"

	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/google/uuid"
)

// TableService tracks dining-table occupancy for the register.
type TableService interface {
	CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error)
	ListTables(ctx context.Context) ([]dto.TableResponse, error)
	OpenTable(ctx context.Context, id uuid.UUID) error
	FreeTable(ctx context.Context, id uuid.UUID) error
}

type tableService struct {
	tables repository.TableRepository
}

func NewTableService(tables repository.TableRepository) TableService {
	return &tableService{tables: tables}
}

func (s *tableService) CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	t := &model.DiningTable{Number: req.Number, Capacity: req.Capacity, Status: "Libre"}
	if t.Capacity < 1 {
		t.Capacity = 2
	}
	if err := s.tables.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := tableToResponse(t)
	return &resp, nil
}

func (s *tableService) ListTables(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TableResponse, len(tables))
	for i := range tables {
		resp[i] = tableToResponse(&tables[i])
	}
	return resp, nil
}

func (s *tableService) OpenTable(ctx context.Context, id uuid.UUID) error {
	t, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return errors.New("table introuvable")
	}
	if t.Status == "Occupée" {
		return errors.New("la table est déjà occupée")
	}
	return s.tables.SetStatus(ctx, id, "Occupée")
}

func (s *tableService) FreeTable(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tables.FindByID(ctx, id); err != nil {
		return errors.New("table introuvable")
	}
	return s.tables.SetStatus(ctx, id, "Libre")
}

func tableToResponse(t *model.DiningTable) dto.TableResponse {
	var openedAt *string
	if t.OpenedAt != nil {
		v := t.OpenedAt.Format("2006-01-02T15:04:05Z")
		openedAt = &v
	}
	return dto.TableResponse{
		ID:       t.ID.String(),
		Number:   t.Number,
		Capacity: t.Capacity,
		Status:   t.Status,
		OpenedAt: openedAt,
	}
}
