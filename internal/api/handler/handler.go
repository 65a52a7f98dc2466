package handler

import (
	"context"
	"log/slog"

	"github.com/fieldtech/workorder-be/internal/api/model"
	"github.com/fieldtech/workorder-be/internal/api/storage"
	"github.com/fieldtech/workorder-be/internal/submission"
)

// Submitter runs the work-order submission workflow.
type Submitter interface {
	Submit(ctx context.Context, order submission.Order) (*submission.Result, error)
}

// RecordReader serves the read-side work-order endpoints.
type RecordReader interface {
	GetWorkOrderByID(ctx context.Context, workOrderID string) (*model.WorkOrderRecord, error)
	ListWorkOrders(ctx context.Context, filter storage.WorkOrderFilter) ([]model.WorkOrderRecord, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Submitter Submitter
	Records   RecordReader
}

// WorkOrderHandler handles work-order HTTP requests
type WorkOrderHandler struct {
	logger    *slog.Logger
	submitter Submitter
	records   RecordReader
}

// NewWorkOrderHandler creates a new WorkOrderHandler instance
func NewWorkOrderHandler(deps *Dependencies) *WorkOrderHandler {
	return &WorkOrderHandler{
		logger:    deps.Logger,
		submitter: deps.Submitter,
		records:   deps.Records,
	}
}
