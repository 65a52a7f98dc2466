package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldtech/workorder-be/internal/api/domain"
	"github.com/fieldtech/workorder-be/internal/api/dto"
	"github.com/fieldtech/workorder-be/internal/api/storage"
	"github.com/fieldtech/workorder-be/internal/submission"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmitWorkOrder handles POST /submit-work-order/
// Runs the full submission workflow: store signature, persist record,
// render PDF, email customer and internal copy.
func (h *WorkOrderHandler) SubmitWorkOrder(c *gin.Context) {
	h.logger.Info("SubmitWorkOrder called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.SubmitWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "Invalid request body",
		})
		return
	}

	order := submission.Order{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		WorkPerformed:  req.WorkPerformed,
		SignatureImage: req.SignatureImage,
	}

	result, err := h.submitter.Submit(c.Request.Context(), order)
	if err != nil {
		// One undifferentiated failure shape for the whole workflow,
		// carrying the triggering error's text.
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Detail: fmt.Sprintf("An error occurred: %s", err.Error()),
		})
		return
	}

	h.logger.Info("Work order processed",
		slog.String("work_order_id", result.Record.WorkOrderID),
		slog.String("pdf_filename", result.PDFFilename),
	)

	c.JSON(http.StatusOK, dto.SubmitWorkOrderResponse{
		Message: "Work order processed and emails sent successfully!",
	})
}

// GetWorkOrder handles GET /api/v1/work-orders/:work_order_id
// Retrieves a single persisted work-order record
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	workOrderID := c.Param("work_order_id")

	h.logger.Info("GetWorkOrder called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("work_order_id", workOrderID),
	)

	if _, err := uuid.Parse(workOrderID); err != nil {
		h.logger.Error("Invalid work_order_id format", slog.String("work_order_id", workOrderID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "work_order_id must be a valid UUID",
		})
		return
	}

	record, err := h.records.GetWorkOrderByID(c.Request.Context(), workOrderID)
	if errors.Is(err, domain.ErrWorkOrderNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Detail: "Work order not found",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get work order", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Detail: "Failed to get work order",
		})
		return
	}

	c.JSON(http.StatusOK, dto.WorkOrderDTO{
		WorkOrderID:   record.WorkOrderID,
		CustomerName:  record.CustomerName,
		CustomerEmail: record.CustomerEmail,
		WorkPerformed: record.WorkPerformed,
		SignatureURL:  record.SignatureURL,
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	})
}

// ListWorkOrders handles GET /api/v1/work-orders
// Lists work orders with optional filtering and cursor pagination
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	h.logger.Info("ListWorkOrders called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListWorkOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeWorkOrderCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "Invalid cursor",
		})
		return
	}

	filter := storage.WorkOrderFilter{
		CustomerEmail: req.CustomerEmail,
		PageSize:      req.PageSize,
		Cursor:        cursor,
	}

	records, err := h.records.ListWorkOrders(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list work orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Detail: "Failed to list work orders",
		})
		return
	}

	hasMore := len(records) > req.PageSize
	if hasMore {
		records = records[:req.PageSize]
	}

	workOrders := make([]dto.WorkOrderDTO, len(records))
	for i, record := range records {
		workOrders[i] = dto.WorkOrderDTO{
			WorkOrderID:   record.WorkOrderID,
			CustomerName:  record.CustomerName,
			CustomerEmail: record.CustomerEmail,
			WorkPerformed: record.WorkPerformed,
			SignatureURL:  record.SignatureURL,
			CreatedAt:     record.CreatedAt.Format(time.RFC3339),
		}
	}

	var nextCursor string
	if hasMore {
		last := records[len(records)-1]
		nextCursor, err = EncodeWorkOrderCursor(&storage.WorkOrderCursor{
			CreatedAt:   last.CreatedAt,
			WorkOrderID: last.WorkOrderID,
		})
		if err != nil {
			h.logger.Error("Failed to encode next cursor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Detail: "Failed to encode next cursor",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ListWorkOrdersResponse{
		WorkOrders: workOrders,
		NextCursor: nextCursor,
	})
}
