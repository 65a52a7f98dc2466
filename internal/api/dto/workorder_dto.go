package dto

// SubmitWorkOrderRequest mirrors the inbound submission body. Field names are
// camelCase because the field-technician client sends them that way.
type SubmitWorkOrderRequest struct {
	CustomerName   string `json:"customerName" binding:"required"`
	CustomerEmail  string `json:"customerEmail" binding:"required"`
	WorkPerformed  string `json:"workPerformed" binding:"required"`
	SignatureImage string `json:"signatureImage" binding:"required"`
}

type SubmitWorkOrderResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the single failure shape returned by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ListWorkOrdersRequest struct {
	CustomerEmail string `form:"customer_email"`
	PageSize      int    `form:"page_size"`
	Cursor        string `form:"cursor"`
}

type ListWorkOrdersResponse struct {
	WorkOrders []WorkOrderDTO `json:"work_orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type WorkOrderDTO struct {
	WorkOrderID   string `json:"work_order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	WorkPerformed string `json:"work_performed"`
	SignatureURL  string `json:"signature_url"`
	CreatedAt     string `json:"created_at"`
}
