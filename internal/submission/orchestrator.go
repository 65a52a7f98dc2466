package submission

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/fieldtech/workorder-be/internal/api/model"
	"github.com/fieldtech/workorder-be/internal/mailer"
	"github.com/fieldtech/workorder-be/internal/render"
	"github.com/google/uuid"
)

// BlobStore is the object-storage contract consumed by the workflow. The
// uploaded blob is owned by the store; the workflow keeps only the key and
// the public URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// RecordStore persists work-order records.
type RecordStore interface {
	CreateWorkOrder(ctx context.Context, record *model.WorkOrderRecord) error
}

// Renderer produces the PDF document for a persisted work order.
type Renderer interface {
	Render(ctx context.Context, doc render.Document) ([]byte, error)
}

// Dispatcher delivers one notification email. Delivery failures surface only
// through the result, never as an error.
type Dispatcher interface {
	Send(ctx context.Context, msg mailer.Message) mailer.DeliveryResult
}

// Order is a validated work-order submission.
type Order struct {
	CustomerName   string
	CustomerEmail  string
	WorkPerformed  string
	SignatureImage string // data URI
}

// Result reports a completed submission. Deliveries may contain failed
// attempts; a submission succeeds once its document has been rendered.
type Result struct {
	Record       *model.WorkOrderRecord
	SignatureKey string
	PDFFilename  string
	Deliveries   []mailer.DeliveryResult
}

// Config holds orchestrator configuration
type Config struct {
	// CompanyEmail receives the internal copy of every confirmation
	CompanyEmail string
	// CallTimeout bounds each external call; zero disables the bound
	CallTimeout time.Duration
}

// Orchestrator drives the submission workflow: decode signature, store it,
// persist the record, render the document, notify both recipients. Steps run
// strictly in order with no retries and no compensating rollback; an earlier
// step's output is never undone when a later step fails.
type Orchestrator struct {
	config     Config
	logger     *slog.Logger
	blobs      BlobStore
	records    RecordStore
	renderer   Renderer
	dispatcher Dispatcher
	now        func() time.Time
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config Config, logger *slog.Logger, blobs BlobStore, records RecordStore, renderer Renderer, dispatcher Dispatcher) *Orchestrator {
	return &Orchestrator{
		config:     config,
		logger:     logger,
		blobs:      blobs,
		records:    records,
		renderer:   renderer,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Submit runs one submission end to end. Any error from the decode, store,
// persist or render steps aborts the workflow; notification outcomes never
// affect the returned error.
func (o *Orchestrator) Submit(ctx context.Context, order Order) (*Result, error) {
	logger := o.logger.With(slog.String("customer", order.CustomerName))
	state := StateReceived

	// Step 1: decode the signature before touching any external service
	imageData, err := DecodeDataURI(order.SignatureImage)
	if err != nil {
		return nil, o.fail(logger, state, err)
	}
	state = o.advance(logger, StateSignatureDecoded)

	stem := DeriveStem(order.CustomerName, o.now())
	signatureKey := fmt.Sprintf("signature_%s.png", stem)

	// Step 2: upload the signature blob and obtain its public URL
	uploadCtx, cancel := o.callContext(ctx)
	err = o.blobs.Upload(uploadCtx, signatureKey, imageData, "image/png")
	cancel()
	if err != nil {
		return nil, o.fail(logger, state, fmt.Errorf("%w: %v", ErrStorage, err))
	}
	signatureURL := o.blobs.PublicURL(signatureKey)
	state = o.advance(logger, StateSignatureStored)

	// Step 3: persist the record. If this fails the uploaded blob stays
	// behind orphaned; storage cleanup is outside the workflow's contract.
	record := &model.WorkOrderRecord{
		WorkOrderID:   uuid.New().String(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		WorkPerformed: order.WorkPerformed,
		SignatureURL:  signatureURL,
		CreatedAt:     o.now(),
	}
	insertCtx, cancel := o.callContext(ctx)
	err = o.records.CreateWorkOrder(insertCtx, record)
	cancel()
	if err != nil {
		return nil, o.fail(logger, state, fmt.Errorf("%w: %v", ErrPersistence, err))
	}
	state = o.advance(logger, StateRecordPersisted)

	// Step 4: render the document. The record persisted above is not rolled
	// back on failure: at-least-recorded beats all-or-nothing here.
	renderCtx, cancel := o.callContext(ctx)
	pdfBytes, err := o.renderer.Render(renderCtx, render.Document{
		CustomerName:  record.CustomerName,
		CustomerEmail: record.CustomerEmail,
		WorkPerformed: record.WorkPerformed,
		SignatureURL:  record.SignatureURL,
	})
	cancel()
	if err != nil {
		return nil, o.fail(logger, state, fmt.Errorf("%w: %v", ErrRender, err))
	}
	o.advance(logger, StateDocumentRendered)

	// Step 5: notify customer and internal copy, both best-effort. A failed
	// customer delivery must not stop the internal copy.
	deliveries := o.notify(ctx, logger, order, pdfBytes, fmt.Sprintf("WorkOrder_%s.pdf", stem))
	o.advance(logger, StateNotified)
	o.advance(logger, StateComplete)

	logger.Info("Submission complete",
		slog.String("work_order_id", record.WorkOrderID),
		slog.String("signature_key", signatureKey),
	)

	return &Result{
		Record:       record,
		SignatureKey: signatureKey,
		PDFFilename:  fmt.Sprintf("WorkOrder_%s.pdf", stem),
		Deliveries:   deliveries,
	}, nil
}

// notify dispatches the confirmation to the customer and an internal copy
// with a prefixed subject. Failed deliveries are logged and carried in the
// results, nothing more.
func (o *Orchestrator) notify(ctx context.Context, logger *slog.Logger, order Order, pdfBytes []byte, pdfFilename string) []mailer.DeliveryResult {
	subject := fmt.Sprintf("Work Order Confirmation for %s", order.CustomerName)
	body := fmt.Sprintf(
		"Dear %s,<br><br>Thank you for your business. Please find your signed work order attached.<br><br>Sincerely,<br>The Team",
		html.EscapeString(order.CustomerName),
	)
	attachment := mailer.Attachment{
		Content:  pdfBytes,
		Filename: pdfFilename,
		MIMEType: "application/pdf",
	}

	messages := []mailer.Message{
		{To: order.CustomerEmail, Subject: subject, HTMLBody: body, Attachment: attachment},
		{To: o.config.CompanyEmail, Subject: "COPY: " + subject, HTMLBody: body, Attachment: attachment},
	}

	deliveries := make([]mailer.DeliveryResult, 0, len(messages))
	for _, msg := range messages {
		sendCtx, cancel := o.callContext(ctx)
		result := o.dispatcher.Send(sendCtx, msg)
		cancel()

		if result.Status != mailer.StatusSent {
			logger.Warn("Notification delivery failed",
				slog.String("to", msg.To),
				slog.String("status", string(result.Status)),
				slog.Int("status_code", result.StatusCode),
			)
		}
		deliveries = append(deliveries, result)
	}

	return deliveries
}

// advance logs a state transition and returns the new state.
func (o *Orchestrator) advance(logger *slog.Logger, to State) State {
	logger.Debug("Submission state transition", slog.String("state", string(to)))
	return to
}

// fail logs the terminal FAILED transition and returns the triggering error.
func (o *Orchestrator) fail(logger *slog.Logger, from State, err error) error {
	logger.Error("Submission failed",
		slog.String("state", string(from)),
		slog.String("error", err.Error()),
	)
	return err
}

// callContext bounds one external call with the configured timeout.
func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.config.CallTimeout)
}
