package submission

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/fieldtech/workorder-be/internal/api/model"
	"github.com/fieldtech/workorder-be/internal/mailer"
	"github.com/fieldtech/workorder-be/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadCall struct {
	key         string
	data        []byte
	contentType string
}

type fakeBlobStore struct {
	uploads   []uploadCall
	uploadErr error
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{key: key, data: data, contentType: contentType})
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://blobs.test/signatures/" + key
}

type fakeRecordStore struct {
	records   []*model.WorkOrderRecord
	createErr error
}

func (f *fakeRecordStore) CreateWorkOrder(_ context.Context, record *model.WorkOrderRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, record)
	return nil
}

type fakeRenderer struct {
	docs      []render.Document
	renderErr error
	pdf       []byte
}

func (f *fakeRenderer) Render(_ context.Context, doc render.Document) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.docs = append(f.docs, doc)
	return f.pdf, nil
}

type fakeDispatcher struct {
	messages []mailer.Message
	// statusFor maps recipient to a forced non-SENT status
	statusFor map[string]mailer.DeliveryStatus
}

func (f *fakeDispatcher) Send(_ context.Context, msg mailer.Message) mailer.DeliveryResult {
	f.messages = append(f.messages, msg)
	if status, ok := f.statusFor[msg.To]; ok {
		return mailer.DeliveryResult{To: msg.To, Status: status, StatusCode: 500}
	}
	return mailer.DeliveryResult{To: msg.To, Status: mailer.StatusSent, StatusCode: 202}
}

type workflowFixture struct {
	orchestrator *Orchestrator
	blobs        *fakeBlobStore
	records      *fakeRecordStore
	renderer     *fakeRenderer
	dispatcher   *fakeDispatcher
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	blobs := &fakeBlobStore{}
	records := &fakeRecordStore{}
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.7 test")}
	dispatcher := &fakeDispatcher{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := NewOrchestrator(Config{
		CompanyEmail: "office@fieldtech.example",
		CallTimeout:  time.Second,
	}, logger, blobs, records, renderer, dispatcher)
	orchestrator.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	return &workflowFixture{
		orchestrator: orchestrator,
		blobs:        blobs,
		records:      records,
		renderer:     renderer,
		dispatcher:   dispatcher,
	}
}

func validOrder() Order {
	return Order{
		CustomerName:   "Jane Doe",
		CustomerEmail:  "jane@example.com",
		WorkPerformed:  "Replaced filter",
		SignatureImage: "data:image/png;base64,iVBORw0KGgo=",
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newWorkflowFixture(t)

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.NoError(t, err)
	require.NotNil(t, result)

	// Signature blob uploaded once under the derived key
	require.Len(t, f.blobs.uploads, 1)
	upload := f.blobs.uploads[0]
	assert.Regexp(t, regexp.MustCompile(`^signature_Jane_Doe_\d{8}_\d{6}\.png$`), upload.key)
	assert.Equal(t, "image/png", upload.contentType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, upload.data)

	// Record persisted with the public URL
	require.Len(t, f.records.records, 1)
	record := f.records.records[0]
	assert.Equal(t, "Jane Doe", record.CustomerName)
	assert.Equal(t, "jane@example.com", record.CustomerEmail)
	assert.Equal(t, "Replaced filter", record.WorkPerformed)
	assert.Equal(t, "https://blobs.test/signatures/"+upload.key, record.SignatureURL)
	assert.NotEmpty(t, record.WorkOrderID)

	// Document rendered from the persisted fields
	require.Len(t, f.renderer.docs, 1)
	assert.Equal(t, record.SignatureURL, f.renderer.docs[0].SignatureURL)

	// Customer first, internal copy second
	require.Len(t, f.dispatcher.messages, 2)
	customer, internal := f.dispatcher.messages[0], f.dispatcher.messages[1]
	assert.Equal(t, "jane@example.com", customer.To)
	assert.Equal(t, "Work Order Confirmation for Jane Doe", customer.Subject)
	assert.Equal(t, "office@fieldtech.example", internal.To)
	assert.Equal(t, "COPY: Work Order Confirmation for Jane Doe", internal.Subject)
	assert.Regexp(t, regexp.MustCompile(`^WorkOrder_Jane_Doe_\d{8}_\d{6}\.pdf$`), customer.Attachment.Filename)
	assert.Equal(t, customer.Attachment.Filename, internal.Attachment.Filename)
	assert.Equal(t, "application/pdf", customer.Attachment.MIMEType)
	assert.Equal(t, f.renderer.pdf, customer.Attachment.Content)

	assert.Len(t, result.Deliveries, 2)
	assert.Equal(t, result.Record, record)
}

func TestSubmitMalformedSignature(t *testing.T) {
	f := newWorkflowFixture(t)

	order := validOrder()
	order.SignatureImage = "not-a-data-uri"

	result, err := f.orchestrator.Submit(context.Background(), order)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Nil(t, result)

	// Cheap-fail: no external call was made
	assert.Empty(t, f.blobs.uploads)
	assert.Empty(t, f.records.records)
	assert.Empty(t, f.renderer.docs)
	assert.Empty(t, f.dispatcher.messages)
}

func TestSubmitStorageFailure(t *testing.T) {
	f := newWorkflowFixture(t)
	f.blobs.uploadErr = errors.New("bucket unavailable")

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "bucket unavailable")
	assert.Nil(t, result)

	// Nothing downstream of the upload ran
	assert.Empty(t, f.records.records)
	assert.Empty(t, f.renderer.docs)
	assert.Empty(t, f.dispatcher.messages)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	f := newWorkflowFixture(t)
	f.records.createErr = errors.New("insert failed")

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, result)

	// The uploaded blob stays behind; there is no compensating delete
	assert.Len(t, f.blobs.uploads, 1)
	assert.Empty(t, f.renderer.docs)
	assert.Empty(t, f.dispatcher.messages)
}

func TestSubmitRenderFailure(t *testing.T) {
	f := newWorkflowFixture(t)
	f.renderer.renderErr = errors.New("chrome crashed")

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
	assert.Nil(t, result)

	// The record persisted before the render is not rolled back
	assert.Len(t, f.records.records, 1)
	assert.Empty(t, f.dispatcher.messages)
}

func TestSubmitCustomerDeliveryFailureStillSucceeds(t *testing.T) {
	f := newWorkflowFixture(t)
	f.dispatcher.statusFor = map[string]mailer.DeliveryStatus{
		"jane@example.com": mailer.StatusRejected,
	}

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.NoError(t, err)
	require.NotNil(t, result)

	// Internal copy was still attempted after the customer failure
	require.Len(t, f.dispatcher.messages, 2)
	assert.Equal(t, "office@fieldtech.example", f.dispatcher.messages[1].To)

	require.Len(t, result.Deliveries, 2)
	assert.Equal(t, mailer.StatusRejected, result.Deliveries[0].Status)
	assert.Equal(t, mailer.StatusSent, result.Deliveries[1].Status)
}

func TestSubmitBothDeliveriesFailStillSucceeds(t *testing.T) {
	f := newWorkflowFixture(t)
	f.dispatcher.statusFor = map[string]mailer.DeliveryStatus{
		"jane@example.com":         mailer.StatusTransportFailed,
		"office@fieldtech.example": mailer.StatusTransportFailed,
	}

	result, err := f.orchestrator.Submit(context.Background(), validOrder())
	require.NoError(t, err)
	require.Len(t, result.Deliveries, 2)
}
