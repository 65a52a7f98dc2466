package submission

// State names a stage of the submission workflow. Transitions are linear and
// one-way; FAILED is reachable from any stage before DOCUMENT_RENDERED.
type State string

const (
	StateReceived         State = "RECEIVED"
	StateSignatureDecoded State = "SIGNATURE_DECODED"
	StateSignatureStored  State = "SIGNATURE_STORED"
	StateRecordPersisted  State = "RECORD_PERSISTED"
	StateDocumentRendered State = "DOCUMENT_RENDERED"
	StateNotified         State = "NOTIFIED"
	StateComplete         State = "COMPLETE"
	StateFailed           State = "FAILED"
)
