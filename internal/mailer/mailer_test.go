package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		To:       "jane@example.com",
		Subject:  "Work Order Confirmation for Jane Doe",
		HTMLBody: "Dear Jane Doe,<br>Please find your signed work order attached.",
		Attachment: Attachment{
			Content:  []byte("%PDF-1.7 test"),
			Filename: "WorkOrder_Jane_Doe_20260314_150900.pdf",
			MIMEType: "application/pdf",
		},
	}
}

func TestBuildMail(t *testing.T) {
	config := Config{
		APIKey:      "SG.test",
		SenderEmail: "noreply@fieldtech.example",
		SenderName:  "The Team",
	}

	m := buildMail(config, testMessage())

	assert.Equal(t, "noreply@fieldtech.example", m.From.Address)
	assert.Equal(t, "The Team", m.From.Name)
	assert.Equal(t, "Work Order Confirmation for Jane Doe", m.Subject)

	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "jane@example.com", m.Personalizations[0].To[0].Address)

	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/html", m.Content[0].Type)

	require.Len(t, m.Attachments, 1)
	attachment := m.Attachments[0]
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 test")), attachment.Content)
	assert.Equal(t, "application/pdf", attachment.Type)
	assert.Equal(t, "WorkOrder_Jane_Doe_20260314_150900.pdf", attachment.Filename)
	assert.Equal(t, "attachment", attachment.Disposition)
}

func TestBuildMailWithoutAttachment(t *testing.T) {
	msg := testMessage()
	msg.Attachment = Attachment{}

	m := buildMail(Config{SenderEmail: "noreply@fieldtech.example"}, msg)
	assert.Empty(t, m.Attachments)
}

func TestSend(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		closedServer bool
		wantStatus   DeliveryStatus
	}{
		{
			name:       "provider accepts",
			statusCode: http.StatusAccepted,
			wantStatus: StatusSent,
		},
		{
			name:       "provider rejects",
			statusCode: http.StatusBadRequest,
			wantStatus: StatusRejected,
		},
		{
			name:       "provider errors",
			statusCode: http.StatusInternalServerError,
			wantStatus: StatusRejected,
		},
		{
			name:         "transport failure",
			closedServer: true,
			wantStatus:   StatusTransportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(tt.statusCode)
			}))
			if tt.closedServer {
				server.Close()
			} else {
				defer server.Close()
			}

			dispatcher := NewSendGridDispatcher(Config{
				APIKey:      "SG.test",
				SenderEmail: "noreply@fieldtech.example",
				SenderName:  "The Team",
				Host:        server.URL,
			}, slog.New(slog.NewTextHandler(io.Discard, nil)))

			result := dispatcher.Send(context.Background(), testMessage())

			assert.Equal(t, "jane@example.com", result.To)
			assert.Equal(t, tt.wantStatus, result.Status)

			if tt.closedServer {
				assert.Error(t, result.Err)
				return
			}

			assert.Equal(t, tt.statusCode, result.StatusCode)

			// The request body must carry the base64 attachment with an
			// explicit disposition and type.
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(gotBody, &payload))
			attachments, ok := payload["attachments"].([]interface{})
			require.True(t, ok)
			require.Len(t, attachments, 1)
			attachment := attachments[0].(map[string]interface{})
			assert.Equal(t, "attachment", attachment["disposition"])
			assert.Equal(t, "application/pdf", attachment["type"])
			assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 test")), attachment["content"])
		})
	}
}
