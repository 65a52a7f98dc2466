package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Document holds the fields interpolated into the work-order template.
type Document struct {
	CustomerName  string
	CustomerEmail string
	WorkPerformed string
	SignatureURL  string
}

// workOrderTemplate is the fixed sign-off layout. Field values pass through
// html/template's contextual escaping, so customer-supplied text cannot
// inject markup into the rendered document.
const workOrderTemplate = `<!DOCTYPE html>
<html>
<head><title>Work Order</title>
    <style>
        body { font-family: sans-serif; color: #333; }
        .container { width: 80%; margin: auto; border: 1px solid #eee; padding: 20px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        h1 { color: #444; border-bottom: 2px solid #4A90E2; padding-bottom: 10px; }
        .details p { margin: 5px 0; } .details strong { display: inline-block; width: 150px; }
        .signature-box { margin-top: 40px; border-top: 1px solid #ccc; padding-top: 20px; }
        .signature-box img { max-width: 250px; max-height: 150px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Work Order Sign-Off</h1>
        <div class="details">
            <p><strong>Customer Name:</strong> {{.CustomerName}}</p>
            <p><strong>Customer Email:</strong> {{.CustomerEmail}}</p>
            <p><strong>Date:</strong> {{.RenderedAt}}</p>
        </div>
        <div class="details"><h3>Work Performed:</h3><p>{{.WorkPerformed}}</p></div>
        <div class="signature-box"><h3>Customer Signature:</h3><img src="{{.SignatureURL}}" alt="Customer Signature"></div>
    </div>
</body>
</html>
`

var workOrderTmpl = template.Must(template.New("work-order").Parse(workOrderTemplate))

// buildHTML fills the work-order template with the document fields and a
// render-time timestamp.
func buildHTML(doc Document, renderedAt time.Time) (string, error) {
	data := struct {
		Document
		RenderedAt string
	}{
		Document:   doc,
		RenderedAt: renderedAt.Format("2006-01-02 15:04"),
	}

	var buf bytes.Buffer
	if err := workOrderTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute work-order template: %w", err)
	}

	return buf.String(), nil
}
