package submission

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURI extracts the base64 payload from a data URI such as
// "data:image/png;base64,<payload>" and decodes it. The prefix before the
// first comma is not inspected; a URI without a comma is rejected.
func DecodeDataURI(uri string) ([]byte, error) {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, fmt.Errorf("%w: data URI is missing the ',' separator", ErrMalformedInput)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrMalformedInput, err)
	}

	return data, nil
}
