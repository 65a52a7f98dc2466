package submission

import (
	"regexp"
	"time"
)

var stemSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// DeriveStem builds the shared filename stem for a submission's artifacts:
// the customer name with every character outside [A-Za-z0-9_] replaced by an
// underscore, followed by a second-precision timestamp. The signature object
// key and the PDF filename both derive from this stem, so the two artifacts
// stay traceable to the same submission without a shared database key.
//
// Two submissions for the same customer name within the same second collide;
// the workflow promises no uniqueness, so this is accepted.
func DeriveStem(customerName string, now time.Time) string {
	safe := stemSanitizer.ReplaceAllString(customerName, "_")
	return safe + "_" + now.Format("20060102_150405")
}
