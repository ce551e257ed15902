package jwc

import (
	"encoding/json"
	"strings"
)

const (
	StatusOK          = "200"
	StatusRateLimited = "300"
)

// slotFullMarker appears in the rejection message when a section has no
// seats left. Seats free up when other students drop, so this outcome is
// retryable, not terminal.
const slotFullMarker = "已满"

// ActionResult is the JSON body returned by the selection, cancellation
// and evaluation endpoints.
type ActionResult struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// RateLimited reports whether the portal refused the request for pacing
// reasons. This is a normal operating state, never an error.
func (r ActionResult) RateLimited() bool {
	return r.Status == StatusRateLimited
}

// SlotFull reports whether the request was rejected because the section
// is at capacity.
func (r ActionResult) SlotFull() bool {
	return strings.Contains(r.Message, slotFullMarker)
}
