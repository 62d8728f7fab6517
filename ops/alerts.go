package ops

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"tripsage/utils"
)

// Severity levels accepted by the alert pipeline. Anything else is
// coerced to "warning" so a bad caller never breaks paging.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

const prefix = "[operational-alert] "

// alertPayload field order matters: downstream log parsers match on the
// documented key order.
type alertPayload struct {
	Event      string         `json:"event"`
	Severity   string         `json:"severity"`
	Attributes map[string]any `json:"attributes"`
	Source     string         `json:"source"`
	Timestamp  string         `json:"timestamp"`
}

// Format renders the alert line without emitting it.
func Format(event, severity, source string, attributes map[string]any, at time.Time) string {
	if severity != SeverityError && severity != SeverityWarning {
		severity = SeverityWarning
	}
	if attributes == nil {
		attributes = map[string]any{}
	}
	p := alertPayload{
		Event:      event,
		Severity:   severity,
		Attributes: attributes,
		Source:     source,
		Timestamp:  utils.ISOTimestamp(at),
	}
	b, err := json.Marshal(p)
	if err != nil {
		// attributes contained something unmarshalable; drop them
		p.Attributes = map[string]any{}
		b, _ = json.Marshal(p)
	}
	return prefix + string(b)
}

// Alert emits an operational alert line for paging-worthy, non-fatal
// conditions.
func Alert(event, severity, source string, attributes map[string]any) {
	log.Println(Format(event, severity, source, attributes, time.Now()))
}

var (
	throttleMu   sync.Mutex
	throttleSeen = map[string]time.Time{}
)

const throttleWindow = 5 * time.Minute

// AlertThrottled emits at most one alert per event+source per five
// minutes. Used by the cache layer so a flapping Redis does not page
// on every request.
func AlertThrottled(event, severity, source string, attributes map[string]any) {
	key := event + "|" + source
	now := time.Now()

	throttleMu.Lock()
	last, ok := throttleSeen[key]
	if ok && now.Sub(last) < throttleWindow {
		throttleMu.Unlock()
		return
	}
	throttleSeen[key] = now
	throttleMu.Unlock()

	Alert(event, severity, source, attributes)
}
