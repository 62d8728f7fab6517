package ops

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFormatMatchesContract(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	line := Format("cache_unreachable", SeverityWarning, "rdx", map[string]any{"op": "GET"}, at)

	want := `[operational-alert] {"event":"cache_unreachable","severity":"warning","attributes":{"op":"GET"},"source":"rdx","timestamp":"2026-03-14T09:26:53Z"}`
	if line != want {
		t.Fatalf("expected %s, got %s", want, line)
	}
}

func TestFormatCoercesBadSeverity(t *testing.T) {
	line := Format("x", "critical", "test", nil, time.Now())
	if !strings.Contains(line, `"severity":"warning"`) {
		t.Fatalf("bad severity not coerced: %s", line)
	}
}

func TestFormatPayloadIsValidJSON(t *testing.T) {
	line := Format("ai_provider_error", SeverityError, "assistant", map[string]any{"status": 500}, time.Now())
	payload := strings.TrimPrefix(line, "[operational-alert] ")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	for _, k := range []string{"event", "severity", "attributes", "source", "timestamp"} {
		if _, ok := decoded[k]; !ok {
			t.Fatalf("missing key %q in %s", k, payload)
		}
	}
}
