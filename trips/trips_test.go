package trips

import (
	"testing"

	"tripsage/globals"
)

func TestValidateDates(t *testing.T) {
	cases := []struct {
		start, end string
		wantErr    bool
	}{
		{"", "", false},
		{"2026-05-01", "2026-05-10", false},
		{"2026-05-01", "2026-05-01", false},
		{"2026-05-10", "2026-05-01", true},
		{"05/01/2026", "2026-05-10", true},
		{"2026-05-01", "", true},
	}
	for _, c := range cases {
		err := validateDates(c.start, c.end)
		if (err != nil) != c.wantErr {
			t.Errorf("validateDates(%q, %q) err=%v, wantErr=%v", c.start, c.end, err, c.wantErr)
		}
	}
}

func TestShareQRPayloadRoundTrip(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	payload := shareQRPayload("abcdefghijklm")
	tripID, ok := VerifySharePayload(payload)
	if !ok {
		t.Fatal("valid payload rejected")
	}
	if tripID != "abcdefghijklm" {
		t.Fatalf("expected trip id abcdefghijklm, got %s", tripID)
	}
}

func TestVerifySharePayloadRejectsTampering(t *testing.T) {
	globals.JwtSecret = []byte("test-secret")

	payload := shareQRPayload("abcdefghijklm")
	tampered := "x" + payload[1:]
	if _, ok := VerifySharePayload(tampered); ok {
		t.Fatal("tampered payload accepted")
	}
}
