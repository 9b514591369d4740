package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("hidden")
	log.WithField("loan_id", "abc").Warn("shown")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not a single JSON entry: %q (%v)", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["loan_id"] != "abc" || entry["level"] != "warning" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	if got := New("chatty", nil).GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("level = %v", got)
	}
}
