package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestLogNotifierWritesRecordsAndFailures(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	records := []model.JobRecord{{
		Title:   "Go Engineer",
		Company: "Acme",
		URL:     "https://example.com/jobs/1",
		Source:  "remoteok",
	}}
	errs := map[string]string{"indeed": "page render timed out"}

	if err := n.Notify(records, errs); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Go Engineer") {
		t.Errorf("expected record title in output: %s", out)
	}
	if !strings.Contains(out, "indeed") || !strings.Contains(out, "page render timed out") {
		t.Errorf("expected provider failure in output: %s", out)
	}
}
