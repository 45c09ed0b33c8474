package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"clump-cli/internal/model"
)

func TestWrite_JSONCompactAndPretty(t *testing.T) {
	v := model.Result{Success: true, Message: "ok"}

	var buf bytes.Buffer
	if err := Write(&buf, v, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"success\":true,\"message\":\"ok\"}\n" {
		t.Fatalf("compact: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, v, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"success\": true") {
		t.Fatalf("pretty: %q", buf.String())
	}
}

func TestWrite_YAMLUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	ev := model.Event{ID: 4, Title: "Trivia", Capacity: 2}
	if err := Write(&buf, ev, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"eid: 4\n", "title: Trivia\n", "cap: 2\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, 1, "edn", false)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if Valid("edn") || !Valid("yaml") || !Valid("") {
		t.Fatalf("Valid disagrees with Write")
	}
}
