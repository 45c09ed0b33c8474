package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	if got, want := Topics(), []string{"config", "keys", "scripting"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Keys ")
	if !ok || !strings.Contains(body, "ctrl+s") {
		t.Fatalf("expected keys topic, got ok=%v", ok)
	}
	for _, bad := range []string{"", "nope", "../docs", "keys.md"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be unknown", bad)
		}
	}
}
