package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	got := Topics()
	want := []string{"keys", "storage"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics: got %v want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	body, ok := Get(" Keys ")
	if !ok || !strings.Contains(body, "clear all completed tasks") {
		t.Fatalf("Get(keys): ok=%v body=%q", ok, body)
	}
	for _, topic := range []string{"", "missing", "../docs"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("Get(%q): expected miss", topic)
		}
	}
}
