package logging

import "testing"

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		lg, err := New("debug", format)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", format, err)
		}
		if !lg.Core().Enabled(-1) {
			t.Errorf("expected debug to be enabled for %s", format)
		}
	}

	if _, err := New("loud", "json"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
