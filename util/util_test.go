package util

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := SaveJson(file, map[string]int{"episodes": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(bs, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["episodes"] != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestJsonHash(t *testing.T) {
	a := JsonHash(map[string]int{"a": 1})
	b := JsonHash(map[string]int{"a": 1})
	c := JsonHash(map[string]int{"a": 2})
	if a != b || a == c || len(a) != 64 {
		t.Errorf("unexpected hashes %s %s %s", a, b, c)
	}
}

func TestTerminalPrinter(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewTerminalPrinter(buf, time.Hour)
	first := p.NewLine()
	second := p.NewLine()
	p.Start(context.Background())

	first.Set("Episode: 1/10")
	second.Set("State: [2, 3]")
	p.Stop()
	p.Stop()

	out := buf.String()
	if !strings.Contains(out, "Episode: 1/10") || !strings.Contains(out, "State: [2, 3]") {
		t.Errorf("unexpected output %q", out)
	}
	if first.Get() != "Episode: 1/10" {
		t.Errorf("unexpected line %q", first.Get())
	}
}
