package speech

import (
	"encoding/json"
	"testing"
)

func TestStartCommandMarshal(t *testing.T) {
	cmd := Command{
		Cmd:             "start",
		Language:        "en-US",
		InterimResults:  BoolPtr(false),
		MaxAlternatives: 1,
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if raw["language"] != "en-US" {
		t.Errorf("language = %v, want en-US", raw["language"])
	}
	// interimResults must be serialized even when false; the daemon
	// treats an absent field as engine default.
	if v, ok := raw["interimResults"]; !ok || v != false {
		t.Errorf("interimResults = %v, want explicit false", v)
	}
	if raw["maxAlternatives"] != float64(1) {
		t.Errorf("maxAlternatives = %v, want 1", raw["maxAlternatives"])
	}
}

func TestStopCommandOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(Command{Cmd: "stop"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if len(raw) != 1 {
		t.Errorf("stop command has %d fields, want only cmd: %v", len(raw), raw)
	}
}
