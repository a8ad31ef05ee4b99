package survey

import "testing"

func TestRunLogOrderAndLevels(t *testing.T) {
	rl := NewRunLog()
	rl.Infof("stage one: %d rows", 5)
	rl.Warnf("stage two degraded")
	rl.Errorf("stage three failed")

	entries := rl.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries()) = %d, want 3", len(entries))
	}
	wantLevels := []LogLevel{LevelInfo, LevelWarn, LevelError}
	for i, lvl := range wantLevels {
		if entries[i].Level != lvl {
			t.Errorf("entries[%d].Level = %v, want %v", i, entries[i].Level, lvl)
		}
	}
	if entries[0].Message != "stage one: 5 rows" {
		t.Errorf("entries[0].Message = %q", entries[0].Message)
	}

	msgs := rl.Messages()
	if msgs[1] != "WARN  stage two degraded" {
		t.Errorf("Messages()[1] = %q", msgs[1])
	}
}

func TestRunLogContains(t *testing.T) {
	rl := NewRunLog()
	rl.Infof("Reversed Stationing along the path")

	if !rl.Contains("reversed stationing") {
		t.Error("Contains() must match case-insensitively")
	}
	if rl.Contains("never logged") {
		t.Error("Contains() matched an absent message")
	}
}
