package errors

import (
	"strings"
	"testing"
)

func TestValidateEventName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Probe", false},
		{"valid with space", "Cybernetics Core", false},
		{"valid research", "WarpGateResearch", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEventName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEventName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlayerID(t *testing.T) {
	tests := []struct {
		id      int
		wantErr bool
	}{
		{1, false},
		{2, false},
		{16, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidatePlayerID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePlayerID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidatePlayerID(%d) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "replays/game.json", false},
		{"absolute file", "/home/me/Replays/Alcyone LE (2).SC2Replay", false},
		{"windows style", `C:\Users\me\game.json`, false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "game\x00.json", true},
		{"control char", "game\x07.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateParserCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"with placeholder", "python -m spawningtool {replay}", false},
		{"placeholder only arg", "sc2parse {replay} --json", false},

		{"empty", "", true},
		{"blank", "  ", true},
		{"missing placeholder", "python -m spawningtool", true},
		{"null byte", "parse\x00 {replay}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParserCommand(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParserCommand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
