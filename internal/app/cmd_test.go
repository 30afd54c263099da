package app

import (
	"errors"
	"testing"
)

func TestParseArgs(t *testing.T) {
	const dbURL = "postgresql://u:p@db:5432/rss_reader"

	tests := []struct {
		name string
		args []string
		want Options
	}{
		{"empty defaults to serve", []string{}, Options{Command: CommandServe}},
		{"nil defaults to serve", nil, Options{Command: CommandServe}},
		{"serve", []string{"serve"}, Options{Command: CommandServe}},
		{"create-tables", []string{"create-tables"}, Options{Command: CommandCreateTables}},
		{"drop-tables", []string{"drop-tables"}, Options{Command: CommandDropTables}},
		{"healthcheck", []string{"healthcheck"}, Options{Command: CommandHealthcheck}},
		{"short flag after command", []string{"create-tables", "-d", dbURL}, Options{Command: CommandCreateTables, DatabaseURL: dbURL}},
		{"long flag after command", []string{"drop-tables", "--database-url", dbURL}, Options{Command: CommandDropTables, DatabaseURL: dbURL}},
		{"long flag with equals", []string{"drop-tables", "--database-url=" + dbURL}, Options{Command: CommandDropTables, DatabaseURL: dbURL}},
		{"flag before command", []string{"-d", dbURL, "create-tables"}, Options{Command: CommandCreateTables, DatabaseURL: dbURL}},
		{"flag without command", []string{"-d", dbURL}, Options{Command: CommandServe, DatabaseURL: dbURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) unexpected error: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgs_UnknownCommand(t *testing.T) {
	_, err := ParseArgs([]string{"worker"})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"create-tables", "--verbose"}},
		{"missing flag value", []string{"create-tables", "-d"}},
		{"extra positional", []string{"create-tables", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.args); err == nil {
				t.Errorf("ParseArgs(%v) expected error, got nil", tt.args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandServe, "serve"},
		{CommandCreateTables, "create-tables"},
		{CommandDropTables, "drop-tables"},
		{CommandHealthcheck, "healthcheck"},
	}

	for _, tt := range tests {
		if got := string(tt.cmd); got != tt.want {
			t.Errorf("Command(%q) string = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}
