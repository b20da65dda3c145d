package cli

import (
	"os"
	"testing"

	"github.com/ardnew/ycomp/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{"none", []string{"compose", "x.yaml"}, "", "", true, false},
		{"assigned", []string{"--log-level=debug", "--log-format=json"}, "debug", "json", true, false},
		{"separate", []string{"--log-level", "warn", "compose"}, "warn", "", true, false},
		{"missing value", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"negated", []string{"--no-log-pretty", "--log-caller=true"}, "", "", false, true},
		{"assigned bool", []string{"--log-pretty=false", "--no-log-caller=false"}, "", "", false, true},
		{"bad bool", []string{"--log-pretty=maybe"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format ||
				f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("scan() = %+v", f)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	for _, key := range []string{
		"logLevelDefault", "logLevelEnum",
		"logFormatDefault", "logFormatEnum", "logTimeDefault",
	} {
		if vars[key] == "" {
			t.Errorf("%s is empty", key)
		}
	}
}
