package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"defaults are valid",
			func(*Config) {},
			"",
		},
		{
			"unknown default formatter",
			func(c *Config) { c.Defaults.Formatter = "xml" },
			"unknown formatter",
		},
		{
			"unknown default level",
			func(c *Config) { c.Defaults.Level = "loud" },
			"unknown level",
		},
		{
			"unknown service formatter",
			func(c *Config) {
				c.Services = map[string]ServiceRule{"svc.T": {Formatter: "nope"}}
			},
			"unknown formatter",
		},
		{
			"unknown service template",
			func(c *Config) {
				c.Services = map[string]ServiceRule{"svc.T": {Template: "ghost"}}
			},
			"unknown template",
		},
		{
			"template without variants",
			func(c *Config) {
				c.Templates = map[string]TemplateConfig{"empty": {}}
			},
			"at least one of success or error",
		},
		{
			"template with unbalanced braces",
			func(c *Config) {
				c.Templates = map[string]TemplateConfig{"bad": {Success: "{MethodName completed"}}
			},
			"unbalanced braces",
		},
		{
			"template with empty placeholder",
			func(c *Config) {
				c.Templates = map[string]TemplateConfig{"bad": {Success: "{} completed"}}
			},
			"empty placeholder",
		},
		{
			"empty masking pattern",
			func(c *Config) {
				c.Masking.Patterns = []MaskPattern{{Pattern: "  "}}
			},
			"must not be empty",
		},
		{
			"batch larger than capacity",
			func(c *Config) {
				c.Queue.Capacity = 10
				c.Queue.BatchSize = 20
			},
			"must not exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSingletonLifecycle(t *testing.T) {
	ResetForTesting()
	t.Cleanup(ResetForTesting)

	if GetConfig() != nil {
		t.Fatal("expected nil config before Initialize")
	}

	cfg := validConfig()
	SetConfigForTesting(cfg)
	if GetConfig() != cfg {
		t.Error("SetConfigForTesting did not install the config")
	}
}
