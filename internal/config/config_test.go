package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "5175" || cfg.DefaultPool != "colors" || cfg.DefaultLength != 4 || cfg.JWTExpiresDays != 14 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_LENGTH", "6")
	t.Setenv("PRODUCTION", "true")
	cfg, err := Parse()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.DefaultLength != 6 || !cfg.Production {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("DEFAULT_LENGTH", "four")
	_, err := Parse()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err=%v", err)
	}
}
