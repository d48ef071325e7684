package config

import (
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.Addr != ":8086" {
		t.Errorf("server addr = %s, want :8086", cfg.Server.Addr)
	}
	if cfg.Stream.ConsumerGroup != "handicap-engine" {
		t.Errorf("consumer group = %s", cfg.Stream.ConsumerGroup)
	}
	if cfg.Engine.CarryWeight != 0.9 || cfg.Engine.PerfWeight != 0.1 {
		t.Errorf("smoothing weights = %v/%v, want 0.9/0.1", cfg.Engine.CarryWeight, cfg.Engine.PerfWeight)
	}
	if want := []string{"football_nfl", "football_ncaaf"}; !reflect.DeepEqual(cfg.Engine.Sports, want) {
		t.Errorf("sports = %v, want %v", cfg.Engine.Sports, want)
	}
}

func TestLoadSportsParsing(t *testing.T) {
	t.Setenv("SPORTS", " football_nfl , ,football_ncaaf,")

	if got, want := loadSports(), []string{"football_nfl", "football_ncaaf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("loadSports() = %v, want %v", got, want)
	}
}
