package config

import "testing"

func TestDefaultConfigIsValidOnceInputSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputFile = "region.osm.pbf"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config plus an input file should validate, got: %v", err)
	}
}

func TestValidateRequiresInputFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error when InputFile is empty")
	}
}

func TestValidateRejectsBadHighWaterAndWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputFile = "x.osm.pbf"

	cfg.OutputHighWater = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error for a zero output high-water mark")
	}
	cfg.OutputHighWater = 1000

	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error for zero workers")
	}
}

func TestValidateSink(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputFile = "x.osm.pbf"

	cfg.Sink = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error when the postgres sink has no DSN")
	}
	cfg.SinkDSN = "postgres://localhost/osm"
	if err := cfg.Validate(); err != nil {
		t.Errorf("postgres sink with a DSN should validate, got: %v", err)
	}

	cfg.Sink = "nonsense"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error for an unknown sink")
	}
}
