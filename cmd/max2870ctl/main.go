// Command max2870ctl programs a MAX2870 synthesizer board from a YAML
// description of the bus wiring and reference path.
//
// Usage: max2870ctl [-config config.yaml] <frequency-in-Hz>
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	max2870 "github.com/brycecherry75/MAX2870"
)

type Config struct {
	SPI struct {
		Device string `yaml:"device"`
	} `yaml:"spi"`
	CEPin   string `yaml:"ce_pin"`
	LockPin string `yaml:"lock_pin"`

	Reference struct {
		FrequencyHz uint32 `yaml:"frequency_hz"`
		RDivider    uint16 `yaml:"r_divider"`
		Mode        string `yaml:"mode"` // undivided, half or double
	} `yaml:"reference"`

	StepHz         uint32 `yaml:"step_hz"`
	PowerLevel     uint8  `yaml:"power_level"`
	AuxPowerLevel  uint8  `yaml:"aux_power_level"`
	AuxFundamental bool   `yaml:"aux_fundamental"`

	Precision struct {
		Enabled    bool   `yaml:"enabled"`
		MaxErrorHz uint32 `yaml:"max_error_hz"`
		TimeoutMs  int    `yaml:"timeout_ms"`
	} `yaml:"precision"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func refMode(s string) (max2870.RefMode, error) {
	switch s {
	case "", "undivided":
		return max2870.RefUndivided, nil
	case "half":
		return max2870.RefHalf, nil
	case "double":
		return max2870.RefDouble, nil
	}
	return 0, fmt.Errorf("unknown reference mode %q", s)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.yaml", "path to the board configuration")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] <frequency-in-Hz>\n", os.Args[0])
		os.Exit(2)
	}
	freq := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	dev, err := max2870.NewSPI(cfg.SPI.Device, cfg.CEPin, cfg.LockPin)
	if err != nil {
		slog.Error("Failed to open device", "error", err, "spi", cfg.SPI.Device)
		os.Exit(1)
	}
	slog.Info("Device opened", "spi", cfg.SPI.Device)

	mode, err := refMode(cfg.Reference.Mode)
	if err != nil {
		slog.Error("Invalid reference config", "error", err)
		os.Exit(1)
	}
	if err := dev.SetReference(cfg.Reference.FrequencyHz, cfg.Reference.RDivider, mode); err != nil {
		slog.Error("Failed to set reference", "error", err,
			"frequency_hz", cfg.Reference.FrequencyHz, "r", cfg.Reference.RDivider)
		os.Exit(1)
	}
	if cfg.StepHz > 0 {
		if err := dev.SetStepFrequency(cfg.StepHz); err != nil {
			slog.Error("Failed to set step frequency", "error", err, "step_hz", cfg.StepHz)
			os.Exit(1)
		}
	}

	auxMode := max2870.AuxDivided
	if cfg.AuxFundamental {
		auxMode = max2870.AuxFundamental
	}
	timeout := time.Duration(cfg.Precision.TimeoutMs) * time.Millisecond

	err = dev.SetFrequency(freq, cfg.PowerLevel, cfg.AuxPowerLevel, auxMode,
		cfg.Precision.Enabled, cfg.Precision.MaxErrorHz, timeout)

	var warn max2870.FrequencyWarning
	switch {
	case errors.As(err, &warn):
		slog.Warn("Programmed with residual error", "error_hz", warn.ErrorHz)
	case err != nil:
		slog.Error("Failed to set frequency", "error", err, "frequency", freq)
		os.Exit(1)
	}

	slog.Info("Frequency programmed",
		"requested", freq,
		"actual", dev.ReadCurrentFrequency(),
		"error_hz", dev.ReadFrequencyError(),
		"n", dev.ReadInt(),
		"frac", dev.ReadFraction(),
		"mod", dev.ReadMod(),
		"out_divider", dev.ReadOutDivider())

	if cfg.LockPin != "" {
		// give the loop a moment to settle before sampling lock detect
		time.Sleep(20 * time.Millisecond)
		locked, err := dev.Locked()
		if err != nil {
			slog.Error("Failed to read lock detect", "error", err)
			os.Exit(1)
		}
		slog.Info("Lock detect", "locked", locked)
	}
}
