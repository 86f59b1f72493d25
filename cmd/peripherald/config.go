package main

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/blekit/peripheral"
)

// Config is the daemon's YAML configuration.
type Config struct {
	ServiceName          string `yaml:"service_name" default:"peripherald"`
	AdvertisingName      string `yaml:"advertising_name"`
	AdvertisingShortName string `yaml:"advertising_short_name"`
	Controller           uint16 `yaml:"controller"`

	Discoverable        string `yaml:"discoverable" default:"general"` // off, general, limited
	DiscoverableTimeout uint16 `yaml:"discoverable_timeout"`           // seconds, limited mode only
	SecureConnections   uint8  `yaml:"secure_connections" default:"1"`

	InitTimeoutMS int `yaml:"init_timeout_ms" default:"30000"`
	SettleDelayMS int `yaml:"settle_delay_ms" default:"200"`

	Advertise AdvertiseConfig `yaml:"advertise"`
}

// AdvertiseConfig describes the raw advertising payload to broadcast.
type AdvertiseConfig struct {
	ServiceUUIDs     []string `yaml:"service_uuids"`
	ManufacturerID   uint16   `yaml:"manufacturer_id"`
	ManufacturerData string   `yaml:"manufacturer_data"` // hex
	IncludeName      bool     `yaml:"include_name" default:"true"`
}

func loadConfig(path string) (*Config, error) {
	cfg := new(Config)
	defaults.SetDefaults(cfg)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	if cfg.AdvertisingName == "" {
		cfg.AdvertisingName = cfg.ServiceName
	}
	return cfg, nil
}

func (c *Config) discoverableMode() (uint8, error) {
	switch c.Discoverable {
	case "off":
		return 0x00, nil
	case "general", "":
		return 0x01, nil
	case "limited":
		return 0x02, nil
	}
	return 0, errors.Errorf("invalid discoverable mode %q (must be off, general or limited)", c.Discoverable)
}

// buildAdvertising renders the advertising and scan-response payloads.
// Flags and service UUIDs go in the advertising packet; the name rides
// in the scan response where it does not compete for the 31 bytes.
func (c *Config) buildAdvertising() (adv, rsp []byte, err error) {
	var a peripheral.AdvPacket
	a.AppendFlags(peripheral.FlagGeneralDiscoverable | peripheral.FlagLEOnly)

	var uu []peripheral.UUID
	for _, s := range c.Advertise.ServiceUUIDs {
		u, err := peripheral.ParseUUID(s)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "service UUID %q", s)
		}
		uu = append(uu, u)
	}
	a.AppendUUIDFit(uu)

	if c.Advertise.ManufacturerData != "" {
		b, err := hex.DecodeString(c.Advertise.ManufacturerData)
		if err != nil {
			return nil, nil, errors.Wrap(err, "manufacturer data")
		}
		a.AppendManufacturerData(c.Advertise.ManufacturerID, b)
	}

	var r peripheral.AdvPacket
	if c.Advertise.IncludeName {
		r.AppendName(c.AdvertisingName)
	}
	return a.Bytes(), r.Bytes(), nil
}

func (c *Config) initTimeout() time.Duration {
	return time.Duration(c.InitTimeoutMS) * time.Millisecond
}

func (c *Config) settleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}
