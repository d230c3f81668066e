// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package netconfig implements a networking FFI contract: an opaque
// handle describing the parties in a multi-party computation and how to
// reach them, resolved path -> environment -> fallback, plus a sorted,
// deduplicated party-ID Communicator that re-validates before handing a
// party list to the transport layer.
package netconfig

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// EnvVar is the environment variable Resolve checks when no explicit path
// is given. Its value is itself a path to a config file, not inline YAML.
const EnvVar = "HECORE_NET_CONFIG"

// PartyID identifies one participant in a multi-party protocol run.
type PartyID uint32

// Party is one entry of a Config's party list.
type Party struct {
	ID      PartyID `yaml:"id"`
	Address string  `yaml:"address"`
}

// Config is the parsed contents of a network configuration file: who the
// parties are, how to reach them, and which one the local process is.
type Config struct {
	Parties []Party `yaml:"parties"`
	Self    PartyID `yaml:"self"`
}

// Read parses a config file at path.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netconfig: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("netconfig: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("netconfig: %s: %w", path, err)
	}
	return &cfg, nil
}

// ReadEnv parses the config file named by EnvVar, if set.
func ReadEnv() (*Config, bool, error) {
	path, ok := os.LookupEnv(EnvVar)
	if !ok || path == "" {
		return nil, false, nil
	}
	cfg, err := Read(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Fallback returns the single-party loopback configuration used when
// neither an explicit path nor EnvVar is available.
func Fallback() *Config {
	return &Config{Parties: []Party{{ID: 0, Address: "127.0.0.1:0"}}, Self: 0}
}

// Resolve implements the path -> environment -> fallback resolution order:
// if path is non-empty it is read directly; otherwise ReadEnv is
// consulted; otherwise Fallback is returned.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Read(path)
	}
	if cfg, found, err := ReadEnv(); found {
		return cfg, err
	}
	return Fallback(), nil
}

func (c *Config) validate() error {
	seen := make(map[PartyID]bool, len(c.Parties))
	for _, p := range c.Parties {
		if seen[p.ID] {
			return fmt.Errorf("duplicate party id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if !seen[c.Self] {
		return fmt.Errorf("self party id %d not present in party list", c.Self)
	}
	return nil
}

// Communicator is a sorted, deduplicated list of party IDs, the form the
// transport layer's FFI boundary requires.
type Communicator struct {
	ids []PartyID
}

// NewCommunicator sorts and deduplicates ids into a Communicator.
func NewCommunicator(ids []PartyID) Communicator {
	sorted := make([]PartyID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return Communicator{ids: out}
}

// FromConfig builds a Communicator from every party in cfg.
func FromConfig(cfg *Config) Communicator {
	ids := make([]PartyID, len(cfg.Parties))
	for i, p := range cfg.Parties {
		ids[i] = p.ID
	}
	return NewCommunicator(ids)
}

// IDs returns a defensive copy of the sorted, deduplicated party list.
func (c Communicator) IDs() []PartyID {
	out := make([]PartyID, len(c.ids))
	copy(out, c.ids)
	return out
}

// Size reports the number of distinct parties.
func (c Communicator) Size() int { return len(c.ids) }

// ToFFI validates that the party list is sorted and duplicate-free before
// handing it across the transport boundary: a Communicator built via
// NewCommunicator always satisfies this, but ToFFI re-checks any
// Communicator built or mutated by other means.
func (c Communicator) ToFFI() ([]uint32, error) {
	out := make([]uint32, len(c.ids))
	for i, id := range c.ids {
		out[i] = uint32(id)
		if i > 0 && c.ids[i-1] >= id {
			return nil, fmt.Errorf("netconfig: party ids not sorted/unique at index %d", i)
		}
	}
	return out, nil
}
