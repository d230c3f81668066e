// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package netconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, yaml string) string {
	t.Helper()
	path := filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestReadValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
self: 1
parties:
  - id: 0
    address: "10.0.0.1:9000"
  - id: 1
    address: "10.0.0.2:9000"
`)
	cfg, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, PartyID(1), cfg.Self)
	require.Len(t, cfg.Parties, 2)
}

func TestReadRejectsDuplicateIDs(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
self: 0
parties:
  - id: 0
    address: "a"
  - id: 0
    address: "b"
`)
	_, err := Read(path)
	require.Error(t, err)
}

func TestResolveOrderPathThenEnvThenFallback(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, Fallback(), cfg)

	dir := t.TempDir()
	path := writeConfig(t, dir, "self: 0\nparties:\n  - id: 0\n    address: x\n")
	t.Setenv(EnvVar, path)
	fromEnv, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, PartyID(0), fromEnv.Self)

	explicit := writeConfig(t, dir, "self: 7\nparties:\n  - id: 7\n    address: y\n")
	fromPath, err := Resolve(explicit)
	require.NoError(t, err)
	require.Equal(t, PartyID(7), fromPath.Self)
}

func TestCommunicatorSortsAndDedups(t *testing.T) {
	c := NewCommunicator([]PartyID{5, 1, 3, 1, 5})
	require.Equal(t, []PartyID{1, 3, 5}, c.IDs())
	require.Equal(t, 3, c.Size())

	ffi, err := c.ToFFI()
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 3, 5}, ffi)
}
