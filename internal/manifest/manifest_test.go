package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeManifest(t *testing.T, path, abi string, regions []RegionDescriptor) {
	t.Helper()

	m := Manifest{ABI: abi, Regions: regions}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadParsesRegionsAndABI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.json")

	writeManifest(t, path, ">=1.0.0, <2.0.0", []RegionDescriptor{
		{Name: "sram0", Size: 16384},
		{Name: "sram1", Size: 8192},
	})

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.ABI != ">=1.0.0, <2.0.0" {
		t.Errorf("ABI = %q", m.ABI)
	}

	if len(m.Regions) != 2 || m.Regions[0].Size != 16384 || m.Regions[1].Size != 8192 {
		t.Errorf("Regions = %+v", m.Regions)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load of a missing file succeeded, want error")
	}
}

func TestLoadInvalidJSONFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.json")

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load of invalid JSON succeeded, want error")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.json")

	writeManifest(t, path, "", []RegionDescriptor{{Name: "sram0", Size: 4096}})

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if len(w.Current().Regions) != 1 {
		t.Fatalf("initial Current() has %d regions, want 1", len(w.Current().Regions))
	}

	writeManifest(t, path, "", []RegionDescriptor{
		{Name: "sram0", Size: 4096},
		{Name: "sram1", Size: 2048},
	})

	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload notification")
	}

	if len(w.Current().Regions) != 2 {
		t.Fatalf("reloaded Current() has %d regions, want 2", len(w.Current().Regions))
	}
}
