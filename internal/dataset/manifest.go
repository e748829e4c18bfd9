package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name used when a manifest is persisted next to
// the images.
const ManifestFile = "manifest.yaml"

// Entry records what happened to one logical image.
type Entry struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Mode  string `yaml:"mode"`
	Bytes int64  `yaml:"bytes"`
	Error string `yaml:"error,omitempty"`
}

// OK reports whether the file was written.
func (e Entry) OK() bool { return e.Error == "" }

// Manifest is the ordered record of a generation run.
type Manifest struct {
	RunID      string  `yaml:"run_id"`
	Dir        string  `yaml:"dir"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Format     string  `yaml:"format"`
	Seed       uint64  `yaml:"seed"`
	Entries    []Entry `yaml:"entries"`
	TotalBytes int64   `yaml:"total_bytes"`
}

func (m *Manifest) add(e Entry) {
	m.Entries = append(m.Entries, e)
	m.TotalBytes += e.Bytes
}

// Written returns the entries whose files were written.
func (m *Manifest) Written() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns the entries that could not be written.
func (m *Manifest) Failed() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the entry with the given logical name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("cannot encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse manifest: %w", err)
	}
	return &m, nil
}
