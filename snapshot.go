package fixerconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("fixerconf: snapshot exceeds 100MB size limit")

	// ErrNilConfig is returned when CreateSnapshot receives a nil config.
	ErrNilConfig = errors.New("fixerconf: config is nil")

	// ErrUnsupportedVersion is returned when reading a snapshot with unknown version.
	ErrUnsupportedVersion = errors.New("fixerconf: unsupported snapshot version")
)

// supportedVersions lists snapshot format versions that can be read.
var supportedVersions = map[string]bool{
	"1.0": true,
}

// ConfigSnapshot is a point-in-time capture of what the host tool receives.
type ConfigSnapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	Name         string   `json:"name"`
	Paths        []string `json:"paths"`
	RiskyAllowed bool     `json:"risky_allowed"`

	// Rules holds the flattened rules in rule order.
	Rules *RuleMap `json:"rules"`

	// Provenance tracks the source of each rule.
	Provenance []RuleProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	excludeRules []string
}

// WithExcludeRules leaves the named rules out of the snapshot.
// Matching is case-insensitive.
func WithExcludeRules(names ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.excludeRules = append(cfg.excludeRules, names...)
	}
}

// CreateSnapshot captures the configuration state.
// The snapshot's Timestamp is captured at creation time.
func CreateSnapshot(cfg *Config, opts ...SnapshotOption) (*ConfigSnapshot, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}

	rules := applyExclusions(cfg.Rules(), snapCfg.excludeRules)

	var provenance []RuleProvenance
	for _, r := range cfg.Provenance().Rules {
		if _, ok := rules.Get(r.Rule); ok {
			provenance = append(provenance, r)
		}
	}

	return &ConfigSnapshot{
		Version:      SnapshotVersion,
		Timestamp:    time.Now().UTC(),
		Name:         cfg.Name(),
		Paths:        cfg.Paths(),
		RiskyAllowed: cfg.RiskyAllowed(),
		Rules:        rules,
		Provenance:   provenance,
	}, nil
}

// RuleMap implements RuleSource, so a stored snapshot can be replayed into a Config.
func (s *ConfigSnapshot) RuleMap() (*RuleMap, error) {
	return s.Rules.RuleMap()
}

// IsRisky implements RiskyAware.
func (s *ConfigSnapshot) IsRisky() bool {
	return s.RiskyAllowed
}

// applyExclusions removes excluded rule names from rules.
func applyExclusions(rules *RuleMap, exclude []string) *RuleMap {
	if len(exclude) == 0 {
		return rules
	}

	excludeSet := make(map[string]bool)
	for _, name := range exclude {
		excludeSet[strings.ToLower(name)] = true
	}

	for _, name := range rules.Keys() {
		if excludeSet[strings.ToLower(name)] {
			rules.Delete(name)
		}
	}
	return rules
}

// timestampLayout formats {{timestamp}} in snapshot paths.
const timestampLayout = "20060102-150405"

// Path expands the template variables of pathTemplate for this snapshot:
// {{name}} becomes the config name and {{timestamp}} the snapshot time.
func (s *ConfigSnapshot) Path(pathTemplate string) string {
	return ExpandPath(pathTemplate, s.Name, s.Timestamp)
}

// ExpandPath replaces {{name}} with name and {{timestamp}} with t in UTC,
// formatted as 20060102-150405.
func ExpandPath(pathTemplate, name string, t time.Time) string {
	return strings.NewReplacer(
		"{{name}}", name,
		"{{timestamp}}", t.UTC().Format(timestampLayout),
	).Replace(pathTemplate)
}

// WriteSnapshot writes snapshot as JSON to the operating system filesystem.
// See WriteSnapshotFs.
func WriteSnapshot(snapshot *ConfigSnapshot, pathTemplate string) error {
	return WriteSnapshotFs(afero.NewOsFs(), snapshot, pathTemplate)
}

// WriteSnapshotFs writes snapshot as JSON to the path produced by
// snapshot.Path(pathTemplate). The file is written to a temporary file
// in the same directory and renamed into place, so readers never see a
// partial snapshot. The file mode is 0600.
// Returns ErrSnapshotTooLarge if the encoded snapshot exceeds MaxSnapshotSize.
func WriteSnapshotFs(fsys afero.Fs, snapshot *ConfigSnapshot, pathTemplate string) error {
	if snapshot == nil {
		return ErrNilConfig
	}

	target := snapshot.Path(pathTemplate)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snapshot.Name, err)
	}
	if len(data) > MaxSnapshotSize {
		return ErrSnapshotTooLarge
	}

	dir := filepath.Dir(target)
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary snapshot: %w", err)
	}
	tmpName := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", target, err)
	}
	if err := fsys.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", target, err)
	}
	if err := fsys.Rename(tmpName, target); err != nil {
		return fmt.Errorf("write snapshot %s: %w", target, err)
	}
	renamed = true

	return nil
}

// ReadSnapshot loads a snapshot from the operating system filesystem.
// See ReadSnapshotFs.
func ReadSnapshot(path string) (*ConfigSnapshot, error) {
	return ReadSnapshotFs(afero.NewOsFs(), path)
}

// ReadSnapshotFs loads a snapshot written by WriteSnapshotFs.
// Returns ErrUnsupportedVersion for unknown format versions.
func ReadSnapshotFs(fsys afero.Fs, path string) (*ConfigSnapshot, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	var snapshot ConfigSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	if !supportedVersions[snapshot.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snapshot.Version)
	}
	if snapshot.Rules == nil {
		snapshot.Rules = NewRuleMap()
	}

	return &snapshot, nil
}
