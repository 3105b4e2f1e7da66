package fixerconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotConfig(t *testing.T) *Config {
	t.Helper()
	cfg := New("snap")
	require.NoError(t, cfg.AddRules(NewRuleSet(WithCatalog(testCatalog())).Risky().PHP70()))
	require.NoError(t, cfg.In(t.TempDir()))
	return cfg
}

func TestCreateSnapshot(t *testing.T) {
	cfg := newSnapshotConfig(t)

	before := time.Now().UTC()
	snapshot, err := CreateSnapshot(cfg)
	require.NoError(t, err)

	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.False(t, snapshot.Timestamp.Before(before))
	assert.Equal(t, "snap", snapshot.Name)
	assert.True(t, snapshot.RiskyAllowed)
	assert.Equal(t, cfg.Paths(), snapshot.Paths)
	assert.Equal(t, cfg.Rules().Rules(), snapshot.Rules.Rules())
	require.Len(t, snapshot.Provenance, snapshot.Rules.Len())
	assert.Equal(t, RuleProvenance{Rule: "php70_only", Source: "ruleset:php-7.0"}, snapshot.Provenance[3])
}

func TestCreateSnapshot_NilConfig(t *testing.T) {
	_, err := CreateSnapshot(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestCreateSnapshot_ExcludeRules(t *testing.T) {
	cfg := newSnapshotConfig(t)

	snapshot, err := CreateSnapshot(cfg, WithExcludeRules("YODA_STYLE", "php70_risky"))
	require.NoError(t, err)

	assert.Equal(t, []string{"array_syntax", "ordered_imports", "php70_only", "strict_comparison"}, snapshot.Rules.Keys())
	for _, p := range snapshot.Provenance {
		assert.NotEqual(t, "yoda_style", p.Rule)
	}
	assert.Equal(t, 6, cfg.Rules().Len(), "exclusions do not touch the config")
}

func TestWriteReadSnapshot(t *testing.T) {
	cfg := newSnapshotConfig(t)
	snapshot, err := CreateSnapshot(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "{{name}}-{{timestamp}}.json")
	require.NoError(t, WriteSnapshot(snapshot, path))

	expanded := snapshot.Path(path)
	assert.Contains(t, filepath.Base(expanded), "snap-")
	info, err := os.Stat(expanded)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(expanded))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	loaded, err := ReadSnapshot(expanded)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Name, loaded.Name)
	assert.Equal(t, snapshot.Paths, loaded.Paths)
	assert.Equal(t, snapshot.RiskyAllowed, loaded.RiskyAllowed)
	assert.Equal(t, snapshot.Rules.Rules(), loaded.Rules.Rules())
	assert.Equal(t, snapshot.Provenance, loaded.Provenance)
	assert.True(t, snapshot.Timestamp.Equal(loaded.Timestamp))
}

func TestReadSnapshot_ReplayIntoConfig(t *testing.T) {
	cfg := newSnapshotConfig(t)
	snapshot, err := CreateSnapshot(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, WriteSnapshot(snapshot, path))
	loaded, err := ReadSnapshot(path)
	require.NoError(t, err)

	replayed := New("replayed")
	require.NoError(t, replayed.AddRules(loaded))
	assert.True(t, replayed.RiskyAllowed())
	assert.Equal(t, cfg.Rules().Rules(), replayed.Rules().Rules())
}

func TestReadSnapshot_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "9.9", "rules": {}}`), 0600))

	_, err := ReadSnapshot(path)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadSnapshot_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": `), 0600))

	_, err := ReadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse snapshot")

	_, err = ReadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteSnapshot_Nil(t *testing.T) {
	assert.ErrorIs(t, WriteSnapshot(nil, "out.json"), ErrNilConfig)
}

func TestWriteReadSnapshot_MemoryFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	snapshot, err := CreateSnapshot(newSnapshotConfig(t))
	require.NoError(t, err)
	snapshot.Timestamp = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	require.NoError(t, WriteSnapshotFs(fsys, snapshot, "/snapshots/{{name}}-{{timestamp}}.json"))

	entries, err := afero.ReadDir(fsys, "/snapshots")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "snap-20260314-150926.json", entries[0].Name())

	loaded, err := ReadSnapshotFs(fsys, "/snapshots/snap-20260314-150926.json")
	require.NoError(t, err)
	assert.Equal(t, snapshot.Rules.Rules(), loaded.Rules.Rules())
	assert.Equal(t, snapshot.Provenance, loaded.Provenance)
}

func TestWriteSnapshot_OverwritesExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	snapshot, err := CreateSnapshot(newSnapshotConfig(t))
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/out/snap.json", []byte("stale"), 0600))
	require.NoError(t, WriteSnapshotFs(fsys, snapshot, "/out/{{name}}.json"))

	loaded, err := ReadSnapshotFs(fsys, "/out/snap.json")
	require.NoError(t, err)
	assert.Equal(t, "snap", loaded.Name)
}

func TestWriteSnapshot_ReadOnlyFs(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	snapshot, err := CreateSnapshot(newSnapshotConfig(t))
	require.NoError(t, err)

	assert.Error(t, WriteSnapshotFs(fsys, snapshot, "/out/snap.json"))
}

func TestExpandPath(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	assert.Equal(t, "snap-20260314-150926.json", ExpandPath("snap-{{timestamp}}.json", "default", ts))
	assert.Equal(t, "plain.json", ExpandPath("plain.json", "default", ts))
	assert.Equal(t, "rules/project-20260314-150926.json", ExpandPath("rules/{{name}}-{{timestamp}}.json", "project", ts))
	assert.Equal(t, "a-20260314-150926/b-20260314-150926", ExpandPath("a-{{timestamp}}/b-{{timestamp}}", "", ts))

	local := time.Date(2026, 3, 14, 16, 9, 26, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "20260314-150926", ExpandPath("{{timestamp}}", "", local))
}
