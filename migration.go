package fixerconf

import (
	"fmt"

	"github.com/Azhovan/fixerconf/internal/normalize"
)

// Track is an independent axis of version-scoped rule tables.
type Track int

// Migration tracks. The zero Track is invalid.
const (
	TrackPHP Track = iota + 1
	TrackPHPUnit
)

// String returns the track identifier used in migration names and profiles.
func (t Track) String() string {
	switch t {
	case TrackPHP:
		return "php"
	case TrackPHPUnit:
		return "phpunit"
	default:
		return fmt.Sprintf("track(%d)", int(t))
	}
}

// Migration identifies one version step on a track.
// Only the exported values below can be expressed; the zero Migration is a no-op.
type Migration struct {
	track Track
	major int
	minor int
}

// Language migrations.
var (
	PHP56 = Migration{TrackPHP, 5, 6}
	PHP70 = Migration{TrackPHP, 7, 0}
	PHP71 = Migration{TrackPHP, 7, 1}
	PHP73 = Migration{TrackPHP, 7, 3}
	PHP74 = Migration{TrackPHP, 7, 4}
	PHP80 = Migration{TrackPHP, 8, 0}
	PHP81 = Migration{TrackPHP, 8, 1}
	PHP82 = Migration{TrackPHP, 8, 2}
	PHP83 = Migration{TrackPHP, 8, 3}
)

// Test framework migrations.
var (
	PHPUnit56  = Migration{TrackPHPUnit, 5, 6}
	PHPUnit57  = Migration{TrackPHPUnit, 5, 7}
	PHPUnit60  = Migration{TrackPHPUnit, 6, 0}
	PHPUnit75  = Migration{TrackPHPUnit, 7, 5}
	PHPUnit84  = Migration{TrackPHPUnit, 8, 4}
	PHPUnit100 = Migration{TrackPHPUnit, 10, 0}
)

// Migrations lists every known migration ordered by track then version.
func Migrations() []Migration {
	return []Migration{
		PHP56, PHP70, PHP71, PHP73, PHP74, PHP80, PHP81, PHP82, PHP83,
		PHPUnit56, PHPUnit57, PHPUnit60, PHPUnit75, PHPUnit84, PHPUnit100,
	}
}

// Track returns the migration's track.
func (m Migration) Track() Track {
	return m.track
}

// Version returns the version as "major.minor".
func (m Migration) Version() string {
	return fmt.Sprintf("%d.%d", m.major, m.minor)
}

// IsZero reports whether m is the zero Migration.
func (m Migration) IsZero() bool {
	return m == Migration{}
}

// String returns e.g. "php-8.3" or "phpunit-10.0".
func (m Migration) String() string {
	if m.IsZero() {
		return "none"
	}
	return m.track.String() + "-" + m.Version()
}

// Less orders migrations by track, then by version.
func (m Migration) Less(other Migration) bool {
	if m.track != other.track {
		return m.track < other.track
	}
	return m.atMost(other) && m != other
}

// atMost reports whether m is on other's track at or below other's version.
func (m Migration) atMost(other Migration) bool {
	if m.track != other.track {
		return false
	}
	if m.major != other.major {
		return m.major < other.major
	}
	return m.minor <= other.minor
}

// ParseMigration resolves a textual version on a track (e.g. "8.3", "83", "v8.3").
// Unknown versions are rejected with an *InvalidInputError.
func ParseMigration(track Track, version string) (Migration, error) {
	want := normalize.Version(version)
	for _, m := range Migrations() {
		if m.track == track && m.Version() == want {
			return m, nil
		}
	}
	return Migration{}, invalidInput("parse_migration", track.String()+"-"+version,
		ErrCodeUnknownMigration, "no rule table for this version", nil)
}

// ParseTrack resolves a track name ("php", "phpunit").
func ParseTrack(name string) (Track, error) {
	switch normalize.Key(name) {
	case "php":
		return TrackPHP, nil
	case "phpunit":
		return TrackPHPUnit, nil
	default:
		return 0, invalidInput("parse_track", name, ErrCodeUnknownMigration, "unknown migration track", nil)
	}
}
