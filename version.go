package cif

import (
	"github.com/blang/semver"

	"github.com/jbcif/cif/normalize"
)

// semver11 and semver20 give normalize.Version a comparable representation
// through SemVer and VersionFromSemVer. The scanner and the writer do not
// use them; they compare normalize.Version values directly.
var (
	semver11 = semver.MustParse("1.1.0")
	semver20 = semver.MustParse("2.0.0")
)

// SemVer returns v's semantic version.
func SemVer(v normalize.Version) semver.Version {
	if v == normalize.V2_0 {
		return semver20
	}
	return semver11
}

// VersionFromSemVer maps a semantic version back to the nearest
// normalize.Version, rounding down: anything before 2.0.0 is CIF 1.1.
func VersionFromSemVer(sv semver.Version) normalize.Version {
	if sv.GTE(semver20) {
		return normalize.V2_0
	}
	return normalize.V1_1
}
