// Package version holds the build version and semver helpers.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set at build time with -ldflags "-X .../version.Version=v1.2.3".
var Version = "dev"

// ClientName prefixes the X-Client-Info header sent by the CLI.
const ClientName = "fitpass-cli"

// ClientInfo is the X-Client-Info value of this build.
func ClientInfo() string {
	return ClientName + "/" + Version
}

// ParseClientInfo extracts the version of a fitpass-cli/<version> header.
func ParseClientInfo(header string) (string, bool) {
	name, v, ok := strings.Cut(strings.TrimSpace(header), "/")
	if !ok || name != ClientName || v == "" {
		return "", false
	}
	return v, true
}

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Older reports whether version is a valid release below minimum. Dev
// builds and unparsable versions are never considered older.
func Older(version, minimum string) bool {
	v, m := Normalize(version), Normalize(minimum)
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return false
	}
	return semver.Compare(v, m) < 0
}
