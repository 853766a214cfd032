package assoc

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/assocparse/ixgest/report"
	"github.com/teranos/assocparse/ixgest/types"
)

// HeaderPrefix marks comment and header lines
const HeaderPrefix = "!"

// versionKeys are the header keys that declare a format version,
// e.g. "!gaf-version: 2.2"
var versionKeys = map[string]types.Format{
	"gaf-version":  types.FormatGAF,
	"gpa-version":  types.FormatGPAD,
	"gpad-version": types.FormatGPAD,
}

// IsHeader reports whether line is a header or comment line
func IsHeader(line string) bool {
	return strings.HasPrefix(line, HeaderPrefix)
}

// parseVersionHeader extracts the declared version from a header line
func parseVersionHeader(line string) (key, version string, ok bool) {
	body := strings.TrimSpace(strings.TrimPrefix(line, HeaderPrefix))
	key, version, found := strings.Cut(body, ":")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if _, known := versionKeys[key]; !known {
		return "", "", false
	}
	return key, strings.TrimSpace(version), true
}

// checkVersionHeader records the declared version and warns when the
// decoder does not support it. It reports whether line declared a version.
func checkVersionHeader(line string, d Decoder, rpt *report.Report) bool {
	key, declared, ok := parseVersionHeader(line)
	if !ok {
		return false
	}
	rpt.SetFormatVersion(declared)

	if f := versionKeys[key]; f != d.Format() {
		rpt.Warning(line, report.UnsupportedVersion, declared,
			fmt.Sprintf("%s header in a %s file", key, d.Format()))
		return true
	}
	constraint := d.VersionConstraint()
	if constraint == "" {
		return true
	}

	v, err := semver.NewVersion(declared)
	if err != nil {
		rpt.Warning(line, report.UnsupportedVersion, declared, "not a version: "+err.Error())
		return true
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return true
	}
	if !c.Check(v) {
		rpt.Warning(line, report.UnsupportedVersion, declared,
			fmt.Sprintf("%s decoder supports %s", d.Format(), constraint))
	}
	return true
}
