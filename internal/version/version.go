// Package version holds build metadata for the sysyc binary. The variables
// can be overridden at build time via -ldflags.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

var (
	Version    = "0.1.0"
	GitCommit  = ""
	BuildDate  = ""
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Semver parses Version. A malformed -ldflags value is reported, not
// papered over.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("version: invalid build version %q: %w", Version, err)
	}
	return v, nil
}

// Banner renders "sysyc 0.1.0 (commit, date)" with each version component
// colored when colorize is set.
func Banner(colorize bool) string {
	ver := Version
	if v, err := Semver(); err == nil && colorize {
		ver = paint(majorColor, v.Major()) + "." + paint(minorColor, v.Minor()) + "." + paint(patchColor, v.Patch())
		if pre := v.Prerelease(); pre != "" {
			ver += "-" + pre
		}
	}
	var extra []string
	if GitCommit != "" {
		extra = append(extra, GitCommit)
	}
	if BuildDate != "" {
		extra = append(extra, BuildDate)
	}
	if len(extra) == 0 {
		return "sysyc " + ver
	}
	return fmt.Sprintf("sysyc %s (%s)", ver, strings.Join(extra, ", "))
}

func paint(c *color.Color, n uint64) string {
	cp := *c
	cp.EnableColor()
	return cp.Sprint(n)
}
