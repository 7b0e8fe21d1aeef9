// Copyright 2021 JD Fergason
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

// program is the name reported by "pvcombo version"
const program = "pvcombo"

var (
	// commitHash and buildDate are set through -ldflags by the mage Build target. Plain
	// go builds fall back to the VCS stamp the toolchain records.
	commitHash string
	buildDate  string
)

// Version is a SemVer 2.0.0 build version
type Version struct {
	Major int
	Minor int
	Patch int

	// Suffix marks pre-release builds, e.g. "dev"; it is blank for releases
	Suffix string
}

func (v Version) String() string {
	res := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return res
	}

	res += "-" + v.Suffix
	if rev := revision(); rev != "" {
		res += "+" + strings.ToLower(rev)
	}
	return res
}

// GetDependencyList returns the modules pvcombo was built with, sorted, in the form
// path="version"
func GetDependencyList() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		mod := dep
		if dep.Replace != nil {
			mod = dep.Replace
		}
		deps = append(deps, fmt.Sprintf("%s=%q", mod.Path, mod.Version))
	}

	sort.Strings(deps)
	return deps
}

// BuildVersionString is the text printed by "pvcombo version"
func BuildVersionString() string {
	date := buildDate
	if date == "" {
		date = buildSetting("vcs.time")
	}
	if date == "" {
		date = "unknown"
	}

	commit := revision()
	if commit == "" {
		commit = "unknown"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s v%s %s/%s\n\n", program, CurrentVersion, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "Build Date: %s\n", date)
	fmt.Fprintf(&sb, "Commit: %s\n", commit)
	fmt.Fprintf(&sb, "Built with: %s\n", runtime.Version())

	if deps := GetDependencyList(); len(deps) != 0 {
		sb.WriteString("\nDependencies:\n\n")
		sb.WriteString(strings.Join(deps, "\n"))
	}

	return sb.String()
}

func revision() string {
	if commitHash != "" {
		return commitHash
	}

	rev := buildSetting("vcs.revision")
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return rev
}

func buildSetting(key string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range bi.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
