// Package version reports build metadata. Values come from -ldflags
// ("-X github.com/wenzapen/harvest/version.Version=v1.0.0") and fall back to
// the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
	Version   = "None"
)

type Info struct {
	Version   string
	GitHash   string
	GitBranch string
	BuildTS   string
}

func Get() Info {
	info := Info{Version: Version, GitHash: GitHash, GitBranch: GitBranch, BuildTS: BuildTS}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "None" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitHash == "None" {
				info.GitHash = s.Value
			}
		case "vcs.time":
			if info.BuildTS == "None" {
				info.BuildTS = s.Value
			}
		}
	}
	return info
}

// String is the version with the short commit hash appended.
func (i Info) String() string {
	h := i.GitHash
	if h == "" || h == "None" {
		return i.Version
	}
	if len(h) > 7 {
		h = h[:7]
	}
	return fmt.Sprintf("%s-%s", i.Version, h)
}

func Printer(w io.Writer) {
	info := Get()
	fmt.Fprintln(w, "Version:          ", info)
	fmt.Fprintln(w, "Git Branch:       ", info.GitBranch)
	fmt.Fprintln(w, "Git Hash:         ", info.GitHash)
	fmt.Fprintln(w, "Build Time (UTC): ", info.BuildTS)
}
