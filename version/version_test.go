package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.2.0", GitHash: "0123456789abcdef"}, "v1.2.0-0123456"},
		{Info{Version: "v1.2.0", GitHash: "abc"}, "v1.2.0-abc"},
		{Info{Version: "v1.2.0", GitHash: "None"}, "v1.2.0"},
		{Info{Version: "v1.2.0"}, "v1.2.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.String())
	}
}

func TestPrinterUsesLinkerValues(t *testing.T) {
	defer func(v, h, b string) { Version, GitHash, GitBranch = v, h, b }(Version, GitHash, GitBranch)
	Version, GitHash, GitBranch = "v9.9.9", "feedfacecafe", "main"

	var buf bytes.Buffer
	Printer(&buf)
	assert.Contains(t, buf.String(), "v9.9.9-feedfac")
	assert.Contains(t, buf.String(), "main")
}
