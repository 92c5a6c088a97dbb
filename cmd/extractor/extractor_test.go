package extractor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const rulesTOML = `
logLevel = "ERROR"

[[resolver]]
name = "link"
type = "link"

[[flatten]]
field = "url"
path = ["link", "url"]

[[flatten]]
field = "title"
path = ["link", "label"]
`

const page = `<html><body>
<div><a href="https://example.com/1">One</a></div>
<div><a href="https://example.com/2">Two</a></div>
<div><a href="/relative">Three</a></div>
</body></html>`

func fixture(t *testing.T) (rulesPath, pagePath string) {
	t.Helper()
	dir := t.TempDir()
	rulesPath = filepath.Join(dir, "rules.toml")
	pagePath = filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(rulesPath, []byte(rulesTOML), 0o644))
	require.NoError(t, os.WriteFile(pagePath, []byte(page), 0o644))
	return rulesPath, pagePath
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExtract(t *testing.T) {
	rulesPath, pagePath := fixture(t)

	out, err := execute(t, NewExtractCmd(), "", "--rules", rulesPath, pagePath)
	require.NoError(t, err)
	assert.Equal(t,
		`{"link":{"text":"One","url":"https://example.com/1"}}`+"\n"+
			`{"link":{"text":"Two","url":"https://example.com/2"}}`+"\n",
		out)
}

func TestExtractFlatLimitStdin(t *testing.T) {
	rulesPath, _ := fixture(t)

	out, err := execute(t, NewExtractCmd(), page, "--rules", rulesPath, "--flat", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://example.com/1"}`+"\n", out)
}

func TestExtractYAML(t *testing.T) {
	rulesPath, pagePath := fixture(t)

	out, err := execute(t, NewExtractCmd(), "", "--rules", rulesPath, "--format", "yaml", pagePath, pagePath)
	require.NoError(t, err)

	dec := yaml.NewDecoder(strings.NewReader(out))
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	require.Len(t, docs, 4)
	assert.Equal(t, map[string]any{"link": map[string]any{"url": "https://example.com/2", "text": "Two"}}, docs[3])
}

func TestExtractErrors(t *testing.T) {
	rulesPath, pagePath := fixture(t)

	_, err := execute(t, NewExtractCmd(), "", "--rules", rulesPath, "--format", "xml", pagePath)
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, err = execute(t, NewExtractCmd(), "", "--rules", filepath.Join(t.TempDir(), "missing.toml"), pagePath)
	assert.Error(t, err)

	_, err = execute(t, NewExtractCmd(), "", "--rules", rulesPath, "--log-level", "shout", pagePath)
	assert.ErrorContains(t, err, "log level")

	_, err = execute(t, NewExtractCmd(), "", "--rules", rulesPath, filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestDebug(t *testing.T) {
	rulesPath, pagePath := fixture(t)

	out, err := execute(t, NewDebugCmd(), "", "--rules", rulesPath, "--at", "//a", pagePath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"element":"<a href=\"https://example.com/1\">One</a>"`)
	assert.Contains(t, lines[0], `"does_resolve":true`)
	assert.Contains(t, lines[2], `"does_resolve":false`)

	_, err = execute(t, NewDebugCmd(), "", "--rules", rulesPath, "--at", "//[", pagePath)
	assert.ErrorContains(t, err, "--at")
}
