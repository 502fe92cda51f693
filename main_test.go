package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duplicateManifest = `
runtime: example.com/app/rt
keys:
  - type: example.com/app/keys.NameKey
    unwrap: true
    members:
      - {name: Name, type: string}
modules:
  - path: example.com/app/handlers
    bindings:
      - member: ProvideA
        output: string
        into: map
        keys:
          - {type: example.com/app/keys.NameKey, values: {Name: a}}
      - member: ProvideB
        output: string
        into: map
        keys:
          - {type: example.com/app/keys.NameKey, values: {Name: a}}
components:
  - name: AppComponent
    package: example.com/app
    modules: [example.com/app/handlers]
    requests:
      - {method: Names, type: "map[string]string"}
`

func execute(t *testing.T, manifest string, args ...string) (string, string, error) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	path := filepath.Join(root, "multibind.yaml")
	writeFile(t, path, manifest)
	t.Chdir(root)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--manifest", path))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckCommand(t *testing.T) {
	_, stderr, err := execute(t, testManifest, "check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Check passed")
}

func TestCheckCommandReportsDiagnostics(t *testing.T) {
	_, stderr, err := execute(t, duplicateManifest, "check")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "multibind: map[string]string: The same map key is bound more than once\n    handlers.ProvideA()\n    handlers.ProvideB()")
}

func TestDryRun(t *testing.T) {
	stdout, _, err := execute(t, testManifest, "--dry-run", "--jobs", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "app_component_multibind.go ===")
	assert.Contains(t, stdout, "type AppComponentImpl struct {")
	assert.NotContains(t, stdout, "creators_multibind.go", "enum keys need no creator")
}

func TestRunRequiresRuntime(t *testing.T) {
	src := strings.Replace(testManifest, "runtime: example.com/app/rt\n", "", 1)
	_, stderr, err := execute(t, src, "check")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "multibind: runtime: no runtime package")
}

func TestRunRejectsLogFormat(t *testing.T) {
	_, _, err := execute(t, testManifest, "check", "--log-format", "xml")
	assert.EqualError(t, err, `invalid log format "xml"`)
}

func TestScanRequiresRuntime(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	t.Chdir(root)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check"})
	assert.ErrorIs(t, cmd.Execute(), ErrNoRuntime)
}
