package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/asset"
)

const counterSource = `using UnityEngine;

public int Count = 0;
Transform Child;

void Update()
{
    Count++;
}
`

const testConfig = `[compiler]
trace_level = "off"

[catalog]
cache = false
`

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes a fresh command tree against a temp project.
func runCLI(t *testing.T, dir string, args ...string) cliResult {
	t.Helper()
	cfg := filepath.Join(dir, "udonc.toml")
	if _, err := os.Stat(cfg); os.IsNotExist(err) {
		require.NoError(t, os.WriteFile(cfg, []byte(testConfig), 0o600))
	}

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color", "off", "--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestCompileWritesAsset(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Counter.cs", counterSource)

	res := runCLI(t, dir, "compile", "--ui", "off", src)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "2 node(s)")
	assert.Contains(t, res.stdout, "Counter.cs.asset")

	data, err := os.ReadFile(src + ".asset")
	require.NoError(t, err)
	doc, err := asset.Decode(data, asset.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Counter", doc.GraphData.Name)
	require.Len(t, doc.GraphData.Nodes, 2)
	assert.Equal(t, "Variable_SystemInt32", doc.GraphData.Nodes[0].FullName)
	assert.Equal(t, "Variable_UnityEngineTransform", doc.GraphData.Nodes[1].FullName)
}

func TestCompileDirectoryJSONDryRun(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "Scripts/A.cs", counterSource)
	writeSource(t, dir, "Scripts/Nested/B.cs", "public float Speed;\n")

	res := runCLI(t, dir, "compile", "--ui", "off", "--dry-run", "--format", "json", filepath.Join(dir, "Scripts"))
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "A.cs: 2 node(s)")
	assert.Contains(t, res.stdout, "B.cs: 1 node(s)")
	assert.NotContains(t, res.stdout, "->")

	_, err := os.Stat(filepath.Join(dir, "Scripts", "A.cs.asset"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "Good.cs", counterSource)
	bad := writeSource(t, dir, "Bad.cs", "public Missing value;\n")

	res := runCLI(t, dir, "compile", "--ui", "off", good, bad)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 2 file(s) failed")
	assert.Contains(t, res.stderr, "Missing")

	_, err := os.Stat(good + ".asset")
	assert.NoError(t, err)
	_, err = os.Stat(bad + ".asset")
	assert.True(t, os.IsNotExist(err))
}

func TestCompileRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Counter.cs", counterSource)

	res := runCLI(t, dir, "compile", "--ui", "sometimes", src)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid --ui value")

	res = runCLI(t, dir, "compile", "--ui", "off", filepath.Join(dir, "nope.cs"))
	require.Error(t, res.err)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	res = runCLI(t, dir, "compile", "--ui", "off", empty)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "no .cs files found")
}

func TestTokenizeJSON(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "One.cs", "int x;\n")

	res := runCLI(t, dir, "tokenize", "--format", "json", src)
	require.NoError(t, res.err, res.stderr)
	var tokens []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &tokens))
	assert.NotEmpty(t, tokens)
}

func TestParseLineDiagnostics(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Bad.cs", "public Missing value;\n")

	res := runCLI(t, dir, "parse", "--diag-format", "line", src)
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "SEM3001")
}

func TestParseTree(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "One.cs", "int x;\n")

	res := runCLI(t, dir, "parse", "--tree", src)
	require.NoError(t, res.err, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "NODE >"))
	assert.Contains(t, res.stdout, "int x;")
}

func TestCatalogLookupAndList(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, dir, "catalog", "lookup", "Variable_SystemInt32")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "fullName: Variable_SystemInt32")

	res = runCLI(t, dir, "catalog", "lookup", "Variable_Nope")
	require.Error(t, res.err)

	res = runCLI(t, dir, "catalog", "list", "--format", "json", "--prefix", "Variable_UnityEngine")
	require.NoError(t, res.err, res.stderr)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e["fullName"].(string), "Variable_UnityEngine"))
	}
}

func TestRefsListsBuiltin(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, dir, "refs")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "mscorlib")
	assert.Contains(t, res.stdout, "UnityEngine.CoreModule")
}

func TestVersionJSON(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, dir, "version", "--format", "json")
	require.NoError(t, res.err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.Equal(t, "udonc", payload["tool"])
	assert.NotEmpty(t, payload["version"])
}

func TestReadUIMode(t *testing.T) {
	mode, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, mode)
	mode, err = readUIMode("")
	require.NoError(t, err)
	assert.Equal(t, uiModeAuto, mode)
	_, err = readUIMode("maybe")
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.True(t, uiModeOn.enabled(&buf))
	assert.False(t, uiModeOff.enabled(&buf))
	assert.False(t, uiModeAuto.enabled(&buf), "a buffer is not a terminal")
}

func TestUseProgressUI(t *testing.T) {
	cmd := newCompileCmd()
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Flags().Set("ui", "on"))

	on, err := useProgressUI(cmd, false)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = useProgressUI(cmd, true)
	require.NoError(t, err)
	assert.False(t, on, "tracing disables the progress view")

	require.NoError(t, cmd.Flags().Set("ui", "sometimes"))
	_, err = useProgressUI(cmd, false)
	assert.Error(t, err)
}

func TestMemProfileFlag(t *testing.T) {
	dir := t.TempDir()
	mem := filepath.Join(dir, "mem.pprof")
	res := runCLI(t, dir, "--mem-profile", mem, "refs")
	require.NoError(t, res.err, res.stderr)
	_, err := os.Stat(mem)
	assert.NoError(t, err)
}
