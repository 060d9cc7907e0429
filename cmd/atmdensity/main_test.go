package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/host"
	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig sets up a wasm-backed configuration in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "earthgram.wasm")
	require.NoError(t, os.WriteFile(wasmPath, testutil.ModelGuest, 0o600))

	cfg := "model:\n  backend: wasm\n  wasm_path: " + wasmPath +
		"\nreference:\n  dir: " + dir +
		"\nlog:\n  level: error\n"
	cfgPath := filepath.Join(dir, "atmdensity.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func TestEvalArguments(t *testing.T) {
	args := evalArguments([]string{"20", "-30.5", "1e2", "2019-01-25 14:30:00"})
	assert.Equal(t, []entities.Argument{
		entities.ScalarArgument(20),
		entities.ScalarArgument(-30.5),
		entities.ScalarArgument(100),
		entities.CharArgument("2019-01-25 14:30:00"),
	}, args)
}

func TestCmdEval(t *testing.T) {
	cfg := writeConfig(t)
	var stdout, stderr bytes.Buffer

	code := cmdEval([]string{"-config", cfg, "20", "30", "120", "2019-01-25 14:30:00"}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "0.0889\n", stdout.String())
}

func TestCmdEval_ValidationError(t *testing.T) {
	cfg := writeConfig(t)
	var stdout, stderr bytes.Buffer

	code := cmdEval([]string{"-config", cfg, "20", "30", "120"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error using get_atm_density\nFour inputs are required (got 3).")
}

func TestCmdEval_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, cmdEval(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage:")
}

func TestCmdEval_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model:\n  backend: fortran\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := cmdEval([]string{"-config", cfgPath, "20", "30", "120", "x"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "model.backend")
}

func TestCmdSchema(t *testing.T) {
	cfg := writeConfig(t)
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, cmdSchema([]string{"-config", cfg}, &stdout, &stderr), stderr.String())

	var doc struct {
		Signature entities.Signature `json:"signature"`
		Request   map[string]any     `json:"request_schema"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, "get_atm_density", doc.Signature.Name)
	assert.NotEmpty(t, doc.Request)
}

func TestCmdRun(t *testing.T) {
	cfg := writeConfig(t)
	modPath := filepath.Join(filepath.Dir(cfg), "empty.wasm")
	require.NoError(t, os.WriteFile(modPath, testutil.EmptyGuest, 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, cmdRun([]string{"-config", cfg, modPath, "--", "-lat", "30"}, &stdout, &stderr), stderr.String())
	assert.Equal(t, 1, cmdRun([]string{"-config", cfg, filepath.Join(t.TempDir(), "missing.wasm")}, &stdout, &stderr))
	assert.Equal(t, 2, cmdRun(nil, &stdout, &stderr))
}

// scriptedReader replays lines and then reports EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newTestRepl(t *testing.T) (*repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	loader := host.NewLoader(
		host.WithModelFactory(&testutil.FakeFactory{}),
		host.WithLoaderLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	env, err := loader.Build(ctx, &entities.Config{Reference: entities.ReferenceConfig{Dir: t.TempDir()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close(ctx) })

	var stdout, stderr bytes.Buffer
	return newRepl(env.Session, &stdout, &stderr), &stdout, &stderr
}

func TestRepl_Session(t *testing.T) {
	r, stdout, stderr := newTestRepl(t)
	ln := &scriptedReader{lines: []string{
		"h = 20;",
		"epoch = '2019-01-25 14:30:00';",
		"d = get_atm_density(h, 30,",
		"  120, epoch)",
		"get_atm_density(h, 30, 120)",
		"x = nope(1)",
		":who",
		":quit",
		"never read",
	}}

	r.loop(context.Background(), ln)

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "d = "), out)
	assert.Contains(t, out, "d  epoch  h")
	assert.Contains(t, stderr.String(), "Four inputs are required (got 3).")
	assert.Contains(t, stderr.String(), "Undefined function 'nope'.")
	assert.Contains(t, ln.prompts, promptCont)
	assert.Equal(t, []string{"never read"}, ln.lines)

	d, ok := r.vars["d"]
	require.True(t, ok)
	testutil.AssertPlausibleDensity(t, d.Real[0])
}

func TestRepl_AnsAndDisplay(t *testing.T) {
	r, stdout, _ := newTestRepl(t)
	ln := &scriptedReader{lines: []string{
		"get_atm_density(20, 30, 120, '2019-01-25 14:30:00')",
		"ans",
		"y = ans;",
		"y",
	}}

	r.loop(context.Background(), ln)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ans = "))
	assert.Equal(t, lines[0], lines[1])
	assert.Equal(t, strings.Replace(lines[0], "ans", "y", 1), lines[2])
}

func TestRepl_UnknownCommand(t *testing.T) {
	r, _, stderr := newTestRepl(t)
	r.loop(context.Background(), &scriptedReader{lines: []string{":frobnicate"}})
	assert.Contains(t, stderr.String(), "unknown command :frobnicate")
}
