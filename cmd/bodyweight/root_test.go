package bodyweight

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// resetFlags puts every flag back to its default; cobra keeps parsed values
// in package variables between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "routine") || !strings.Contains(out, "exercise") {
		t.Fatalf("expected help to list commands, got %s", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodyweight.db")
	for i := 0; i < 2; i++ {
		out, err := runCLI(t, "--config", filepath.Join(dir, "config.yaml"), "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, path) {
			t.Fatalf("expected db path in output, got %q", out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "config.yaml"), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "bodyweight dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	t.Setenv("BODYWEIGHT_API_URL", "")
	t.Setenv("BODYWEIGHT_DB", "")

	if _, err := runCLI(t, "--config", cfgPath, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCLI(t, "--config", cfgPath, "config", "init"); err == nil {
		t.Fatalf("expected second config init to refuse overwrite")
	}
	out, err := runCLI(t, "--config", cfgPath, "--api", "http://example.test", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "base_url: http://example.test") {
		t.Fatalf("expected flag override in effective config, got %s", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { _ = setLogLevel("") })
	if err := setLogLevel("debug"); err != nil {
		t.Fatalf("set debug: %v", err)
	}
	if !logLevel.Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug enabled, level %s", logLevel)
	}
	if err := setLogLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if logLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("failed parse changed level to %s", logLevel)
	}
	if err := setLogLevel(""); err != nil || logLevel.Level() != zapcore.WarnLevel {
		t.Fatalf("empty level should reset to warn, got %s (%v)", logLevel, err)
	}
}
