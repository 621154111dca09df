package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/menubook/internal/menu"
	"github.com/csheth/menubook/internal/tuitest"
)

func TestViewJumpsToCategory(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	fixture := filepath.Join(cmdDir, "testdata", "menu.yaml")
	if _, err := os.Stat(fixture); err != nil {
		t.Fatalf("fixture missing: %v", err)
	}

	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "view", fixture, "--no-alt-screen", "--config", filepath.Join(t.TempDir(), "none.yaml")},
		Dir:     cmdDir,
		Width:   100,
		Height:  30,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Type("3"),
			tuitest.Wait(1500 * time.Millisecond),
			tuitest.Type("q"),
		},
		Timeout: 8 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	if _, ok := rec.FinalFrame(); !ok {
		t.Fatalf("no frames captured")
	}
	for _, want := range []string{"Harbour Cafe", "page 1/6", "page 5/6", "Lemonade"} {
		if !rec.Contains(want) {
			t.Fatalf("expected %q on screen at some point", want)
		}
	}
}

func TestSectionsCommand(t *testing.T) {
	out, err := execute(t, "sections", filepath.Join(moduleDir(t), "testdata", "menu.yaml"))
	if err != nil {
		t.Fatalf("sections error = %v", err)
	}
	for _, want := range []string{"Harbour Cafe (6 pages)", "1. Starters", "p.3", "3. Drinks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("sections output missing %q:\n%s", want, out)
		}
	}
}

func TestExportWorkbook(t *testing.T) {
	target := filepath.Join(t.TempDir(), "menu.xlsx")
	out, err := execute(t, "export", filepath.Join(moduleDir(t), "testdata", "menu.yaml"), "--out", target)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(out, "Exported 5 items") {
		t.Fatalf("unexpected output %q", out)
	}
	m, err := menu.LoadWorkbook(target)
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	if m.Profile.Name != "Harbour Cafe" || len(m.Items) != 5 {
		t.Fatalf("unexpected workbook contents %#v", m)
	}

	if _, err := execute(t, "export", filepath.Join(moduleDir(t), "testdata", "menu.yaml"), "--out", filepath.Join(t.TempDir(), "menu.csv")); err == nil {
		t.Fatalf("expected unsupported output to fail")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil || strings.TrimSpace(out) != "menubook dev" {
		t.Fatalf("version = %q, %v", out, err)
	}
}

// execute runs the root command in-process with a config path that does
// not exist, so only defaults apply.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	t.Cleanup(func() {
		exportOut = ""
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "menubook-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
