package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func runClean(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	app := &cli.App{Commands: []*cli.Command{CleanCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run(append([]string{"pipelinepage", "clean", "--config", configPath}, args...))
	})
	return output, runErr
}

func TestCleanCommand_CleansOutputDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	_ = os.MkdirAll(filepath.Join(outDir, "features"), 0755)
	_ = os.WriteFile(filepath.Join(outDir, "features", "index.html"), []byte("cached!"), 0644)

	configPath := writeTestConfig(t, dir, "outputDir: "+outDir+"\n")

	if _, err := runClean(t, configPath); err != nil {
		t.Fatalf("clean command failed: %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("expected output dir to be deleted")
	}
}

func TestCleanCommand_CleansSingleVariant(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	for _, v := range []string{"features", "diagram"} {
		_ = os.MkdirAll(filepath.Join(outDir, v), 0755)
		_ = os.WriteFile(filepath.Join(outDir, v, "index.html"), []byte(v), 0644)
	}

	configPath := writeTestConfig(t, dir, "outputDir: "+outDir+"\n")

	if _, err := runClean(t, configPath, "diagram"); err != nil {
		t.Fatalf("clean command failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "diagram")); !os.IsNotExist(err) {
		t.Errorf("expected diagram cache to be deleted")
	}
	if _, err := os.Stat(filepath.Join(outDir, "features", "index.html")); err != nil {
		t.Errorf("expected features cache to remain: %v", err)
	}
}

func TestCleanCommand_RejectsUnknownVariant(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "outputDir: "+filepath.Join(dir, "out")+"\n")

	_, err := runClean(t, configPath, "../etc")
	if err == nil || !strings.Contains(err.Error(), "unknown variant") {
		t.Errorf("expected unknown variant error, got %v", err)
	}
}

func TestCleanCommand_NothingToClean(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "outputDir: "+filepath.Join(dir, "missing")+"\n")

	output, err := runClean(t, configPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(output, "Nothing to clean") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestCleanCommand_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out")
	_ = os.WriteFile(outFile, []byte("not a dir"), 0644)

	configPath := writeTestConfig(t, dir, "outputDir: "+outFile+"\n")

	_, err := runClean(t, configPath)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("expected not a directory error, got %v", err)
	}
}
