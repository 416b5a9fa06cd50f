package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestInfoCommand_PrintsSummary(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	_ = os.MkdirAll(filepath.Join(outDir, "features"), 0755)
	_ = os.WriteFile(filepath.Join(outDir, "features", "index.html"), []byte("<html>cached</html>"), 0644)
	_ = os.WriteFile(filepath.Join(outDir, "features", "index.html.gz"), []byte("gz"), 0644)

	configPath := writeTestConfig(t, dir, "outputDir: "+outDir+"\ncache: true\ndebugHeaders: true\ndefaultVariant: diagram\n")

	app := &cli.App{Commands: []*cli.Command{InfoCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"pipelinepage", "info", "--config", configPath})
	})

	if runErr != nil {
		t.Fatalf("info command failed: %v", runErr)
	}

	for _, want := range []string{
		"Output Directory: " + outDir,
		"Cache Enabled: true",
		"Debug Headers Enabled: true",
		"Default Variant: diagram",
		"Variants: features, tech-stack, diagram",
		"Cached Pages: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestInfoCommand_Defaults(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{InfoCommand}}

	output := captureOutput(func() {
		_ = app.Run([]string{"pipelinepage", "info", "--config", filepath.Join(t.TempDir(), "missing.yml")})
	})

	if !strings.Contains(output, "Output Directory: ./cache") || !strings.Contains(output, "Default Variant: features") {
		t.Errorf("unexpected default output:\n%s", output)
	}
}
