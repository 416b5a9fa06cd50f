package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func writeTestConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pipelinepage.config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestCheckCommand_EmbeddedTemplates(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir(), "outputDir: ./out\n")

	app := &cli.App{Commands: []*cli.Command{CheckCommand}}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"pipelinepage", "check", "--config", configPath})
	})

	if runErr != nil {
		t.Fatalf("expected no error, got %v\n%s", runErr, output)
	}
	for _, want := range []string{"✅ dev/features", "✅ prod/tech-stack", "✅ prod/diagram", "All variants validated successfully."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestCheckCommand_ParseError(t *testing.T) {
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	_ = os.MkdirAll(templatesDir, 0755)
	_ = os.WriteFile(filepath.Join(templatesDir, "layout.html"), []byte(`{{ define "layout" }} {{ if }} {{ end }}`), 0644)

	configPath := writeTestConfig(t, dir, "templatesDir: "+templatesDir+"\n")

	app := &cli.App{
		Commands:       []*cli.Command{CheckCommand},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"pipelinepage", "check", "--config", configPath})
	})

	if runErr == nil {
		t.Fatal("expected check to fail")
	}
	if !strings.Contains(output, "parse error") {
		t.Errorf("expected parse error in output, got:\n%s", output)
	}
}

func TestCheckCommand_MissingContent(t *testing.T) {
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	_ = os.MkdirAll(templatesDir, 0755)
	_ = os.WriteFile(filepath.Join(templatesDir, "layout.html"), []byte(`{{ define "layout" }}<h1>{{ .Page.Title }}</h1>{{ end }}`), 0644)

	configPath := writeTestConfig(t, dir, "templatesDir: "+templatesDir+"\n")

	app := &cli.App{
		Commands:       []*cli.Command{CheckCommand},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	var runErr error
	output := captureOutput(func() {
		runErr = app.Run([]string{"pipelinepage", "check", "--config", configPath})
	})

	if runErr == nil {
		t.Fatal("expected check to fail on incomplete template")
	}
	if !strings.Contains(output, "❌ dev/features") {
		t.Errorf("expected failure marker, got:\n%s", output)
	}
}
