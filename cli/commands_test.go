package cli

import (
	"testing"

	"github.com/pipelinepage/pipelinepage"
	"github.com/urfave/cli/v2"
)

var recordedConfig *pipelinepage.RuntimeConfig

func mockStart(cfg pipelinepage.RuntimeConfig) error {
	recordedConfig = &cfg
	return nil
}

func useMockStart(t *testing.T) {
	original := pipelinepage.Start
	pipelinepage.Start = mockStart
	t.Cleanup(func() {
		pipelinepage.Start = original
		recordedConfig = nil
	})
}

func TestDevCommand_UsesDevConfig(t *testing.T) {
	useMockStart(t)

	app := &cli.App{Commands: []*cli.Command{DevCommand}}
	if err := app.Run([]string{"pipelinepage", "dev"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}
	if recordedConfig.Env != "dev" || recordedConfig.EnableCache || recordedConfig.Port != 8080 {
		t.Errorf("unexpected dev config: %+v", recordedConfig)
	}
	if recordedConfig.ConfigPath != "pipelinepage.config.yml" {
		t.Errorf("unexpected config path: %q", recordedConfig.ConfigPath)
	}
}

func TestProdCommand_UsesProdConfig(t *testing.T) {
	useMockStart(t)

	app := &cli.App{Commands: []*cli.Command{ProdCommand}}
	if err := app.Run([]string{"pipelinepage", "prod", "--port", "9090", "--config", "site.yml"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}
	if recordedConfig.Env != "prod" || !recordedConfig.EnableCache || recordedConfig.Port != 9090 {
		t.Errorf("unexpected prod config: %+v", recordedConfig)
	}
	if recordedConfig.ConfigPath != "site.yml" {
		t.Errorf("unexpected config path: %q", recordedConfig.ConfigPath)
	}
}

func TestProdCommand_PortFromEnvironment(t *testing.T) {
	useMockStart(t)
	t.Setenv("PIPELINEPAGE_PORT", "7070")

	app := &cli.App{Commands: []*cli.Command{ProdCommand}}
	if err := app.Run([]string{"pipelinepage", "prod"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if recordedConfig == nil || recordedConfig.Port != 7070 {
		t.Errorf("expected port from environment, got %+v", recordedConfig)
	}
}
