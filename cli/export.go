package cli

import (
	"fmt"

	"github.com/pipelinepage/pipelinepage/core"
	"github.com/pipelinepage/pipelinepage/web"
	"github.com/urfave/cli/v2"
)

var ExportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Render every variant and the static assets into a directory for a static file server",
	ArgsUsage: "[dir (default: dist)]",
	Flags:     []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		outDir := "dist"
		if c.Args().Len() > 0 {
			outDir = c.Args().Get(0)
		}

		fmt.Println("📦 Exporting to:", outDir)
		manifest, err := core.Export(core.ExportOptions{
			OutputDir:      outDir,
			DefaultVariant: config.Variant(),
			Templates:      templatesFor(config),
			Static:         web.Static(),
		})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		for _, p := range manifest.Pages {
			fmt.Printf("🔧 %s → %s (%d bytes)\n", p.Variant, p.Path, p.Bytes)
		}
		fmt.Printf("✅ Exported %d pages and %d assets (build %s).\n", len(manifest.Pages), len(manifest.Assets), manifest.BuildID)
		return nil
	},
}
