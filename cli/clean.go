package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pipelinepage/pipelinepage/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached pages and minified assets from the output directory",
	ArgsUsage: "[variant|static (optional)]",
	Flags:     []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))
		target := config.OutputDir

		if c.Args().Len() > 0 {
			name := c.Args().Get(0)
			if name != "static" {
				v, err := core.ParseVariant(name)
				if err != nil {
					return err
				}
				name = string(v)
			}
			target = filepath.Join(config.OutputDir, name)
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		fmt.Println("🧹 Cleaning:", target)
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
