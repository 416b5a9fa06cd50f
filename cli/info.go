package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipelinepage/pipelinepage/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, variants and cache summary",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("⭐ Default Variant:", config.Variant())
		if config.TemplatesDir != "" {
			fmt.Println("🧩 Templates Directory:", config.TemplatesDir)
		}
		fmt.Println()

		names := make([]string, 0, len(core.Variants()))
		for _, v := range core.Variants() {
			names = append(names, string(v))
		}

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				cacheCount++
			}
			return nil
		})

		fmt.Println("🗂️  Variants:", strings.Join(names, ", "))
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}
