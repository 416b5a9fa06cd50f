package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/pipelinepage/pipelinepage/core"
	"github.com/pipelinepage/pipelinepage/web"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every variant in dev and prod mode and verify its content",
	Flags: []cli.Flag{configFlag()},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		cacheDir, err := os.MkdirTemp("", "pipelinepage-check-")
		if err != nil {
			return fmt.Errorf("failed to create scratch dir: %w", err)
		}
		defer os.RemoveAll(cacheDir)

		var failed bool
		for _, env := range []string{"dev", "prod"} {
			renderer, err := core.NewRenderer(core.RendererOptions{
				Env:       env,
				CacheDir:  cacheDir,
				Templates: templatesFor(config),
				Static:    web.Static(),
			})
			if err != nil {
				fmt.Printf("❌ %s → parse error: %v\n", env, err)
				failed = true
				continue
			}

			for _, v := range core.Variants() {
				if err := checkVariant(renderer, v); err != nil {
					fmt.Printf("❌ %s/%s → %v\n", env, v, err)
					failed = true
					continue
				}
				fmt.Printf("✅ %s/%s\n", env, v)
			}
		}

		if failed {
			return cli.Exit("some variants failed to render", 1)
		}

		fmt.Println("✅ All variants validated successfully.")
		return nil
	},
}

func checkVariant(renderer *core.Renderer, v core.Variant) error {
	page, err := core.PageFor(v)
	if err != nil {
		return err
	}

	first, err := renderer.RenderBytes(v)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}
	if err := core.VerifyPage(first, page); err != nil {
		return err
	}

	second, err := renderer.RenderBytes(v)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}
	if string(first) != string(second) {
		return fmt.Errorf("output differs between renders")
	}

	return nil
}

func templatesFor(config core.Config) fs.FS {
	if config.TemplatesDir != "" {
		return os.DirFS(config.TemplatesDir)
	}
	return web.Templates()
}
