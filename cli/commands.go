package cli

import (
	"github.com/pipelinepage/pipelinepage"
	"github.com/pipelinepage/pipelinepage/core"

	"github.com/urfave/cli/v2"
)

const defaultPort = 8080

// Flags are built per command; urfave/cli writes parsed env values back
// into the flag struct.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the YAML config file",
		Value:   core.DefaultConfigPath,
	}
}

func portFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "HTTP port",
		Value:   defaultPort,
		EnvVars: []string{"PIPELINEPAGE_PORT"},
	}
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Serve the page in dev mode (no caching, live reload)",
	Flags: []cli.Flag{configFlag(), portFlag()},
	Action: func(c *cli.Context) error {
		return pipelinepage.Start(pipelinepage.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Serve the page in production mode (caching on by default)",
	Flags: []cli.Flag{configFlag(), portFlag()},
	Action: func(c *cli.Context) error {
		return pipelinepage.Start(pipelinepage.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
	},
}
