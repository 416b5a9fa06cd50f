package main

import (
	"log"
	"os"

	ppcli "github.com/pipelinepage/pipelinepage/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "pipelinepage",
		Usage: "Serve, check and export the pipeline demo page",
		Commands: []*clilib.Command{
			ppcli.InitCommand,
			ppcli.DevCommand,
			ppcli.ProdCommand,
			ppcli.ExportCommand,
			ppcli.CleanCommand,
			ppcli.CheckCommand,
			ppcli.InfoCommand,
		},
	}

	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
