package commands

import (
	"github.com/urfave/cli/v2"
)

// NewApp assembles the pdfdigest command line application.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "pdfdigest",
		Usage: "Summarize PDF documents and extract keywords",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"PDFDIGEST_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "json or text",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch, analyse and store every PDF in a manifest",
				Action: RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "manifest file (.json, .yaml or .html)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "base URL for relative links in an HTML manifest",
					},
				},
			},
			{
				Name:   "show",
				Usage:  "Print the newest stored record for a URL",
				Action: ShowAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "document URL",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "Print the most recently stored records",
				Action: ListAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of records",
						Value: 20,
					},
				},
			},
		},
	}
}
