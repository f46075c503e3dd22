package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/web-summarizer/internal/db"
	"github.com/dtnitsch/web-summarizer/internal/fetch"
	"github.com/dtnitsch/web-summarizer/internal/serve"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "web-summarizer",
		Usage: "Summarize web pages with an LLM and search past summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the YAML config file (optional)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Path to a .env file loaded before the config (optional)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Store backend: sqlite, mongo or memory",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (default: next to the binary)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default :5000)",
					},
					&cli.StringFlag{
						Name:  "base-path",
						Usage: "Prefix for the API routes, e.g. /api",
					},
				},
			},
			{
				Name:      "summarize",
				Usage:     "Fetch, summarize and store one or more URLs",
				ArgsUsage: "URL [URL...]",
				Action:    fetch.SummarizeAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "Number of concurrent workers",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "Output format: json or yaml",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Search stored summaries, newest first (at most 100)",
				Action: db.QueryAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "search",
						Usage: "Case-insensitive text in title, summary or key points",
					},
					&cli.StringFlag{
						Name:  "domain",
						Usage: "Case-insensitive text in the URL",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Earliest creation date, inclusive (2006-01-02 or RFC 3339)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Latest creation date, inclusive (2006-01-02 or RFC 3339)",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "Output format: json or yaml",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write results to this file instead of stdout",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
