// Package fetch implements the summarize command: fetch and summarize one or
// more URLs and print the stored records.
package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/web-summarizer/internal/common"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func SummarizeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one URL is required")
	}
	urls := c.Args().Slice()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(cfg.Log, nil)
	startTime := time.Now()

	svc, err := common.NewServices(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, runErr := run(c.Context, logger, svc.Summarizer, urls, c.Int("workers"))

	output := buildOutput(urls, results)
	output.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	var data []byte
	switch c.String("format") {
	case "yaml":
		data, err = yaml.Marshal(output)
	default:
		data, err = json.MarshalIndent(output, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))

	return runErr
}
