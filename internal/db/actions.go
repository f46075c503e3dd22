// Package db implements the query command over stored summaries.
package db

import (
	"fmt"
	"os"

	"github.com/dtnitsch/web-summarizer/internal/common"
	"github.com/dtnitsch/web-summarizer/pkg/storage"
	"github.com/urfave/cli/v2"
)

// QueryAction runs retrieval with the filter flags and prints or exports the
// matching summaries, newest first.
func QueryAction(c *cli.Context) error {
	format, err := resolveFormat(c)
	if err != nil {
		return err
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	svc, err := common.NewRetrieval(c.Context, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	records, err := svc.Retrieval.Search(c.Context, ParamsFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to query summaries: %w", err)
	}

	if out := c.String("output"); out != "" {
		if err := storage.SaveFile(out, records, format); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d summaries to %s\n", len(records), out)
		return nil
	}

	return storage.Encode(os.Stdout, records, format)
}
