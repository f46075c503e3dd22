package db

import (
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ParamsFromFlags reads the retrieval filter flags. Unset flags stay empty.
func ParamsFromFlags(c *cli.Context) filter.Params {
	return filter.Params{
		Search:   c.String("search"),
		Domain:   c.String("domain"),
		FromDate: c.String("from"),
		ToDate:   c.String("to"),
	}
}

// resolveFormat uses --format when given, otherwise the --output extension.
func resolveFormat(c *cli.Context) (storage.Format, error) {
	if c.IsSet("format") {
		return storage.ParseFormat(c.String("format"))
	}
	if out := c.String("output"); out != "" {
		return storage.FormatFromPath(out), nil
	}
	return storage.FormatJSON, nil
}
