package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/convert"
	"github.com/fwojciec/postpdf/fs"
)

// Run executes the convert command. Every URL is attempted; the command
// fails if any conversion failed.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	renderer, ok := deps.Renderers[c.Format]
	if !ok {
		err := postpdf.Errorf(postpdf.EINVALID, "unsupported format %q", c.Format)
		fmt.Fprintf(deps.Stderr, "error: %s\n", postpdf.ErrorMessage(err))
		return err
	}
	writer := fs.NewWriter(c.Output)

	results, err := convert.ConvertAll(deps.Ctx, deps.Converter, c.URLs, c.Concurrency, convert.RetryDelays(c.Retries), deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", r.URL, postpdf.ErrorMessage(r.Err))
			continue
		}

		out, err := renderer.Render(deps.Ctx, r.Conversion)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", r.URL, postpdf.ErrorMessage(err))
			continue
		}

		path, err := writer.WriteOutput(deps.Ctx, out)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", r.URL, err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s (%s)\n", r.Conversion.Type(), path, formatBytes(len(out.Data)))
	}

	if failed > 0 {
		return errors.New(pluralize(failed, "conversion", "conversions") + " failed")
	}
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// formatBytes formats bytes in human-readable form.
func formatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
