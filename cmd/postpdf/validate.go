package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/postpdf"
)

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	normalized := postpdf.Normalize(c.URL)
	classification := postpdf.Classify(normalized)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(classification); err != nil {
			return err
		}
		return classification.Err()
	}

	if err := classification.Err(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postpdf.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, normalized)
	fmt.Fprintf(deps.Stdout, "  type: %s\n", classification.Type)
	if classification.Username != "" {
		fmt.Fprintf(deps.Stdout, "  username: %s\n", classification.Username)
	}
	if classification.PostID != "" {
		fmt.Fprintf(deps.Stdout, "  post: %s\n", classification.PostID)
	}
	if classification.NeedsThreadCheck {
		fmt.Fprintln(deps.Stdout, "  may be a thread")
	}
	return nil
}
