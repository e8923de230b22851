package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/commerce-backend/config"
	"gopkg.in/yaml.v3"
)

// writeConfig prints the redacted record in the requested format.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	redacted := cfg.Redacted()

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(redacted); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(redacted); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
