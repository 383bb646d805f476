package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deskpilot/deskpilot/internal/dependency"
	"github.com/deskpilot/deskpilot/internal/tools"
)

var toolsFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the model can call",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsFormat, "format", "f", "yaml", "Output format: yaml or json")
}

// toolListing is the printed form of one registered tool.
type toolListing struct {
	Name        string   `json:"name" yaml:"name"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Parameters  any      `json:"parameters" yaml:"parameters"`
}

func runTools(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := dependency.NewRegistry(cfg)
	if err != nil {
		return err
	}
	return printTools(os.Stdout, reg, toolsFormat)
}

func printTools(w io.Writer, reg *tools.Registry, format string) error {
	aliases := map[string][]string{}
	for alias, target := range reg.Aliases() {
		aliases[target] = append(aliases[target], alias)
	}

	var listings []toolListing
	for _, d := range reg.Descriptors() {
		var params any
		if err := json.Unmarshal(d.Parameters, &params); err != nil {
			return fmt.Errorf("tool %s: parse parameters: %w", d.Name, err)
		}
		sort.Strings(aliases[d.Name])
		listings = append(listings, toolListing{
			Name:        d.Name,
			Aliases:     aliases[d.Name],
			Description: d.Description,
			Parameters:  params,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listings); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q: use yaml or json", format)
}
