package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskpilot/deskpilot/internal/config"
	"github.com/deskpilot/deskpilot/internal/providers"
	"github.com/deskpilot/deskpilot/internal/shared/cmdutils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show deskpilot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	fmt.Printf("%s deskpilot Status\n\n", cmdutils.Logo)

	_, statErr := os.Stat(cfgPath)
	fmt.Printf("Config:    %s %s\n", cfgPath, cmdutils.Mark(statErr == nil))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	model := cfg.Agents.Defaults.Model
	fmt.Printf("Model:     %s\n", model)
	if name := cfg.GetProviderName(model); name != "" {
		fmt.Printf("Provider:  %s (%s)\n", providers.FindByName(name).Label(), cfg.GetAPIBase(model))
	} else {
		fmt.Printf("Provider:  %s\n", cmdutils.NotSet())
	}
	fmt.Printf("Rounds:    %d tool rounds per turn\n\n", cfg.Agents.Defaults.MaxToolIter)

	fmt.Println("Providers:")
	for _, spec := range providers.Providers {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		label := spec.Label()
		switch {
		case spec.IsLocal && p.APIBase != "":
			fmt.Printf("  %-20s %s %s\n", label, cmdutils.Mark(true), p.APIBase)
		case p.APIKey != "":
			fmt.Printf("  %-20s %s\n", label, cmdutils.Mark(true))
		default:
			fmt.Printf("  %-20s %s\n", label, cmdutils.NotSet())
		}
	}

	fmt.Println("\nTools:")
	asana := cfg.Tools.Asana
	fmt.Printf("  %-20s token %s  project %s\n", "Asana", cmdutils.Mark(asana.AccessToken != ""), cmdutils.Mark(asana.ProjectID != ""))
	printDriveStatus(cfg)
	return nil
}

func printDriveStatus(cfg *config.Config) {
	d := cfg.Tools.Drive
	if d.CredentialsFile == "" {
		fmt.Printf("  %-20s application default credentials\n", "Google Drive")
		return
	}
	_, err := os.Stat(d.CredentialsFile)
	fmt.Printf("  %-20s %s %s\n", "Google Drive", d.CredentialsFile, cmdutils.Mark(err == nil))
	if d.TokenFile != "" {
		_, err := os.Stat(d.TokenFile)
		fmt.Printf("  %-20s %s %s\n", "  token", d.TokenFile, cmdutils.Mark(err == nil))
	}
}
