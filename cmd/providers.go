package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/llm"
)

//nolint:gochecknoglobals // Cobra boilerplate
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers in failover order",
	Long: `List the provider table in the order generate will try it, with the model,
wire format, credential variable and where the key would come from
(env, default, or none). Keys are never printed.

Example:
  resume-builder providers
  resume-builder providers --config ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var registry *llm.Registry
	registry, err = cfg.Registry()
	if err != nil {
		return err
	}

	fmt.Printf("%-3s %-12s %-36s %-10s %-20s %s\n", "#", "NAME", "MODEL", "FORMAT", "KEY VARIABLE", "CREDENTIAL")
	for i, p := range registry.Order(cfg.PreferredProvider) {
		_, source := p.Credential("", os.Getenv)
		fmt.Printf("%-3d %-12s %-36s %-10s %-20s %s\n", i+1, p.Name, p.Model, p.Format, p.EnvVar(), source)
		if getVerbose() {
			fmt.Printf("    %s\n", p.Endpoint)
		}
	}

	return err
}
