package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/resume-builder/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a config file with every setting at its default, including the stock
provider table. Edit it to reorder providers, change models, or add your own
OpenAI or Anthropic compatible endpoints. Existing files are never overwritten.

Example:
  resume-builder init
  resume-builder init --config ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Config written to %s\n", path)
	fmt.Println("  API keys are read from the environment (GROQ_API_KEY, TOGETHER_API_KEY, OPENAI_API_KEY) or a .env file.")

	return err
}
