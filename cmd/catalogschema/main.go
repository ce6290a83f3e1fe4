// Command catalogschema derives JSON Schema documents from annotated catalog
// model classes and validates catalog files against them.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/catalogschema/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogschema",
		Short:         "Derive JSON Schema documents from catalog model classes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCommand(), newValidateCommand(), newConfigSchemaCommand())
	return root
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := config.JSONSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(b, '\n'))
			return err
		},
	}
}
