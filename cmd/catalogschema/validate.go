package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	catalogschema "github.com/reoring/catalogschema"
	"github.com/reoring/catalogschema/internal/validate"
)

func newValidateCommand() *cobra.Command {
	var schemas, root string
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate catalog files against generated schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := validate.NewDir(schemas)
			if err != nil {
				return err
			}
			err = v.ValidateFiles(root, args...)
			errs := multierr.Errors(err)
			for _, e := range errs {
				for _, line := range validate.Describe(e) {
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d file(s) invalid", len(errs), len(args))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) valid\n", len(args))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemas, "schemas", ".", "directory of generated schemas")
	cmd.Flags().StringVar(&root, "root", catalogschema.CollectionFile, "schema document to validate against")
	return cmd
}
