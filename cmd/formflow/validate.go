package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check form structure files for structural problems",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			if err := validateFile(path); err != nil {
				failed++
				fmt.Fprintf(out, "FAIL %s\n%v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "ok   %s\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) invalid", failed, len(args))
		}
		return nil
	},
}

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	structure, err := loader.ParseStructure(data, path)
	if err != nil {
		return err
	}
	return structure.Validate()
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
