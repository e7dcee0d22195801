package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"salesdw/internal/config"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print any issues",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			issues := config.Validate(a.cfg)
			for _, iss := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return errors.New("configuration has errors")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config OK")
			return nil
		},
	}
}
