package main

import (
	"github.com/spf13/cobra"
)

var localesIncludeSystem bool

func init() {
	cmd := newLocalesCmd()
	cmd.Flags().BoolVar(&localesIncludeSystem, "include-system", false, "Report locales of system indexes too")
	rootCmd.AddCommand(cmd)
}

func newLocalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales <index>",
		Short: "List the locales an index provides",
		Long: `The locales command lists the locale qualifiers used by any directory of
the index, whether or not the device locale would load it.

Example:
  resctl locales entry/resources.index
  resctl locales --system --include-system system/resources.index`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocales(args)
		},
	}
	return cmd
}

func runLocales(args []string) error {
	c, _, err := openIndex(newRegistry(), args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	locales := c.Locales(localesIncludeSystem)
	if jsonOut {
		if locales == nil {
			locales = []string{}
		}
		return printJSON(locales)
	}
	for _, l := range locales {
		printInfo("%s\n", l)
	}
	return nil
}
