package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newQualifiersCmd())
}

func newQualifiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qualifiers <index>",
		Short: "List the qualifier directories loaded for the device",
		Long: `The qualifiers command lists the qualifier directories of the index that
were loaded for the device configuration. v2 indexes list every directory;
v1 indexes only those the device locale selects unless --load-all is set.

Example:
  resctl qualifiers entry/resources.index --locale zh-CN
  resctl qualifiers entry/resources.index --load-all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQualifiers(args)
		},
	}
	return cmd
}

func runQualifiers(args []string) error {
	c, _, err := openIndex(newRegistry(), args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	qualifiers := c.Qualifiers()
	if jsonOut {
		return printJSON(qualifiers)
	}
	for _, q := range qualifiers {
		printInfo("%s\n", q)
	}
	return nil
}
