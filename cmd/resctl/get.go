package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resource"
)

var (
	getType string
	getAll  bool
)

func init() {
	cmd := newGetCmd()
	cmd.Flags().StringVarP(&getType, "type", "t", "string", "Resource type when looking up by name")
	cmd.Flags().BoolVar(&getAll, "all", false, "List every variant instead of the best match")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <index> <id|name>",
		Short: "Resolve a resource for the device configuration",
		Long: `The get command resolves a resource by numeric id (decimal or 0x hex) or
by name and type, and prints the variant that best fits the device.

Example:
  resctl get entry/resources.index app_name --locale zh-CN
  resctl get entry/resources.index 0x01000000 --color-mode dark
  resctl get entry/resources.index bg --type color --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

type variantOut struct {
	ID        uint32   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Qualifier string   `json:"qualifier"`
	Value     string   `json:"value,omitempty"`
	Values    []string `json:"values,omitempty"`
}

func runGet(args []string) error {
	c, cfg, err := openIndex(newRegistry(), args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	var set resource.VariantSet
	if id, ok := parseID(args[1]); ok {
		set, err = c.Variants(id)
	} else {
		t, ok := types.ParseResType(getType)
		if !ok {
			return fmt.Errorf("unknown resource type %q", getType)
		}
		set, err = c.VariantsByName(args[1], t)
	}
	if errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("resource %s not found in %s", args[1], args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[1], err)
	}

	if !getAll {
		best := set.Best(cfg, 0)
		if best == nil {
			return fmt.Errorf("no variant of %s matches %s", args[1], cfg)
		}
		set = resource.VariantSet{best}
	}
	out := make([]variantOut, 0, len(set))
	for _, v := range set {
		it, err := v.Item()
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[1], err)
		}
		out = append(out, variantOut{
			ID:        it.ID,
			Name:      it.Name,
			Type:      it.Type.String(),
			Qualifier: v.Config().String(),
			Value:     it.Value,
			Values:    it.Values,
		})
	}

	if jsonOut {
		return printJSON(out)
	}
	for _, o := range out {
		if getAll {
			printInfo("[%s] ", o.Qualifier)
		}
		if o.Values != nil {
			printInfo("%s\n", strings.Join(o.Values, ", "))
		} else {
			printInfo("%s\n", o.Value)
		}
		printVerbose("  id=0x%08x name=%s type=%s qualifier=%s\n", o.ID, o.Name, o.Type, o.Qualifier)
	}
	return nil
}

func parseID(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
