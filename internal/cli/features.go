package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semtree/pkg/feature"
)

// featuresCommand lists the feature flags of the rule table.
func (c *CLI) featuresCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the feature flags that shape converted trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := feature.Rules()
			if asJSON {
				type row struct {
					Name        string `json:"name"`
					Bit         uint32 `json:"bit"`
					Description string `json:"description"`
				}
				out := make([]row, len(rules))
				for i, r := range rules {
					out[i] = row{r.Name, uint32(r.Flag), r.Description}
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, len(rules))
			for i, r := range rules {
				rows[i] = []string{strconv.Itoa(int(r.Flag)), r.Name, r.Description}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Bit", "Name", "Description"}, rows))
			printNextStep("Combine flags", appName+" convert <source> --features collapse-intermediate,forget-relation-node")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// variantsCommand lists the registered variants.
func (c *CLI) variantsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the conversion variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			variants := reg.All()
			if asJSON {
				return writeJSON(cmd, variants)
			}

			rows := make([][]string, len(variants))
			for i, v := range variants {
				rels := make([]string, len(v.Relations))
				for j, r := range v.Relations {
					rels[j] = string(r)
				}
				rows[i] = []string{
					v.Name,
					v.Features.String(),
					strconv.Itoa(v.MaxRecurse),
					strconv.Itoa(v.MaxLinks),
					strconv.Itoa(v.BranchThreshold),
					strings.Join(rels, ", "),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Features", "Recurse", "Links", "Threshold", "Relations"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
