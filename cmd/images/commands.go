package images

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/projecteru2/bollard/columns"
)

// Actions organizes image subcommands.
type Actions interface {
	List(cmd *cobra.Command, args []string) error
	Remove(cmd *cobra.Command, args []string) error
}

// Commands builds the image command set.
func Commands(h Actions) []*cobra.Command {
	imageCmd := &cobra.Command{
		Use:     "image",
		Aliases: []string{"images", "img"},
		Short:   "Manage images with selectors",
	}

	listCmd := &cobra.Command{
		Use:     "ls [SELECTOR...]",
		Aliases: []string{"list"},
		Short:   "List images",
		Long: `List images.

A selector is a glob pattern on the repository registry, name or tag
(e.g. "public.ecr.aws/*", "nginx", ":stable"), or a hex value matched
against image IDs and digests. "~N" keeps only the first N rows.
Multiple selectors are AND-ed.

Columns: ` + strings.Join(columns.Choices(), ", "),
		RunE: h.List,
	}
	listCmd.Flags().StringArrayP("column", "C", nil, "show column (repeatable)")
	listCmd.Flags().String("order-by", "", "order output by COLUMN; prefix with - for descending order")
	listCmd.Flags().BoolP("all", "a", false, "show intermediate images")
	listCmd.Flags().StringArrayP("filter", "f", nil, "filter output based on conditions provided (name=value)")
	listCmd.Flags().Bool("digests", false, "show digests")
	listCmd.Flags().Bool("no-trunc", false, "don't truncate output")
	listCmd.Flags().BoolP("quiet", "q", false, "only show image IDs")

	removeCmd := &cobra.Command{
		Use:     "rm SELECTOR [SELECTOR...]",
		Aliases: []string{"remove", "rmi"},
		Short:   "Remove one or more images",
		Long: `Remove one or more images.

Selectors follow the same grammar as "image ls"; multiple selectors are OR-ed.
Matching images are shown first and only removed with --yes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: h.Remove,
	}
	removeCmd.Flags().BoolP("yes", "y", false, "proceed with removal without confirmation")
	removeCmd.Flags().Bool("force", false, "force removal of the image")

	imageCmd.AddCommand(listCmd, removeCmd)
	return []*cobra.Command{imageCmd}
}
