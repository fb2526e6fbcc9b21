package others

import "github.com/spf13/cobra"

// Actions defines cross-cutting system operations.
type Actions interface {
	Version(cmd *cobra.Command, args []string) error
}

// Commands builds system command set.
func Commands(h Actions) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "version",
			Short: "Show version, git revision, and build timestamp",
			Args:  cobra.NoArgs,
			RunE:  h.Version,
		},
	}
}
