package others

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projecteru2/bollard/version"
)

type Handler struct{}

func (h Handler) Version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), version.String())
	return err
}
