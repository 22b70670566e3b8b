package commands

import (
	"github.com/spf13/cobra"

	"github.com/Flogas0833/synchronization-problems/internal/version"
)

func GetVersionString() string {
	return version.Revision
}

// NewVersionCmd returns the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version of the syncprobs CLI",
		Run: func(cc *cobra.Command, _ []string) {
			cc.Println(GetVersionString())
		},
	}
}
