package verdict

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamwrona/verdict/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default verdict.yaml to the working directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault("verdict.yaml"); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote verdict.yaml")
		return nil
	},
}
