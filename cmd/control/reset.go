package control

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the persisted state of a control",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		c, store, err := getControl(controlId)
		if err != nil {
			return err
		}
		for _, suffix := range []string{"mode", "value"} {
			store.Remove(c.GetId().Child(suffix).String())
		}
		fmt.Printf("Persisted state of %s removed", c.GetId())
		return nil
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
