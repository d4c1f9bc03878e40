package control

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get/Set the persisted mode of a control",
	Long:  `Accepts one of 'software', 'default', 'auto' or the numeric mode`,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		c, _, err := getControl(controlId)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			if err = update(c, args[0], nil); err != nil {
				return err
			}
		}

		fmt.Printf("%s (%d)", c.ControlMode(), int(c.ControlMode()))
		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
