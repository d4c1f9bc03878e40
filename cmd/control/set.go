package control

import (
	"fmt"
	"strconv"

	"github.com/markusressel/adl2go/internal/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a software value and switch the control to software mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil || !util.IsFinite(value) {
			return fmt.Errorf("invalid value: %s", args[0])
		}

		c, _, err := getControl(controlId)
		if err != nil {
			return err
		}
		if value < c.MinSoftwareValue() || value > c.MaxSoftwareValue() {
			return fmt.Errorf("value %s is out of range %s..%s", args[0], formatFloat(c.MinSoftwareValue()), formatFloat(c.MaxSoftwareValue()))
		}

		c.SetSoftware(value)
		printControl(c)
		return nil
	},
}

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Hand the control back to the hardware default behavior",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMode("default")
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the configured curve drive the control",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMode("auto")
	},
}

func setMode(mode string) error {
	pterm.DisableOutput()

	c, _, err := getControl(controlId)
	if err != nil {
		return err
	}
	if err = update(c, mode, nil); err != nil {
		return err
	}
	printControl(c)
	return nil
}

func init() {
	Command.AddCommand(setCmd)
	Command.AddCommand(defaultCmd)
	Command.AddCommand(autoCmd)
}
