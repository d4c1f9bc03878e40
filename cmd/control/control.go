package control

import (
	"fmt"
	"strings"

	"github.com/markusressel/adl2go/cmd/global"
	"github.com/markusressel/adl2go/internal/api"
	controls "github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var controlIdSuffix = identifier.Separator + controls.IdSuffix

var controlId string

// Command reads and modifies the persisted state of a control.
// A running daemon is not affected, changes apply on its next start.
var Command = &cobra.Command{
	Use:              "control",
	Short:            "Control related commands",
	Long:             `Prints the persisted state of the control with the given id`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		c, _, err := getControl(controlId)
		if err != nil {
			return err
		}
		printControl(c)
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&controlId,
		"id", "i",
		"",
		"Control ID as printed by 'adl2go detect'",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getControl(id string) (*controls.Control, settings.Settings, error) {
	sensorId, err := parseSensorId(id)
	if err != nil {
		return nil, nil, err
	}

	config := global.LoadOptionalConfig()
	store := global.OpenSettings(config)
	// the range of the hardware is unknown without the daemon
	return controls.NewControl(sensorId, store, 0, 100), store, nil
}

// parseSensorId returns the identifier of the sensor carrying the control with the given id
func parseSensorId(id string) (identifier.Identifier, error) {
	if !strings.HasSuffix(id, controlIdSuffix) {
		return identifier.Identifier{}, fmt.Errorf("invalid control id: %s, must end with '%s'", id, controlIdSuffix)
	}
	return identifier.Parse(strings.TrimSuffix(id, controlIdSuffix)), nil
}

func update(c *controls.Control, mode string, value *float64) error {
	return api.ApplyControlUpdate(c, api.ControlUpdate{
		Mode:  &mode,
		Value: value,
	})
}

func printControl(c *controls.Control) {
	fmt.Printf("mode: %s\n", c.ControlMode())
	fmt.Printf("software value: %s\n", formatFloat(c.SoftwareValue()))
	fmt.Printf("desired value: %s\n", c.DesiredValue())
}

func formatFloat(value float64) string {
	return fmt.Sprintf("%g", value)
}
