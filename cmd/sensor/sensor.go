package sensor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/markusressel/adl2go/cmd/global"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sensorId string

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Sensor related commands",
	Long:             `Prints the current value of the sensor with the given id`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sensorId) <= 0 {
			return errors.New("missing sensor id, use 'adl2go sensor list' to show all sensors")
		}
		pterm.DisableOutput()

		sensor, err := getSensor(sensorId)
		if err != nil {
			return err
		}

		value, ok := sensor.GetValue().Get()
		if !ok {
			return fmt.Errorf("sensor %s has no value", sensorId)
		}
		fmt.Print(strconv.FormatFloat(value, 'f', -1, 64))
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID as printed by 'adl2go detect'",
	)
}

func getSensor(id string) (*sensors.Sensor, error) {
	config := global.LoadOptionalConfig()
	global.DetectGpus(config)

	sensor, ok := sensors.GetSensor(id)
	if !ok {
		return nil, fmt.Errorf("no sensor with id found: %s", id)
	}
	return sensor, nil
}
