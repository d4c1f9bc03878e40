package sensor

import (
	"bytes"

	"github.com/markusressel/adl2go/cmd/global"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all sensors and their current, minimum and maximum values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := global.LoadOptionalConfig()

		var rows [][]string
		for _, g := range global.DetectGpus(config) {
			for _, sensor := range g.GetSensors() {
				rows = append(rows, []string{
					sensor.GetId().String(),
					sensor.GetName(),
					sensor.GetType().String(),
					global.FormatSensorValue(sensor),
					sensor.GetMin().String(),
					sensor.GetMax().String(),
				})
			}
		}
		if len(rows) <= 0 {
			ui.Warning("No sensors found")
			return
		}

		tab := table.Table{
			Headers: []string{"ID", "Name", "Type", "Value", "Min", "Max"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		if err := tab.WriteTable(&buf, global.TableConfig()); err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		ui.Printfln(buf.String())
	},
}

func init() {
	Command.AddCommand(listCmd)
}
