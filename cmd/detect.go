package cmd

import (
	"bytes"
	"fmt"

	"github.com/markusressel/adl2go/cmd/global"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all ATI adapters and prints their sensors as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		config := global.LoadOptionalConfig()

		gpus := global.DetectGpus(config)
		if len(gpus) <= 0 {
			ui.Warning("No ATI adapters found")
			return
		}

		for idx, g := range gpus {
			if idx > 0 {
				ui.Printfln("")
			}
			ui.Printfln("> %s (%s, bus %d, device %d)", g.GetName(), g.GetId(), g.BusNumber(), g.DeviceNumber())

			var rows [][]string
			for _, sensor := range g.GetSensors() {
				rows = append(rows, []string{
					sensor.GetId().String(), sensor.GetName(), sensor.GetType().String(), global.FormatSensorValue(sensor),
				})
			}

			fanControl := g.FanControl()
			rows = append(rows, []string{
				fanControl.GetId().String(), "Fan Control", fanControl.ControlMode().String(), formatRange(fanControl.MinSoftwareValue(), fanControl.MaxSoftwareValue()),
			})

			tab := table.Table{
				Headers: []string{"ID", "Name", "Type", "Value"},
				Rows:    rows,
			}
			var buf bytes.Buffer
			if err := tab.WriteTable(&buf, global.TableConfig()); err != nil {
				ui.Fatal("Error printing table: %v", err)
			}
			ui.Printfln(buf.String())
		}
	},
}

func formatRange(min float64, max float64) string {
	return fmt.Sprintf("%.0f..%.0f %%", min, max)
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
