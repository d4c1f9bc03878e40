package curve

import (
	"bytes"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/adl2go/cmd/global"
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var curveCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured curve(s) to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configuration.ReadConfigFile()

		for idx, curveConf := range configuration.CurrentConfig.Curves {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			curve, err := curves.NewSpeedCurve(curveConf)
			if err != nil {
				return err
			}

			var curveType string
			var details string
			var graphValues map[int]float64 = nil
			switch curve.(type) {
			case *curves.LinearSpeedCurve:
				curveType = "Linear"
				details = curveConf.Linear.Sensor
				graphValues = linearGraph(curveConf.Linear)
			case *curves.PidSpeedCurve:
				curveType = "PID"
				pid := curveConf.PID
				details = fmt.Sprintf("%s, setPoint: %g, p: %g, i: %g, d: %g", pid.Sensor, pid.SetPoint, pid.P, pid.I, pid.D)
			case *curves.FunctionSpeedCurve:
				curveType = "Function"
				details = fmt.Sprintf("%s %v", curveConf.Function.Type, curveConf.Function.Curves)
			default:
				curveType = "Unknown"
			}

			// print table
			tab := table.Table{
				Headers: []string{"ID", "Type", "Details"},
				Rows: [][]string{
					{curve.GetId(), curveType, details},
				},
			}
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, global.TableConfig())
			if tableErr != nil {
				panic(tableErr)
			}
			ui.Printfln(buf.String())

			if graphValues == nil {
				continue
			}

			keys := util.SortedKeys(graphValues)
			values := make([]float64, 0, len(keys))
			for _, k := range keys {
				values = append(values, graphValues[k])
			}

			caption := fmt.Sprintf("Fan speed %% over %d..%d °C", keys[0], keys[len(keys)-1])
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}

		return nil
	},
}

// linearGraph returns the fan speed of the curve for every full degree of its range
func linearGraph(config *configuration.LinearCurveConfig) map[int]float64 {
	var steps map[int]float64
	if len(config.Steps) > 0 {
		steps = config.Steps
	} else {
		steps = map[int]float64{
			int(math.Round(config.Min)): 0,
			int(math.Round(config.Max)): 100,
		}
	}

	keys := util.SortedKeys(steps)
	start := keys[0]
	stop := keys[len(keys)-1]
	if start == stop {
		return nil
	}
	return util.InterpolateLinearly(&steps, start, stop)
}

func init() {
	Command.AddCommand(curveCmd)
}
