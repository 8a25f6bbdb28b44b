package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phytolab/epileaf/disease"
	"github.com/phytolab/epileaf/examples/brownrust"
	"github.com/phytolab/epileaf/growth"
	"github.com/phytolab/epileaf/infection"
	"github.com/phytolab/epileaf/sim"
	"github.com/phytolab/epileaf/simulation"
	"github.com/phytolab/epileaf/weather"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an epidemic simulation over a weather file.",
	RunE:  runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("weather", "",
		"Hourly weather CSV (or EPILEAF_WEATHER)")
	runCmd.Flags().String("scenario", "",
		"Scenario YAML file; defaults to a built-in seasonal run")
	runCmd.Flags().String("output", "",
		"Output database name (or EPILEAF_OUTPUT)")
	runCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring server")
	runCmd.Flags().Bool("open", false,
		"Open the monitoring dashboard in a browser")
	runCmd.Flags().Bool("no-monitor", false,
		"Disable the monitoring server")
	runCmd.Flags().Bool("no-record", false,
		"Disable output recording")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	// A .env file may provide defaults for the paths.
	_ = godotenv.Load()

	weatherPath, _ := cmd.Flags().GetString("weather")
	if weatherPath == "" {
		weatherPath = os.Getenv("EPILEAF_WEATHER")
	}
	if weatherPath == "" {
		return fmt.Errorf("a weather file is required " +
			"(--weather or EPILEAF_WEATHER)")
	}

	table, err := weather.LoadCSV(weatherPath)
	if err != nil {
		return err
	}

	scenario := DefaultScenario()
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		scenario, err = LoadScenario(path)
		if err != nil {
			return err
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = os.Getenv("EPILEAF_OUTPUT")
	}

	policy, err := policyByName(scenario.Policy)
	if err != nil {
		return err
	}

	params := scenario.FungusParams()
	ids := sim.NewSequentialIDGenerator()

	builder := simulation.MakeBuilder().
		WithWeather(table).
		WithStore(scenario.BuildStore()).
		WithTBase(scenario.TBase).
		WithCanopyDelay(scenario.CanopyDelayDD).
		WithDispersalDelay(scenario.DispersalDelayHours).
		WithDiseaseDelay(scenario.DiseaseDelayDD).
		WithAllocator(policy).
		WithPlacement(infection.Controller{Mode: disease.Grouped}).
		WithGrower(brownrust.NewGrower()).
		WithContaminator(brownrust.NewAirborneContamination(
			scenario.DensityDispersalUnits, ids)).
		WithUpdater(brownrust.NewUpdater(params, ids, scenario.Seed)).
		WithTransporter(brownrust.NewTransporter(params, ids)).
		WithOutputFileName(output)

	if noMonitor, _ := cmd.Flags().GetBool("no-monitor"); noMonitor {
		builder = builder.WithoutMonitoring()
	} else {
		if port, _ := cmd.Flags().GetInt("monitor-port"); port > 0 {
			builder = builder.WithMonitorPort(port)
		}
		if open, _ := cmd.Flags().GetBool("open"); open {
			builder = builder.WithBrowser()
		}
	}

	if noRecord, _ := cmd.Flags().GetBool("no-record"); noRecord {
		builder = builder.WithoutRecording()
	}

	s := builder.Build()
	defer s.Terminate()

	log.Printf("running scenario %s over %d hourly rows",
		scenario.Name, table.Len())

	if err := s.Run(); err != nil {
		return err
	}

	if rec := s.Recorder(); rec != nil {
		log.Printf("normalized AUDPC: %.2f", rec.NormalizedAUDPC())
	}

	return nil
}

func policyByName(name string) (sim.AreaController, error) {
	switch name {
	case "", "geometric":
		return growth.GeometricCircle{}, nil
	case "nopriority":
		return growth.NoPriority{}, nil
	case "priority":
		return growth.Priority{}, nil
	default:
		return nil, fmt.Errorf("unknown growth policy %q", name)
	}
}
