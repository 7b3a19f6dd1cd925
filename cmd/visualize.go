package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/evacsim/evacsim/sim"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize <building> [num_firefighters] [fire_weight]",
	Short: "Run one simulation to completion, printing a line per tick",
	Args:  cobra.RangeArgs(1, 3),
	Run:   runVisualize,
}

func init() {
	rootCmd.AddCommand(visualizeCmd)
}

func runVisualize(cmd *cobra.Command, args []string) {
	setLogLevel()

	buildingPath := args[0]
	numResponders := 1
	fireWeight := 0.0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			logrus.Fatalf("invalid num_firefighters %q: %v", args[1], err)
		}
		numResponders = n
	}
	if len(args) > 2 {
		w, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			logrus.Fatalf("invalid fire_weight %q: %v", args[2], err)
		}
		fireWeight = w
	}

	cfg, err := sim.LoadBuildingConfig(buildingPath)
	if err != nil {
		logrus.Fatalf("loading building config: %v", err)
	}

	s, err := sim.NewSimulation(cfg, numResponders, "", seed, sim.DefaultSimulationOptions())
	if err != nil {
		logrus.Fatalf("constructing simulation: %v", err)
	}

	modelCfg := sim.DefaultModelConfig()
	modelCfg.FirePriorityWeight = fireWeight
	model := sim.NewModel(s.Graph(), s.Responders(), s.Metrics(), modelCfg)

	phase := model.Phase()
	logrus.Infof("starting sweep phase, %d responder(s)", numResponders)

	const maxTicks = 100000
	for tick := 0; tick < maxTicks; tick++ {
		state := s.Read()
		actions := model.Decide(state)
		result := s.Update(actions)
		stats := s.Stats()

		if model.Phase() != phase {
			phase = model.Phase()
			logrus.Infof("tick %d: transitioned to phase %s", result.Tick, phase)
		}
		for _, ev := range result.Events {
			logrus.Debugf("tick %d: %s", result.Tick, ev)
		}

		fmt.Printf("tick=%d phase=%s rescued=%d dead=%d remaining=%d\n",
			result.Tick, phase, stats.Rescued, stats.Dead, stats.Remaining)

		if stats.Remaining == 0 {
			break
		}
	}
	if remaining := s.Stats().Remaining; remaining > 0 {
		logrus.Warnf("stopped after %d ticks with %d occupant(s) still unresolved", maxTicks, remaining)
	}

	s.Stats().Print()
}
