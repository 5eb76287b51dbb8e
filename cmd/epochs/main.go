package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/avelaine/epochs/internal/autoplay"
	"github.com/avelaine/epochs/internal/engine"
	"github.com/avelaine/epochs/internal/loader"
	"github.com/avelaine/epochs/internal/models"
	"github.com/avelaine/epochs/internal/save"
)

var (
	dataDir    string
	configFile string
	loadFile   string
	saveFile   string
	years      int
	tick       float64
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "epochs",
		Short: "Idle tech-tree progression simulator",
		Long: `A headless runner for the epochs progression engine: loads the
resource/upgrade/event catalogs, simulates a session for a number of years
with a greedy auto-player, and prints the purchase timeline.`,
		Run: runSimulation,
	}

	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "data", "Path to data directory")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&loadFile, "load", "l", "", "Load a saved session before running")
	rootCmd.Flags().StringVarP(&saveFile, "save", "s", "", "Write the session to a save file afterwards")
	rootCmd.Flags().IntVarP(&years, "years", "y", 50, "Number of years to simulate")
	rootCmd.Flags().Float64Var(&tick, "tick", 0.1, "Frame delta in seconds")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	if !quiet {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Epochs                   │")
		titleColor.Println("│  Progression Simulator    │")
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()
	}

	cfg := models.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = models.LoadConfig(configFile)
		if err != nil {
			color.Red("Error loading config: %v", err)
			os.Exit(1)
		}
	}

	catalog, err := loader.LoadCatalog(dataDir)
	if err != nil {
		color.Red("Error loading catalogs: %v", err)
		os.Exit(1)
	}

	if !quiet {
		infoColor.Printf("📦 Loaded %d resources, %d upgrades in %d trees, %d events\n\n",
			len(catalog.Resources), len(catalog.Upgrades), len(catalog.Trees), len(catalog.Events))
	}

	resources := engine.NewResourceManager(catalog.Resources)
	timeSystem := engine.NewTimeSystem(cfg.Time)
	state := engine.NewGameState(catalog, resources, timeSystem, cfg)
	events := engine.NewEventSystem(catalog.Events, state, cfg.Game)

	if loadFile != "" {
		snap, err := save.Read(loadFile)
		if err != nil {
			color.Red("Error loading save: %v", err)
			os.Exit(1)
		}
		save.Apply(snap, state)
		if !quiet {
			infoColor.Printf("💾 Resumed session at year %d with %d upgrades owned\n\n",
				snap.CurrentYear, len(snap.OwnedUpgrades))
		}
	}

	targetYear := timeSystem.CurrentYear() + years
	runner := autoplay.NewRunner(state, events, tick)
	result := runner.Run(targetYear)

	if !quiet {
		printTimeline(result)
		printResources(state)
		printTrees(result.Statistics)
	}

	successColor.Printf("\n✓ Reached year %d: %d/%d upgrades owned (%.1f%%)\n",
		result.FinalYear,
		result.Statistics.OwnedUpgrades,
		result.Statistics.TotalUpgrades,
		result.Statistics.CompletionPercentage)

	if saveFile != "" {
		if err := save.Write(saveFile, save.Capture(state)); err != nil {
			color.Red("Error writing save: %v", err)
			os.Exit(1)
		}
		if !quiet {
			infoColor.Printf("💾 Session saved to %s\n", saveFile)
		}
	}
}

func printTimeline(result autoplay.Result) {
	if len(result.Purchases) == 0 {
		fmt.Println("No upgrades purchased.")
		return
	}

	fmt.Println("🛒 Purchase timeline:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Year", "Tree", "Upgrade", "Cost"}),
	)
	for i, p := range result.Purchases {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.Year),
			p.Tree,
			p.Name,
			fmt.Sprintf("%.0f", p.TotalCost),
		})
	}
	_ = table.Render()
}

func printResources(state *engine.GameState) {
	fmt.Println("\n📊 Final resources:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Value", "Per Second", "Of Base"}),
	)
	for _, res := range state.Resources().Unlocked() {
		_ = table.Append([]string{
			res.Definition.Name,
			fmt.Sprintf("%.1f", res.CurrentValue),
			fmt.Sprintf("%.2f", res.ProductionPerSecond()),
			fmt.Sprintf("%.0f%%", res.ProductionPercentOfBase()),
		})
	}
	_ = table.Render()
}

func printTrees(stats engine.Statistics) {
	fmt.Println("\n🌳 Tree completion:")
	treeIDs := make([]string, 0, len(stats.TreeStats))
	for id := range stats.TreeStats {
		treeIDs = append(treeIDs, id)
	}
	sort.Strings(treeIDs)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Tree", "Owned", "Total", "%"}),
	)
	for _, id := range treeIDs {
		ts := stats.TreeStats[id]
		_ = table.Append([]string{
			id,
			fmt.Sprintf("%d", ts.Owned),
			fmt.Sprintf("%d", ts.Total),
			fmt.Sprintf("%.0f%%", ts.Percentage),
		})
	}
	_ = table.Render()
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and cross-check the catalogs without simulating",
		Run: func(cmd *cobra.Command, args []string) {
			catalog, err := loader.LoadCatalog(dataDir)
			if err != nil {
				color.Red("✗ %v", err)
				os.Exit(1)
			}
			color.Green("✓ Catalogs OK: %d resources, %d upgrades, %d trees, %d events",
				len(catalog.Resources), len(catalog.Upgrades), len(catalog.Trees), len(catalog.Events))
		},
	}
	cmd.Flags().StringVarP(&dataDir, "data", "d", "data", "Path to data directory")
	return cmd
}
