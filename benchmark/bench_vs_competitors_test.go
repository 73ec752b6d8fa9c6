package benchmark_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/urfave/cli/v2"

	"github.com/wysohn/SpongeAPI/command"
)

// Equivalent command lines run through this grammar engine, cobra and
// urfave/cli. The engines differ in what parsing buys (typed context values
// and completion here, struct binding there), so treat the numbers as
// ballpark, not a scoreboard.

func BenchmarkSimpleCommand_Grammar(b *testing.B) {
	spec := command.NewSpec().
		Child(command.NewSpec().
			Flags(command.NewFlags().
				ValueFlag(command.NewParameter("port").Integer().Build(), "-port", "p").
				Flag("-verbose", "v").
				Build()).
			Executor(nopExec).
			Build(), "run").
		Executor(nopExec).
		Build()
	src := benchSource{}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spec.Process(src, "run --port 9000 --verbose")
	}
}

func BenchmarkSimpleCommand_Cobra(b *testing.B) {
	args := []string{"run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().IntP("port", "p", 8080, "Server port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCommand_Urfave(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Positional argument parsing. The grammar engine types and validates the
// positionals; cobra and urfave hand back raw strings, so they do strictly
// less work here.

func BenchmarkPositionals_Grammar(b *testing.B) {
	spec := command.NewSpec().
		Parameters(
			command.NewParameter("player").StringValue().Build(),
			command.NewParameter("amount").Integer().Build(),
			command.NewParameter("note").RemainingJoinedStrings().Optional().Build(),
		).
		Executor(nopExec).
		Build()
	src := benchSource{}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spec.Process(src, "alice 5 for the win")
	}
}

func BenchmarkPositionals_Cobra(b *testing.B) {
	args := []string{"alice", "5", "for", "the", "win"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{
			Use:  "bench",
			Args: cobra.MinimumNArgs(2),
			Run:  func(_ *cobra.Command, _ []string) {},
		}
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkPositionals_Urfave(b *testing.B) {
	args := []string{"bench", "alice", "5", "for", "the", "win"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name:   "bench",
			Action: func(_ *cli.Context) error { return nil },
		}
		_ = app.Run(args)
	}
}

// Nested subcommand routing.

func BenchmarkNestedCommands_Grammar(b *testing.B) {
	start := command.NewSpec().Executor(nopExec).Build()
	server := command.NewSpec().Child(start, "start").Executor(nopExec).Build()
	root := command.NewSpec().Child(server, "server").Executor(nopExec).Build()
	src := benchSource{}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = root.Process(src, "server start")
	}
}

func BenchmarkNestedCommands_Cobra(b *testing.B) {
	args := []string{"server", "start"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		serverCmd := &cobra.Command{Use: "server"}
		startCmd := &cobra.Command{
			Use: "start",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		serverCmd.AddCommand(startCmd)
		rootCmd.AddCommand(serverCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkNestedCommands_Urfave(b *testing.B) {
	args := []string{"bench", "server", "start"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "server",
					Subcommands: []*cli.Command{
						{
							Name:   "start",
							Action: func(_ *cli.Context) error { return nil },
						},
					},
				},
			},
		}
		_ = app.Run(args)
	}
}
