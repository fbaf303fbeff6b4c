// Command kmeter runs the K-System meter engine on a generated test signal
// and prints its readings at a fixed interval.
//
// Usage:
//
//	kmeter [flags] [sine|pink|noise|silence]
//
// Examples:
//
//	kmeter --level=-20 sine
//	kmeter --crest=k14 --algorithm=rms --duration=30s pink
//	kmeter --format=csv --fields=average,peak noise > readings.tsv
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-kmeter/internal/cli"
)

var version = "0.0.1"

// CLI defines the command-line interface
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	Signal    string        `arg:"" optional:"" enum:"sine,pink,noise,silence" default:"sine" help:"Test signal (sine, pink, noise, silence)"`
	Level     float64       `short:"l" default:"-20" help:"Signal level in dBFS (peak for sine, RMS for noise)"`
	Frequency float64       `short:"f" default:"997" help:"Sine frequency in Hz"`
	Invert    bool          `help:"Invert the polarity of the second channel"`
	Seed      int64         `default:"1" help:"Noise seed"`
	Duration  time.Duration `short:"d" default:"10s" help:"Length of the test signal"`

	Rate        float64 `short:"r" default:"48000" help:"Sample rate in Hz (44100 to 192000)"`
	Chunk       int     `default:"1024" help:"Meter chunk size in samples (power of two)"`
	Channels    int     `short:"n" default:"2" help:"Number of channels"`
	Algorithm   string  `short:"a" default:"bs1770" help:"Average algorithm (rms, bs1770)"`
	Crest       string  `short:"k" default:"k20" help:"K-System scale (normal, k12, k14, k20)"`
	Mono        bool    `help:"Meter the mono downmix of a stereo signal"`
	PeakHold    bool    `help:"Hold peak readings indefinitely"`
	AverageHold bool    `help:"Hold average readings indefinitely"`

	Interval time.Duration `short:"i" default:"100ms" help:"Reporting interval"`
	Format   string        `enum:"plain,csv,summary" default:"summary" help:"Output format (plain, csv, summary)"`
	Fields   []string      `default:"all" help:"Readings to report (average, peak, truepeak, max, maxtrue, stereo, correlation, all)"`
	Channel  int           `default:"-1" help:"Report a single channel (1-based); -1 reports all"`
	SMA      int           `name:"sma" default:"50" help:"Length of the moving average in reports"`
	Verbose  bool          `help:"Log engine events to stderr"`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("kmeter"),
		kong.Description("K-System meter test bench"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter("K-Meter", "K-System meter test bench")),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	level := slog.LevelWarn
	if cliArgs.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cliArgs, os.Stdout, logger); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
