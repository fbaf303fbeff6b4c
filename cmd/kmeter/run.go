package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-kmeter/dsp/core"
	"github.com/cwbudde/algo-kmeter/dsp/signal"
	"github.com/cwbudde/algo-kmeter/internal/cli"
	"github.com/cwbudde/algo-kmeter/measure/kmeter"
	"github.com/cwbudde/algo-kmeter/measure/loudness"
)

var errEmptySignal = errors.New("signal duration must cover at least one sample")

var fieldNames = map[string]kmeter.ReportField{
	"average":     kmeter.ReportAverage,
	"avg":         kmeter.ReportAverage,
	"peak":        kmeter.ReportPeak,
	"truepeak":    kmeter.ReportTruePeak,
	"true-peak":   kmeter.ReportTruePeak,
	"max":         kmeter.ReportMaximumPeak,
	"maximum":     kmeter.ReportMaximumPeak,
	"maxtrue":     kmeter.ReportMaximumTruePeak,
	"stereo":      kmeter.ReportStereoMeterValue,
	"correlation": kmeter.ReportPhaseCorrelation,
	"corr":        kmeter.ReportPhaseCorrelation,
	"all":         kmeter.ReportAll,
}

func parseFields(names []string) (kmeter.ReportField, error) {
	var fields kmeter.ReportField

	for _, name := range names {
		f, ok := fieldNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown report field %q", name)
		}
		fields |= f
	}

	if fields == 0 {
		fields = kmeter.ReportAll
	}

	return fields, nil
}

// generate renders the test signal, one slice per channel.
func generate(c *CLI) ([][]float64, error) {
	samples := int(c.Duration.Seconds() * c.Rate)
	if samples <= 0 {
		return nil, errEmptySignal
	}
	if c.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", c.Channels)
	}

	kind, err := signal.ParseKind(c.Signal)
	if err != nil {
		return nil, err
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(c.Rate)},
		signal.WithFrequency(c.Frequency),
	)

	frames := make([][]float64, c.Channels)
	for ch := range frames {
		// Noise is uncorrelated between channels.
		gen.SetSeed(c.Seed + int64(ch))

		if frames[ch], err = gen.Render(kind, c.Level, samples); err != nil {
			return nil, err
		}
	}

	if c.Invert && len(frames) > 1 {
		for i, v := range frames[1] {
			frames[1][i] = -v
		}
	}

	return frames, nil
}

func run(c *CLI, w io.Writer, logger *slog.Logger) error {
	algorithm, err := loudness.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}

	crest, err := kmeter.ParseCrestFactor(c.Crest)
	if err != nil {
		return err
	}

	fields, err := parseFields(c.Fields)
	if err != nil {
		return err
	}

	engine, err := kmeter.NewEngine(
		kmeter.WithSampleRate(c.Rate),
		kmeter.WithChunkSize(c.Chunk),
		kmeter.WithChannels(c.Channels),
		kmeter.WithAlgorithm(algorithm),
		kmeter.WithCrestFactor(crest),
		kmeter.WithMono(c.Mono),
		kmeter.WithPeakInfiniteHold(c.PeakHold),
		kmeter.WithAverageInfiniteHold(c.AverageHold),
		kmeter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	frames, err := generate(c)
	if err != nil {
		return err
	}

	var reporter *kmeter.Reporter
	switch c.Format {
	case "plain", "csv":
		format := kmeter.ReportPlain
		if c.Format == "csv" {
			format = kmeter.ReportCSV
		}

		channel := -1
		if c.Channel > 0 {
			channel = c.Channel - 1
		}

		reporter = kmeter.NewReporter(w,
			kmeter.WithReportFormat(format),
			kmeter.WithReportFields(fields),
			kmeter.WithReportChannel(channel),
			kmeter.WithMovingAverage(c.SMA),
		)
	}

	step := int(c.Interval.Seconds()*c.Rate + 0.5)
	if step <= 0 {
		step = c.Chunk
	}

	total := len(frames[0])
	block := make([][]float64, len(frames))

	logger.Debug("metering test signal",
		"signal", c.Signal, "samples", total, "channels", len(frames), "step", step)

	engine.SetPlaying(true)

	for start := 0; start < total; start += step {
		end := min(start+step, total)
		for ch := range frames {
			block[ch] = frames[ch][start:end]
		}

		if err := engine.Process(block); err != nil {
			return err
		}

		if reporter != nil {
			if err := reporter.Report(engine.Snapshot()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}

	if reporter == nil {
		printSummary(w, c, engine.Snapshot())
	}

	return nil
}

func printSummary(w io.Writer, c *CLI, s kmeter.Snapshot) {
	fmt.Fprintln(w, cli.TitleStyle.Render(fmt.Sprintf("K-Meter: %s", c.Signal)))

	cli.PrintKeyValue(w, "Sample rate:", fmt.Sprintf("%.0f Hz", c.Rate))
	cli.PrintKeyValue(w, "Algorithm:", s.Algorithm.String())
	cli.PrintKeyValue(w, "Scale:", s.CrestFactor.String())
	cli.PrintKeyValue(w, "Duration:", kmeter.FormatTimecode(s.Time))
	fmt.Fprintln(w)

	for ch, r := range s.Channels {
		fmt.Fprintln(w, cli.ValueStyle.Render(fmt.Sprintf("Channel %d", ch+1)))
		fmt.Fprintf(w, "%s %s\n", cli.KeyStyle.Render("Average:"), cli.RenderLevel(s.K(r.Average)))
		fmt.Fprintf(w, "%s %s\n", cli.KeyStyle.Render("Peak:"), cli.RenderLevel(s.K(r.Peak)))
		fmt.Fprintf(w, "%s %s\n", cli.KeyStyle.Render("Maximum peak:"), cli.RenderLevel(s.K(r.MaximumPeak)))
		fmt.Fprintf(w, "%s %s\n", cli.KeyStyle.Render("True peak:"), cli.RenderLevel(s.K(r.TruePeak)))
		fmt.Fprintf(w, "%s %s\n", cli.KeyStyle.Render("Maximum true peak:"), cli.RenderLevel(s.K(r.MaximumTruePeak)))
		cli.PrintKeyValue(w, "Overflows:", fmt.Sprintf("%d (true peak %d)", r.Overflows, r.TruePeakOverflows))
		fmt.Fprintln(w)
	}

	cli.PrintKeyValue(w, "Stereo meter:", kmeter.FormatValue(s.StereoMeterValue))
	cli.PrintKeyValue(w, "Phase correlation:", kmeter.FormatValue(s.PhaseCorrelation))
}
