package kmeter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReportFormat selects the output format of a Reporter.
type ReportFormat int

const (
	// ReportPlain writes one labelled line per reading.
	ReportPlain ReportFormat = iota
	// ReportCSV writes one tab-separated row per snapshot.
	ReportCSV
)

// ReportField selects readings for a Reporter.
type ReportField uint

const (
	// ReportAverage prints the average meter level of each channel.
	ReportAverage ReportField = 1 << iota
	// ReportPeak prints the peak meter level of each channel.
	ReportPeak
	// ReportTruePeak prints the true-peak meter level of each channel.
	ReportTruePeak
	// ReportMaximumPeak prints the highest peak since the last reset.
	ReportMaximumPeak
	// ReportMaximumTruePeak prints the highest true peak since the last reset.
	ReportMaximumTruePeak
	// ReportStereoMeterValue prints the smoothed stereo balance.
	ReportStereoMeterValue
	// ReportPhaseCorrelation prints the smoothed phase correlation.
	ReportPhaseCorrelation

	// ReportAll selects every reading.
	ReportAll = ReportAverage | ReportPeak | ReportTruePeak | ReportMaximumPeak |
		ReportMaximumTruePeak | ReportStereoMeterValue | ReportPhaseCorrelation
)

// DefaultMovingAverage is the number of reports the simple moving average
// of the plain format spans.
const DefaultMovingAverage = 50

// ReportOption mutates a Reporter.
type ReportOption func(*Reporter)

// WithReportFormat selects plain or CSV output.
func WithReportFormat(f ReportFormat) ReportOption {
	return func(r *Reporter) {
		r.format = f
	}
}

// WithReportFields selects the readings to report.
func WithReportFields(fields ReportField) ReportOption {
	return func(r *Reporter) {
		r.fields = fields
	}
}

// WithReportChannel restricts per-channel readings to channel ch. A
// negative value reports every channel.
func WithReportChannel(ch int) ReportOption {
	return func(r *Reporter) {
		r.channel = ch
	}
}

// WithMovingAverage sets the length of the simple moving average shown
// next to average, peak and true-peak readings.
func WithMovingAverage(n int) ReportOption {
	return func(r *Reporter) {
		if n > 0 {
			r.window = n
		}
	}
}

// Reporter prints snapshots for validation runs. Per-channel readings are
// shown on the snapshot's K-System scale.
type Reporter struct {
	w       io.Writer
	csv     *csv.Writer
	format  ReportFormat
	fields  ReportField
	channel int
	window  int

	header   bool
	averages map[string]*movingAverage
	row      []string
}

// NewReporter creates a reporter writing to w. By default it reports all
// readings of all channels in the plain format.
func NewReporter(w io.Writer, opts ...ReportOption) *Reporter {
	r := &Reporter{
		w:        w,
		fields:   ReportAll,
		channel:  -1,
		window:   DefaultMovingAverage,
		averages: make(map[string]*movingAverage),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.format == ReportCSV {
		r.csv = csv.NewWriter(w)
		r.csv.Comma = '\t'
	}

	return r
}

type channelField struct {
	field    ReportField
	label    string
	column   string
	smoothed bool
	value    func(ChannelReading) float64
}

var channelFields = []channelField{
	{ReportAverage, "average", "avg", true, func(c ChannelReading) float64 { return c.Average }},
	{ReportPeak, "peak", "pk", true, func(c ChannelReading) float64 { return c.Peak }},
	{ReportTruePeak, "true peak", "tru", true, func(c ChannelReading) float64 { return c.TruePeak }},
	{ReportMaximumPeak, "maximum", "max", false, func(c ChannelReading) float64 { return c.MaximumPeak }},
	{ReportMaximumTruePeak, "true max.", "mxt", false, func(c ChannelReading) float64 { return c.MaximumTruePeak }},
}

func (r *Reporter) channels(s Snapshot) []int {
	if r.channel >= 0 {
		if r.channel < len(s.Channels) {
			return []int{r.channel}
		}

		return nil
	}

	chs := make([]int, len(s.Channels))
	for i := range chs {
		chs[i] = i
	}

	return chs
}

// Report writes the readings of s.
func (r *Reporter) Report(s Snapshot) error {
	if r.format == ReportCSV {
		return r.reportCSV(s)
	}

	return r.reportPlain(s)
}

func (r *Reporter) reportPlain(s Snapshot) error {
	stamp := FormatTimecode(s.Time)

	for _, f := range channelFields {
		if r.fields&f.field == 0 {
			continue
		}

		for _, ch := range r.channels(s) {
			v := s.K(f.value(s.Channels[ch]))
			label := fmt.Sprintf("%s %s (ch. %d):", s.CrestFactor, f.label, ch+1)
			line := fmt.Sprintf("[%s] %-26s %s dB", stamp, label, FormatValue(v))

			if f.smoothed {
				sma := r.average(f.column, ch)
				sma.add(v)
				if sma.valid() {
					line += fmt.Sprintf("   SMA(%d): %s dB", r.window, FormatValue(sma.mean()))
				}
			}

			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}

	if r.fields&ReportStereoMeterValue != 0 {
		if _, err := fmt.Fprintf(r.w, "[%s] %-26s %s\n", stamp, "Stereo meter value:", FormatValue(s.StereoMeterValue)); err != nil {
			return err
		}
	}

	if r.fields&ReportPhaseCorrelation != 0 {
		if _, err := fmt.Fprintf(r.w, "[%s] %-26s %s\n", stamp, "Phase correlation:", FormatValue(s.PhaseCorrelation)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reporter) reportCSV(s Snapshot) error {
	if !r.header {
		r.row = append(r.row[:0], "timecode")
		r.eachColumn(s, func(name string, _ float64) {
			r.row = append(r.row, name)
		})

		if err := r.csv.Write(r.row); err != nil {
			return err
		}

		r.header = true
	}

	r.row = append(r.row[:0], FormatTimecode(s.Time))
	r.eachColumn(s, func(_ string, v float64) {
		r.row = append(r.row, FormatValue(v))
	})

	if err := r.csv.Write(r.row); err != nil {
		return err
	}

	r.csv.Flush()

	return r.csv.Error()
}

func (r *Reporter) eachColumn(s Snapshot, fn func(name string, v float64)) {
	for _, f := range channelFields {
		if r.fields&f.field == 0 {
			continue
		}

		for _, ch := range r.channels(s) {
			fn(f.column+"_"+strconv.Itoa(ch+1), s.K(f.value(s.Channels[ch])))
		}
	}

	if r.fields&ReportStereoMeterValue != 0 {
		fn("stereo", s.StereoMeterValue)
	}

	if r.fields&ReportPhaseCorrelation != 0 {
		fn("corr", s.PhaseCorrelation)
	}
}

func (r *Reporter) average(column string, ch int) *movingAverage {
	key := column + "_" + strconv.Itoa(ch)

	sma, ok := r.averages[key]
	if !ok {
		sma = newMovingAverage(r.window)
		r.averages[key] = sma
	}

	return sma
}

// FormatTimecode formats seconds as mm:ss.mmm.
func FormatTimecode(seconds float64) string {
	if !(seconds >= 0) {
		seconds = 0
	}

	ms := int64(seconds*1000 + 0.5)

	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// FormatValue formats a reading with an explicit sign and two decimals.
func FormatValue(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// movingAverage is a simple moving average over the last n values.
type movingAverage struct {
	values []float64
	pos    int
	count  int
	sum    float64
}

func newMovingAverage(n int) *movingAverage {
	return &movingAverage{values: make([]float64, n)}
}

func (m *movingAverage) add(v float64) {
	m.sum += v - m.values[m.pos]
	m.values[m.pos] = v
	m.pos = (m.pos + 1) % len(m.values)

	if m.count < len(m.values) {
		m.count++
	}
}

// valid reports whether the window has been filled once.
func (m *movingAverage) valid() bool {
	return m.count == len(m.values)
}

func (m *movingAverage) mean() float64 {
	if m.count == 0 {
		return 0
	}

	return m.sum / float64(m.count)
}
