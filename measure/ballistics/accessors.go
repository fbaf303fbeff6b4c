package ballistics

import "github.com/cwbudde/algo-kmeter/measure/loudness"

// In BS.1770 mode the meter shows a single program reading: channel 0
// presents the loudest channel (or the sum of overflows) and every other
// channel reads the floor. The per-channel accessors panic when ch is out
// of range, in either mode.

func (m *Meter) combined() bool {
	return m.algorithm == loudness.AlgorithmITUBS1770
}

// maxOver returns the reading of channel ch, or in combined mode the
// maximum of all channels on channel 0 and the floor elsewhere.
func (m *Meter) maxOver(ch int, reading func(*channel) float64) float64 {
	c := &m.channels[ch]
	switch {
	case !m.combined():
		return reading(c)
	case ch != 0:
		return MeterMinimumDecibel
	}

	level := MeterMinimumDecibel
	for i := range m.channels {
		level = max(level, reading(&m.channels[i]))
	}

	return level
}

// firstOnly returns the reading of channel ch, or in combined mode the
// reading of channel 0 on channel 0 and the floor elsewhere.
func (m *Meter) firstOnly(ch int, reading func(*channel) float64) float64 {
	c := &m.channels[ch]
	if m.combined() && ch != 0 {
		return MeterMinimumDecibel
	}

	return reading(c)
}

// PeakMeterLevel returns the peak meter reading of channel ch in dB.
func (m *Meter) PeakMeterLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.peak })
}

// PeakMeterPeakLevel returns the peak meter hold mark of channel ch in dB.
func (m *Meter) PeakMeterPeakLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.peakHold.level })
}

// MaximumPeakLevel returns the highest peak seen on channel ch since the
// last reset.
func (m *Meter) MaximumPeakLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.peakMax })
}

// TruePeakMeterLevel returns the true-peak meter reading of channel ch.
func (m *Meter) TruePeakMeterLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.truePeak })
}

// TruePeakMeterPeakLevel returns the true-peak hold mark of channel ch.
func (m *Meter) TruePeakMeterPeakLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.truePeakHold.level })
}

// MaximumTruePeakLevel returns the highest true peak seen on channel ch
// since the last reset.
func (m *Meter) MaximumTruePeakLevel(ch int) float64 {
	return m.maxOver(ch, func(c *channel) float64 { return c.truePeakMax })
}

// AverageMeterLevel returns the smoothed average level of channel ch.
func (m *Meter) AverageMeterLevel(ch int) float64 {
	return m.firstOnly(ch, func(c *channel) float64 { return c.average })
}

// AverageMeterPeakLevel returns the average meter hold mark of channel ch.
func (m *Meter) AverageMeterPeakLevel(ch int) float64 {
	return m.firstOnly(ch, func(c *channel) float64 { return c.averageHold.level })
}

// NumberOfOverflows returns the number of overflows counted on channel ch
// since the last reset. In BS.1770 mode channel 0 reports the sum over all
// channels.
func (m *Meter) NumberOfOverflows(ch int) int {
	c := &m.channels[ch]
	switch {
	case !m.combined():
		return c.overflows
	case ch != 0:
		return 0
	}

	var sum int
	for i := range m.channels {
		sum += m.channels[i].overflows
	}

	return sum
}

// StereoMeterValue returns the smoothed stereo balance, or 0 unless the
// meter has two channels.
func (m *Meter) StereoMeterValue() float64 {
	if len(m.channels) != 2 {
		return 0
	}

	return m.stereo
}

// PhaseCorrelation returns the smoothed phase correlation, or +1 unless
// the meter has two channels.
func (m *Meter) PhaseCorrelation() float64 {
	if len(m.channels) != 2 {
		return 1
	}

	return m.correlation
}
