package kmeter

import "github.com/cwbudde/algo-kmeter/measure/loudness"

// ChannelReading holds the readouts of one channel in dBFS.
type ChannelReading struct {
	Peak              float64
	PeakHold          float64
	MaximumPeak       float64
	TruePeak          float64
	TruePeakHold      float64
	MaximumTruePeak   float64
	Average           float64
	AverageHold       float64
	Overflows         int
	TruePeakOverflows int
}

// Snapshot is a copy of all readouts at one point in time.
type Snapshot struct {
	Time        float64
	Algorithm   loudness.Algorithm
	CrestFactor CrestFactor
	Channels    []ChannelReading

	StereoMeterValue float64
	PhaseCorrelation float64
}

// K converts a dBFS reading to the snapshot's K-System scale.
func (s Snapshot) K(db float64) float64 {
	return s.CrestFactor.Apply(db)
}

// Snapshot copies the current readouts.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Time:             e.elapsed,
		Algorithm:        e.cfg.Algorithm,
		CrestFactor:      e.cfg.CrestFactor,
		Channels:         make([]ChannelReading, e.cfg.Channels),
		StereoMeterValue: e.meter.StereoMeterValue(),
		PhaseCorrelation: e.meter.PhaseCorrelation(),
	}

	for ch := range s.Channels {
		s.Channels[ch] = ChannelReading{
			Peak:              e.meter.PeakMeterLevel(ch),
			PeakHold:          e.meter.PeakMeterPeakLevel(ch),
			MaximumPeak:       e.meter.MaximumPeakLevel(ch),
			TruePeak:          e.meter.TruePeakMeterLevel(ch),
			TruePeakHold:      e.meter.TruePeakMeterPeakLevel(ch),
			MaximumTruePeak:   e.meter.MaximumTruePeakLevel(ch),
			Average:           e.meter.AverageMeterLevel(ch),
			AverageHold:       e.meter.AverageMeterPeakLevel(ch),
			Overflows:         e.meter.NumberOfOverflows(ch),
			TruePeakOverflows: e.truePeakOverflows[ch],
		}
	}

	return s
}
