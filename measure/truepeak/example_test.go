package truepeak_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-kmeter/measure/truepeak"
)

func ExampleDetector() {
	const (
		fs        = 48000.0
		blockSize = 256
	)

	d, err := truepeak.NewDetector(
		truepeak.WithSampleRate(fs),
		truepeak.WithBlockSize(blockSize),
		truepeak.WithChannels(1),
	)
	if err != nil {
		panic(err)
	}

	// A quarter-rate sine whose samples never exceed 0.7071.
	block := make([]float64, blockSize)
	samplePeak := 0.0
	for n := 0; n < 4; n++ {
		for i := range block {
			block[i] = math.Sin(math.Pi/2*float64(n*blockSize+i) + math.Pi/4)
			samplePeak = math.Max(samplePeak, math.Abs(block[i]))
		}
		if err := d.CopyFrom([][]float64{block}); err != nil {
			panic(err)
		}
	}

	fmt.Printf("%dx: sample peak %.2f, true peak %.2f\n", d.Factor(), samplePeak, d.Level(0))

	// Output:
	// 8x: sample peak 0.71, true peak 1.00
}
