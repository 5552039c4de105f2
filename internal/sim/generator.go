package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Fixed simulation and fault thresholds. These are immutable reference
// behavior, not configuration.
const (
	tempMin = 18.0
	tempMax = 32.0

	pressureMin = 92.0
	pressureMax = 108.0

	// temp2 is reported missing with this probability, each call
	// independently.
	temp2DropoutProb = 0.05

	// TempTolerance is the maximum accepted absolute difference between
	// the two temperature channels.
	TempTolerance = 3.0

	// PressureLow and PressureHigh bound the accepted pressure range,
	// inclusive.
	PressureLow  = 95.0
	PressureHigh = 105.0
)

// Generator produces simulated readings from its own random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the wall clock.
func NewGenerator() *Generator {
	now := uint64(time.Now().UnixNano())
	return &Generator{rng: rand.New(rand.NewPCG(now, now>>32))}
}

// NewGeneratorWithSource creates a generator with a caller-supplied
// random source, for deterministic tests.
func NewGeneratorWithSource(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SimulateTemperature returns a temperature drawn uniformly from
// [18.0, 32.0], rounded to 2 decimal places.
func (g *Generator) SimulateTemperature() float64 {
	return round2(tempMin + g.rng.Float64()*(tempMax-tempMin))
}

// SimulatePressure returns a pressure drawn uniformly from [92.0, 108.0],
// rounded to 2 decimal places.
func (g *Generator) SimulatePressure() float64 {
	return round2(pressureMin + g.rng.Float64()*(pressureMax-pressureMin))
}

// Generate composes one reading stamped with now, classifies it and
// returns the reading together with whatever fault records the
// classification produced.
func (g *Generator) Generate(now time.Time) (Reading, []FaultRecord) {
	r := Reading{
		At:       now,
		Temp1:    g.SimulateTemperature(),
		Pressure: g.SimulatePressure(),
	}
	if g.rng.Float64() > temp2DropoutProb {
		r.Temp2 = g.SimulateTemperature()
		r.HasTemp2 = true
	}
	return Classify(r)
}

// Classify derives the status label and fault records for a reading.
// The rules run in order and each may overwrite the status: a missing or
// mismatched temp2 sets a temperature status, and an out-of-range
// pressure overrides it. Both fault records are kept when both checks
// trigger, so the status reflects only the last matching rule.
func Classify(r Reading) (Reading, []FaultRecord) {
	ts := r.Timestamp()
	r.Status = StatusOK

	var faults []FaultRecord

	if !r.HasTemp2 {
		r.Status = StatusTempSensorFail
		faults = append(faults, FaultRecord{Time: ts, Sensor: "Temp2", Issue: "No Data"})
	} else if math.Abs(r.Temp1-r.Temp2) > TempTolerance {
		r.Status = StatusTempMismatch
		faults = append(faults, FaultRecord{
			Time:   ts,
			Sensor: "Temp Redundancy",
			Issue:  fmt.Sprintf("%v vs %v", r.Temp1, r.Temp2),
		})
	}

	if r.Pressure < PressureLow || r.Pressure > PressureHigh {
		r.Status = StatusPressureFault
		faults = append(faults, FaultRecord{Time: ts, Sensor: "Pressure", Issue: r.Pressure})
	}

	return r, faults
}
