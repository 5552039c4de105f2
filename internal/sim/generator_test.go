package sim

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReading(temp1, temp2 float64, hasTemp2 bool, pressure float64) Reading {
	return Reading{
		At:       time.Date(2026, 8, 28, 14, 30, 5, 0, time.Local),
		Temp1:    temp1,
		Temp2:    temp2,
		HasTemp2: hasTemp2,
		Pressure: pressure,
	}
}

func TestClassifyDecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		reading    Reading
		wantStatus Status
		wantFaults int
		wantSensor string
	}{
		{
			name:       "temp2 missing",
			reading:    testReading(20, 0, false, 100),
			wantStatus: StatusTempSensorFail,
			wantFaults: 1,
			wantSensor: "Temp2",
		},
		{
			name:       "temp mismatch",
			reading:    testReading(20, 25, true, 100),
			wantStatus: StatusTempMismatch,
			wantFaults: 1,
			wantSensor: "Temp Redundancy",
		},
		{
			name:       "pressure fault overrides consistent temps",
			reading:    testReading(20, 21, true, 110),
			wantStatus: StatusPressureFault,
			wantFaults: 1,
			wantSensor: "Pressure",
		},
		{
			name:       "all nominal",
			reading:    testReading(20, 21, true, 100),
			wantStatus: StatusOK,
			wantFaults: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, faults := Classify(tt.reading)
			assert.Equal(t, tt.wantStatus, r.Status)
			require.Len(t, faults, tt.wantFaults)
			if tt.wantFaults > 0 {
				assert.Equal(t, tt.wantSensor, faults[0].Sensor)
				assert.Equal(t, "14:30:05", faults[0].Time)
			}
		})
	}
}

func TestClassifyTemp2MissingIssueText(t *testing.T) {
	_, faults := Classify(testReading(20, 0, false, 100))
	require.Len(t, faults, 1)
	assert.Equal(t, "No Data", faults[0].Issue)
}

func TestClassifyMismatchIssueText(t *testing.T) {
	_, faults := Classify(testReading(20.5, 25.1, true, 100))
	require.Len(t, faults, 1)
	assert.Equal(t, "20.5 vs 25.1", faults[0].Issue)
}

func TestClassifyPressureIssueIsNumeric(t *testing.T) {
	_, faults := Classify(testReading(20, 21, true, 110))
	require.Len(t, faults, 1)
	assert.Equal(t, 110.0, faults[0].Issue)
}

// A pressure fault masks a simultaneous temperature fault in the status
// label, but both fault records survive.
func TestClassifyKeepsBothFaultRecords(t *testing.T) {
	r, faults := Classify(testReading(20, 0, false, 91))
	assert.Equal(t, StatusPressureFault, r.Status)
	require.Len(t, faults, 2)
	assert.Equal(t, "Temp2", faults[0].Sensor)
	assert.Equal(t, "Pressure", faults[1].Sensor)
}

func TestClassifyBoundaryPressureIsOK(t *testing.T) {
	for _, p := range []float64{95.0, 105.0} {
		r, faults := Classify(testReading(20, 21, true, p))
		assert.Equal(t, StatusOK, r.Status, "pressure %v", p)
		assert.Empty(t, faults)
	}
}

func TestGenerateRangesAndRounding(t *testing.T) {
	g := NewGeneratorWithSource(rand.New(rand.NewPCG(1, 2)))
	now := time.Now()

	for i := 0; i < 500; i++ {
		r, faults := g.Generate(now)

		assert.GreaterOrEqual(t, r.Temp1, 18.0)
		assert.LessOrEqual(t, r.Temp1, 32.0)
		assert.GreaterOrEqual(t, r.Pressure, 92.0)
		assert.LessOrEqual(t, r.Pressure, 108.0)
		if r.HasTemp2 {
			assert.GreaterOrEqual(t, r.Temp2, 18.0)
			assert.LessOrEqual(t, r.Temp2, 32.0)
		}

		assert.InDelta(t, r.Temp1, round2(r.Temp1), 1e-9)
		assert.InDelta(t, r.Pressure, round2(r.Pressure), 1e-9)

		// Status is OK exactly when no fault record was produced.
		if len(faults) == 0 {
			assert.Equal(t, StatusOK, r.Status)
		} else {
			assert.NotEqual(t, StatusOK, r.Status)
		}
	}
}

func TestGenerateTemp2Dropout(t *testing.T) {
	g := NewGeneratorWithSource(rand.New(rand.NewPCG(7, 7)))
	now := time.Now()

	missing := 0
	const n = 2000
	for i := 0; i < n; i++ {
		r, _ := g.Generate(now)
		if !r.HasTemp2 {
			missing++
		}
	}

	// 5% dropout probability; allow generous slack for a fixed seed.
	assert.Greater(t, missing, n/50)
	assert.Less(t, missing, n/10)
}

func TestTimestampFormat(t *testing.T) {
	r := Reading{At: time.Date(2026, 8, 28, 9, 5, 3, 0, time.Local)}
	assert.Equal(t, "09:05:03", r.Timestamp())
}
