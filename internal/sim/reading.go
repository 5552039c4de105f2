// Package sim generates simulated sensor readings and classifies them
// against fixed fault thresholds. Two temperature channels and one
// pressure channel are modelled; the second temperature channel drops
// out at random to exercise the redundancy check.
package sim

import "time"

// Status labels a reading after classification.
type Status string

const (
	StatusOK             Status = "OK"
	StatusTempSensorFail Status = "TEMP SENSOR FAIL"
	StatusTempMismatch   Status = "TEMP SENSOR MISMATCH"
	StatusPressureFault  Status = "PRESSURE FAULT"
)

// Reading is a single simulated sample of both temperature channels and
// the pressure channel, plus its derived status.
type Reading struct {
	At       time.Time
	Temp1    float64
	Temp2    float64 // valid only if HasTemp2
	HasTemp2 bool
	Pressure float64
	Status   Status
}

// Timestamp renders the reading's wall-clock time as HH:MM:SS. The date
// is deliberately dropped everywhere the reading is shown or exported.
func (r Reading) Timestamp() string {
	return r.At.Format("15:04:05")
}

// FaultRecord is a logged anomaly tied to one sensor check at a point in
// time. Issue is a string for most checks and the raw numeric value for
// pressure faults.
type FaultRecord struct {
	Time   string `json:"Time"`
	Sensor string `json:"Sensor"`
	Issue  any    `json:"Issue"`
}
