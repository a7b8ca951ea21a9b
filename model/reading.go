package model

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Reading is one converted sample: acceleration in m/s², angular rate in
// rad/s and temperature in °C.
type Reading struct {
	Accel Vector3
	Gyro  Vector3
	Temp  float64
}

// RawReading holds the sensor's register values before scaling.
type RawReading struct {
	Ax, Ay, Az int16
	Gx, Gy, Gz int16
}
