package constants

import (
	"os"
	"strconv"
	"time"
)

const (
	MelodyStripLen = 44
	BassStripLen   = 38

	PerformLoopDelay = 50 * time.Millisecond
	StreamLoopDelay  = 150 * time.Millisecond
	DebounceDelay    = 50 * time.Millisecond

	// mode counter cycles 1..NumModes
	NumModes = 5

	MelodySensorAddr = 0x68
	BassSensorAddr   = 0x69

	SessionsTable = "mpusynth-sessions"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func GetOSCTarget() string {
	return getenv("MPUSYNTH_OSC_TARGET", "192.168.0.10")
}

func GetOSCPort1() int {
	return getenvInt("MPUSYNTH_OSC_PORT_1", 8000)
}

func GetOSCPort2() int {
	return getenvInt("MPUSYNTH_OSC_PORT_2", 8001)
}

func GetWebAddr() string {
	return getenv("MPUSYNTH_WEB_ADDR", ":80")
}

func GetBridgeAddr() string {
	return getenv("MPUSYNTH_BRIDGE_ADDR", "0.0.0.0:8000")
}

func GetBridgeWebAddr() string {
	return getenv("MPUSYNTH_BRIDGE_WEB_ADDR", ":8080")
}

func GetSerialBaud() int {
	return getenvInt("MPUSYNTH_SERIAL_BAUD", 115200)
}

// GetDynamoEndpoint returns "" when session summaries should not be stored.
func GetDynamoEndpoint() string {
	return os.Getenv("MPUSYNTH_DYNAMO_ENDPOINT")
}

func GetOutDir() string {
	return getenv("MPUSYNTH_OUT_DIR", "./out")
}
