package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type StreamerStatus struct {
	Target string `json:"target"`
	Port1  int    `json:"port_1"`
	Port2  int    `json:"port_2"`
	Mode   int    `json:"mode"`
	Sent   uint64 `json:"sent"`
}

type SamplesResponse struct {
	Mode string    `json:"mode"`
	Gyr  []Vector3 `json:"gyr"`
	Acc  []Vector3 `json:"acc"`
}
