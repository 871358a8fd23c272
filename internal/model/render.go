package model

// RenderRequest is the body of POST /v1/renders.
type RenderRequest struct {
	Frequency    float64   `json:"frequency"`
	Mode         string    `json:"mode,omitempty"`
	Hint         string    `json:"hint,omitempty"`
	Duration     int       `json:"duration,omitempty"`
	Stereo       bool      `json:"stereo,omitempty"`
	Label        string    `json:"label,omitempty"`
	Noise        string    `json:"noise,omitempty"`
	Seed         *uint64   `json:"seed,omitempty"`
	EndFrequency float64   `json:"endFrequency,omitempty"`
	Curve        string    `json:"curve,omitempty"`
	Gate         string    `json:"gate,omitempty"`
	Carrier      float64   `json:"carrier,omitempty"`
	Layers       []float64 `json:"layers,omitempty"`
	Drift        bool      `json:"drift,omitempty"`
}

type RenderResponse struct {
	RenderID  string  `json:"renderId"`
	Generator string  `json:"generator"`
	Channels  int     `json:"channels"`
	Duration  int     `json:"duration"`
	Bytes     int64   `json:"bytes"`
	Seed      uint64  `json:"seed,omitempty"`
	ElapsedMs float64 `json:"elapsedMs"`
	URL       string  `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
