package acrcloud

import "time"

// Match is the outcome of an identification request.
// When Identified is false, Message carries the provider's explanation.
type Match struct {
	Identified bool
	Message    string
	Track      Track
}

// Track is the best candidate returned by ACRCloud.
type Track struct {
	Title          string
	Artist         string
	Album          string
	Duration       time.Duration
	PlayOffset     time.Duration // offset into the track when the sample ended
	SampleDuration time.Duration
	Score          *int
}

// identifyResponse mirrors the JSON body of /v1/identify.
type identifyResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Msg     string `json:"msg"`
		Version string `json:"version"`
	} `json:"status"`
	Metadata *struct {
		Music []music `json:"music"`
	} `json:"metadata"`
}

type music struct {
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name string `json:"name"`
	} `json:"album"`
	DurationMs            int64 `json:"duration_ms"`
	PlayOffsetMs          int64 `json:"play_offset_ms"`
	SampleEndTimeOffsetMs int64 `json:"sample_end_time_offset_ms"`
	Score                 *int  `json:"score"`
}
