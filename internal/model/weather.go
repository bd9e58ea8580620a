package model

import "encoding/json"

// WeatherQuery is the validated input of GET /weather.
type WeatherQuery struct {
	City string `json:"city" validate:"required,max=255"`
}

// WeatherResult is the upstream payload, returned to callers byte for byte.
type WeatherResult json.RawMessage
