package model

// CurrentWeather is the subset of the OpenWeatherMap current weather payload
// the display client renders.
type CurrentWeather struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	// Visibility is in metres and not always reported.
	Visibility *int `json:"visibility,omitempty"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// PrimaryCondition returns the first reported condition, or a zero value.
func (w *CurrentWeather) PrimaryCondition() Condition {
	if len(w.Weather) == 0 {
		return Condition{}
	}
	return w.Weather[0]
}
