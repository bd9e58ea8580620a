package display

import (
	"fmt"
	"math"
	"time"

	"github.com/fakhrymubarak/weather-gateway/internal/model"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@4x.png"

// View is what the result card shows.
type View struct {
	Location    string
	Date        string
	Temperature int
	Description string
	IconURL     string
	FeelsLike   int
	TempMin     int
	TempMax     int
	WindSpeed   float64
	Humidity    int
	Pressure    int
	// Visibility is empty when the provider did not report it.
	Visibility string
}

func NewView(w *model.CurrentWeather, now time.Time) View {
	cond := w.PrimaryCondition()

	v := View{
		Location:    w.Name,
		Date:        now.Format("2 January 2006"),
		Temperature: round(w.Main.Temp),
		Description: cond.Description,
		FeelsLike:   round(w.Main.FeelsLike),
		TempMin:     round(w.Main.TempMin),
		TempMax:     round(w.Main.TempMax),
		WindSpeed:   w.Wind.Speed,
		Humidity:    w.Main.Humidity,
		Pressure:    w.Main.Pressure,
	}
	if w.Sys.Country != "" {
		v.Location = w.Name + ", " + w.Sys.Country
	}
	if cond.Icon != "" {
		v.IconURL = fmt.Sprintf(iconURLFormat, cond.Icon)
	}
	if w.Visibility != nil {
		v.Visibility = fmt.Sprintf("%.1f km", float64(*w.Visibility)/1000)
	}
	return v
}

// round rounds half up, so -2.5 becomes -2 the way browsers display it.
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
