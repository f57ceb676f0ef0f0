package weather

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/rotisserie/eris"
)

type jsonMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Humidity  float64  `json:"humidity"`
}

type jsonPayload struct {
	Main *jsonMain `json:"main"`
	Dt   int64     `json:"dt"`
	Sys  struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// JSONFetcher retrieves current conditions in the provider's JSON format
type JSONFetcher struct {
	t *transport
}

// Fetch implements Fetcher
func (f *JSONFetcher) Fetch(ctx context.Context, capital string) (*model.Reading, error) {
	body, err := f.t.get(ctx, capital, "")
	if err != nil {
		return nil, err
	}
	return parseJSON(body, capital)
}

func parseJSON(body []byte, capital string) (*model.Reading, error) {
	var p jsonPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode json for %q: %v", capital, err)
	}
	if p.Dt == 0 {
		return nil, eris.Wrapf(ErrMalformedResponse, "no observation timestamp for %q", capital)
	}
	if p.Main == nil || p.Main.Temp == nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "no temperature for %q", capital)
	}

	return &model.Reading{
		Timestamp:   time.Unix(p.Dt, 0).UTC(),
		Temperature: *p.Main.Temp,
		FeelsLike:   p.Main.FeelsLike,
		TempMin:     p.Main.TempMin,
		TempMax:     p.Main.TempMax,
		Humidity:    p.Main.Humidity,
		Sunrise:     epochTimeOfDay(p.Sys.Sunrise),
		Sunset:      epochTimeOfDay(p.Sys.Sunset),
	}, nil
}

func epochTimeOfDay(sec int64) *model.TimeOfDay {
	if sec == 0 {
		return nil
	}
	d := model.NewTimeOfDay(time.Unix(sec, 0))
	return &d
}
