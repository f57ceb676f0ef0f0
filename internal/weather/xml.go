package weather

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// xmlTimeLayout is the provider's naive timestamp format, interpreted as UTC
const xmlTimeLayout = "2006-01-02T15:04:05"

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlCurrent struct {
	XMLName xml.Name `xml:"current"`
	City    struct {
		Sun *struct {
			Rise string `xml:"rise,attr"`
			Set  string `xml:"set,attr"`
		} `xml:"sun"`
	} `xml:"city"`
	Temperature *struct {
		Value string `xml:"value,attr"`
		Min   string `xml:"min,attr"`
		Max   string `xml:"max,attr"`
	} `xml:"temperature"`
	FeelsLike  *xmlValue `xml:"feels_like"`
	Humidity   *xmlValue `xml:"humidity"`
	LastUpdate *xmlValue `xml:"lastupdate"`
}

// XMLFetcher retrieves current conditions in the provider's XML format
type XMLFetcher struct {
	t *transport
}

// Fetch implements Fetcher
func (f *XMLFetcher) Fetch(ctx context.Context, capital string) (*model.Reading, error) {
	body, err := f.t.get(ctx, capital, "xml")
	if err != nil {
		return nil, err
	}
	return parseXML(body, capital)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

func parseXML(body []byte, capital string) (*model.Reading, error) {
	var doc xmlCurrent
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode xml for %q: %v", capital, err)
	}

	if doc.LastUpdate == nil || doc.LastUpdate.Value == "" {
		return nil, eris.Wrapf(ErrMalformedResponse, "no observation timestamp for %q", capital)
	}
	ts, err := time.ParseInLocation(xmlTimeLayout, doc.LastUpdate.Value, time.UTC)
	if err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "bad observation timestamp for %q: %v", capital, err)
	}

	if doc.Temperature == nil || doc.Temperature.Value == "" {
		return nil, eris.Wrapf(ErrMalformedResponse, "no temperature for %q", capital)
	}

	reading := &model.Reading{Timestamp: ts}
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"temperature", doc.Temperature.Value, &reading.Temperature},
		{"temperature min", doc.Temperature.Min, &reading.TempMin},
		{"temperature max", doc.Temperature.Max, &reading.TempMax},
		{"feels_like", valueOf(doc.FeelsLike), &reading.FeelsLike},
		{"humidity", valueOf(doc.Humidity), &reading.Humidity},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, eris.Wrapf(ErrMalformedResponse, "bad %s for %q: %v", f.name, capital, err)
		}
		*f.dst = v
	}

	if sun := doc.City.Sun; sun != nil {
		if reading.Sunrise, err = naiveTimeOfDay(sun.Rise); err != nil {
			return nil, eris.Wrapf(ErrMalformedResponse, "bad sunrise for %q: %v", capital, err)
		}
		if reading.Sunset, err = naiveTimeOfDay(sun.Set); err != nil {
			return nil, eris.Wrapf(ErrMalformedResponse, "bad sunset for %q: %v", capital, err)
		}
	}

	return reading, nil
}

func valueOf(v *xmlValue) string {
	if v == nil {
		return ""
	}
	return v.Value
}

func naiveTimeOfDay(s string) (*model.TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(xmlTimeLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	d := model.NewTimeOfDay(t)
	return &d, nil
}
