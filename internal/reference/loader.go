// Package reference loads the static country dataset (restcountries
// format) that seeds the countries and borders tables.
package reference

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/rotisserie/eris"
)

// ErrLoad is returned when the reference source is missing or malformed.
// Loading never yields a partial result.
var ErrLoad = errors.New("reference data could not be loaded")

type rawName struct {
	Common string `json:"common"`
}

type rawCountry struct {
	Code2     string    `json:"cca2"`
	Code3     string    `json:"cca3"`
	Name      rawName   `json:"name"`
	Capital   []string  `json:"capital"`
	Region    string    `json:"region"`
	Subregion string    `json:"subregion"`
	LatLng    []float64 `json:"latlng"`
	UNMember  bool      `json:"unMember"`
	Borders   []string  `json:"borders"`
}

func (c rawCountry) record() model.CountryRecord {
	r := model.CountryRecord{
		Code2:     c.Code2,
		Code3:     c.Code3,
		Name:      c.Name.Common,
		Region:    c.Region,
		Subregion: c.Subregion,
		UNMember:  c.UNMember,
		Borders:   c.Borders,
	}
	if len(c.Capital) > 0 {
		r.Capital = c.Capital[0]
	}
	if len(c.LatLng) >= 2 {
		lat, lon := c.LatLng[0], c.LatLng[1]
		r.Lat, r.Lon = &lat, &lon
	}
	if r.Borders == nil {
		r.Borders = []string{}
	}
	return r
}

// Loader reads country records from a .json file or a .zip holding one
type Loader struct {
	path string
}

// NewLoader creates a loader for the given source path
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the configured source path
func (l *Loader) Path() string {
	return l.path
}

// Load returns every record of the source in document order
func (l *Loader) Load(ctx context.Context) ([]model.CountryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "load reference data")
	}

	if strings.EqualFold(filepath.Ext(l.path), ".zip") {
		return l.loadFromZip()
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, eris.Wrapf(ErrLoad, "open %s: %v", l.path, err)
	}
	defer f.Close()

	return decode(f, l.path)
}

func (l *Loader) loadFromZip() ([]model.CountryRecord, error) {
	r, err := zip.OpenReader(l.path)
	if err != nil {
		return nil, eris.Wrapf(ErrLoad, "open zip %s: %v", l.path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(ErrLoad, "open %s in zip: %v", f.Name, err)
		}
		defer rc.Close()
		return decode(rc, f.Name)
	}
	return nil, eris.Wrapf(ErrLoad, "no json file found in %s", l.path)
}

func decode(r io.Reader, name string) ([]model.CountryRecord, error) {
	var raw []rawCountry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrapf(ErrLoad, "decode %s: %v", name, err)
	}

	records := make([]model.CountryRecord, 0, len(raw))
	for _, c := range raw {
		records = append(records, c.record())
	}
	return records, nil
}
