package model

// CountryRecord is a single entry of the country reference dataset after
// it has been decoded and validated at the loader boundary.
type CountryRecord struct {
	Code2     string
	Code3     string
	Name      string
	Capital   string
	Region    string
	Subregion string
	Lat       *float64
	Lon       *float64
	UNMember  bool
	Borders   []string
}

// HasCapital reports whether the reference entry names a capital city
func (r CountryRecord) HasCapital() bool {
	return r.Capital != ""
}

// Country represents a country in the database
type Country struct {
	ID        int64    `db:"id" json:"id"`
	Code2     string   `db:"code2" json:"code2"`
	Code3     string   `db:"code3" json:"code3"`
	Name      string   `db:"name" json:"name"`
	Capital   string   `db:"capital" json:"capital"`
	Region    string   `db:"region" json:"region"`
	Subregion string   `db:"subregion" json:"subregion"`
	Lat       *float64 `db:"lat" json:"lat"`
	Lon       *float64 `db:"lon" json:"lon"`
	IsMember  bool     `db:"is_member" json:"is_member"`
}

// NewCountry maps a reference record onto its persisted shape.
// The ID is assigned by the store.
func NewCountry(r CountryRecord) Country {
	return Country{
		Code2:     r.Code2,
		Code3:     r.Code3,
		Name:      r.Name,
		Capital:   r.Capital,
		Region:    r.Region,
		Subregion: r.Subregion,
		Lat:       r.Lat,
		Lon:       r.Lon,
		IsMember:  r.UNMember,
	}
}

// BorderEdge is a directed adjacency: CountryID borders the country whose
// code3 is NeighborCode3. The neighbor is not required to exist.
type BorderEdge struct {
	CountryID     int64  `db:"country_id"`
	NeighborCode3 string `db:"neighbor_code3"`
}

// Neighbor is a border edge resolved against the countries table
type Neighbor struct {
	Code3     string `db:"neighbor_code3" json:"code3"`
	CountryID int64  `db:"country_id" json:"country_id"`
	Name      string `db:"name" json:"name"`
}
