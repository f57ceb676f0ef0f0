package ingest

import "github.com/alexivanou/climate-api/internal/model"

// FilterRegion keeps the records whose region equals region, in order
func FilterRegion(records []model.CountryRecord, region string) []model.CountryRecord {
	out := make([]model.CountryRecord, 0, len(records))
	for _, r := range records {
		if r.Region == region {
			out = append(out, r)
		}
	}
	return out
}

// SplitBatch partitions records into two contiguous halves. The first
// holds floor(n/2) records and the second holds the rest.
func SplitBatch(records []model.CountryRecord) (first, second []model.CountryRecord) {
	mid := len(records) / 2
	return records[:mid], records[mid:]
}
