package geo

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Lookup maps free-text place names to region codes for the geographic
// chart. Places keeps explicit order: the first place found inside a
// location string decides the region, so order is part of the contract.
// The list holds every city first (reference CSV row order), then each
// distinct country in first-appearance order.
type Lookup struct {
	Places        []string          `json:"places"`
	PlaceToRegion map[string]string `json:"place_to_region"`
	RegionName    map[string]string `json:"region_name"`
}

// BuildFromCSV reads a reference geography CSV with at least the columns
// city_ascii, country and iso3 and produces the lookup triple.
func BuildFromCSV(r io.Reader) (*Lookup, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"city_ascii", "country", "iso3"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("reference CSV is missing column %q", required)
		}
	}

	lookup := &Lookup{
		PlaceToRegion: make(map[string]string),
		RegionName:    make(map[string]string),
	}

	var countries []string
	seenCountry := map[string]bool{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		city := field(record, cols["city_ascii"])
		country := field(record, cols["country"])
		code := field(record, cols["iso3"])
		if code == "" {
			continue
		}

		if city != "" {
			lookup.Places = append(lookup.Places, city)
			if _, ok := lookup.PlaceToRegion[city]; !ok {
				lookup.PlaceToRegion[city] = code
			}
		}
		if country != "" {
			if !seenCountry[country] {
				seenCountry[country] = true
				countries = append(countries, country)
				lookup.PlaceToRegion[country] = code
			}
			lookup.RegionName[code] = country
		}
	}

	lookup.Places = append(lookup.Places, countries...)

	return lookup, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// Save serializes the lookup triple to disk as JSON.
func (l *Lookup) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create lookup file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(l); err != nil {
		return fmt.Errorf("failed to encode lookup: %w", err)
	}
	return nil
}

// Load reads a lookup previously written by Save. The result is treated
// as read-only for the rest of the process lifetime.
func Load(path string) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup file: %w", err)
	}
	defer f.Close()

	var lookup Lookup
	if err := json.NewDecoder(f).Decode(&lookup); err != nil {
		return nil, fmt.Errorf("failed to decode lookup: %w", err)
	}
	return &lookup, nil
}
