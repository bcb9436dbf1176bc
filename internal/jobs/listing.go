package jobs

import (
	"encoding/json"
	"os"
)

// Listing is one externally-sourced job posting. The match fields are
// populated once the listing is scored against a specific resume record.
type Listing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Salary      string `json:"salary,omitempty"`
	Source      string `json:"source"`

	// Raw salary bounds as reported by the source; zero when absent.
	SalaryMin float64 `json:"-"`
	SalaryMax float64 `json:"-"`

	MatchScore    int      `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// DumpToTmpFile writes the listings to a temp JSON file and returns its name.
func DumpToTmpFile(listings []*Listing) (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		return "", err
	}
	return file.Name(), nil
}
