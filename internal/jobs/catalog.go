package jobs

// MockCatalog returns the fixed, location-agnostic fallback listings used
// when the search backend is unconfigured, failing, or empty. The matching
// algorithm always gets input to score; degraded retrieval is not an error.
func MockCatalog() []*Listing {
	return []*Listing{
		{
			Title:       "Full Stack Developer",
			Company:     "BrightStack Labs",
			Location:    "Remote",
			Description: "We are looking for a full stack developer comfortable with JavaScript, TypeScript, React, Node.js and REST APIs. Experience with SQL databases and Docker is a plus.",
			URL:         "https://example.com/jobs/full-stack-developer",
			Source:      "builtin",
		},
		{
			Title:       "Backend Engineer",
			Company:     "Datafold Systems",
			Location:    "Remote",
			Description: "Backend engineer role focused on Go, Python, PostgreSQL and cloud infrastructure (AWS). You will design APIs, own services end to end and collaborate with a distributed team.",
			URL:         "https://example.com/jobs/backend-engineer",
			Source:      "builtin",
		},
		{
			Title:       "Frontend Developer",
			Company:     "Pixelwise",
			Location:    "Remote",
			Description: "Frontend developer needed with strong React, HTML, CSS and JavaScript skills. Familiarity with testing, accessibility and agile teamwork expected. Communication skills matter as much as code.",
			URL:         "https://example.com/jobs/frontend-developer",
			Source:      "builtin",
		},
	}
}
