package jobs

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/resumatch/resumatch/internal/resume"
	"go.uber.org/zap"
)

const (
	// maxQuerySkills caps query specificity: more than three terms
	// over-constrains external search results.
	maxQuerySkills = 3

	genericQuery = "software developer"

	// neutralScore is assigned to every listing when the resume yields no
	// skill signal at all. It means "no signal", not "no match".
	neutralScore = 50
)

// Options narrow a match run.
type Options struct {
	Location string
	Page     int
}

// Matcher ranks externally-sourced listings against a resume record's
// extracted skills.
type Matcher struct {
	searcher Searcher
	salary   *SalaryFormatter
	logger   *zap.Logger
}

// NewMatcher creates a Matcher. searcher may be nil when no search
// credentials are configured; retrieval then degrades to the mock catalog.
func NewMatcher(searcher Searcher, salary *SalaryFormatter, logger *zap.Logger) *Matcher {
	if salary == nil {
		salary = NewSalaryFormatter("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		searcher: searcher,
		salary:   salary,
		logger:   logger,
	}
}

// Match fetches candidate listings, scores each against the record's skills
// and returns them ranked by descending match score. Ties keep the order the
// source returned them in.
func (m *Matcher) Match(ctx context.Context, record *resume.Record, opts Options) ([]*Listing, error) {
	skills := resume.ExtractSkills(record)
	query := buildQuery(skills.Hard)

	listings := m.fetch(ctx, query, opts)

	for _, listing := range listings {
		scoreListing(listing, skills)
		m.formatSalary(listing)
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].MatchScore > listings[j].MatchScore
	})

	m.logger.Info("listings ranked",
		zap.String("query", query),
		zap.Int("count", len(listings)),
		zap.Int("skill_count", len(skills.All)),
	)

	return listings, nil
}

// fetch delegates to the search backend and substitutes the mock catalog on
// missing credentials, failure, or an empty result.
func (m *Matcher) fetch(ctx context.Context, query string, opts Options) []*Listing {
	if m.searcher == nil {
		m.logger.Warn("job search backend not configured, using builtin catalog")
		return MockCatalog()
	}

	listings, err := m.searcher.Search(ctx, query, opts.Location, opts.Page)
	if err != nil {
		m.logger.Warn("job search failed, using builtin catalog", zap.Error(err))
		return MockCatalog()
	}
	if len(listings) == 0 {
		m.logger.Warn("job search returned no listings, using builtin catalog", zap.String("query", query))
		return MockCatalog()
	}

	return listings
}

// buildQuery takes at most the first three hard skills, falling back to a
// generic query when the record yielded none.
func buildQuery(hardSkills []string) string {
	if len(hardSkills) == 0 {
		return genericQuery
	}
	if len(hardSkills) > maxQuerySkills {
		hardSkills = hardSkills[:maxQuerySkills]
	}
	return strings.Join(hardSkills, " ")
}

// scoreListing computes the percentage of the resume's skills found in the
// listing text and fills the match fields in place.
func scoreListing(listing *Listing, skills resume.SkillSet) {
	score, matched := CalculateMatchScore(listing.Title+" "+listing.Description, skills.All)

	listing.MatchScore = score
	listing.MatchedSkills = matched
	listing.MissingSkills = missingHardSkills(skills.Hard, matched)
}

// CalculateMatchScore tests case-insensitive substring containment of every
// skill in the corpus and returns round(100*matched/total) clamped to
// [0,100]. An empty skill list scores the neutral 50.
func CalculateMatchScore(corpus string, skills []string) (int, []string) {
	matched := []string{}

	if len(skills) == 0 {
		return neutralScore, matched
	}

	haystack := strings.ToLower(corpus)
	for _, skill := range skills {
		if strings.Contains(haystack, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}

	score := int(math.Round(100 * float64(len(matched)) / float64(len(skills))))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, matched
}

// missingHardSkills reports the hard skills absent from the matched list.
// Soft skills are never reported as missing from a job ad.
func missingHardSkills(hard, matched []string) []string {
	matchedSet := make(map[string]struct{}, len(matched))
	for _, skill := range matched {
		matchedSet[strings.ToLower(skill)] = struct{}{}
	}

	missing := []string{}
	for _, skill := range hard {
		if _, ok := matchedSet[strings.ToLower(skill)]; !ok {
			missing = append(missing, skill)
		}
	}

	return missing
}

func (m *Matcher) formatSalary(listing *Listing) {
	if listing.Salary != "" {
		return
	}

	if listing.SalaryMin > 0 || listing.SalaryMax > 0 {
		listing.Salary = m.salary.FormatRange(listing.SalaryMin, listing.SalaryMax)
		return
	}

	listing.Salary = m.salary.Estimate(listing.Title)
}
