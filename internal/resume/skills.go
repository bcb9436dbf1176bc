package resume

import "strings"

// SkillSet is the flat, deduplicated view of a completed record's found
// keywords. All is hard plus soft skills; certifications are kept separate
// because they do not match reliably against free-text job descriptions.
type SkillSet struct {
	Hard           []string
	Soft           []string
	Certifications []string
	All            []string
}

// ExtractSkills derives the skill set from the record's analysis. Pure
// function; records without an analysis yield empty, non-nil slices.
func ExtractSkills(record *Record) SkillSet {
	set := SkillSet{
		Hard:           []string{},
		Soft:           []string{},
		Certifications: []string{},
		All:            []string{},
	}

	if record == nil || record.Analysis == nil {
		return set
	}

	found := record.Analysis.FoundKeywords
	set.Hard = dedupe(found.HardSkills)
	set.Soft = dedupe(found.SoftSkills)
	set.Certifications = dedupe(found.Certifications)
	set.All = dedupe(append(append([]string{}, set.Hard...), set.Soft...))

	return set
}

// dedupe removes duplicates case-insensitively, keeping the first occurrence
// and its original casing.
func dedupe(items []string) []string {
	result := []string{}
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}

	return result
}
