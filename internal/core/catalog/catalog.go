// Package catalog holds the canonical publishing endpoint catalog: entry types,
// domain normalization, and source loading with a hardcoded fallback set
package catalog

import "fmt"

// Category classifies a publishing endpoint
type Category string

// Known categories
const (
	CategoryWeb2      Category = "web2_platform"
	CategoryForum     Category = "forum"
	CategoryDirectory Category = "directory"
	CategorySocial    Category = "social"
	CategoryWiki      Category = "wiki"
	CategoryDocs      Category = "docs"
)

// Difficulty grades how hard a submission is to automate
type Difficulty string

// Difficulty levels, ordered easy < medium < hard
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank returns a comparable weight for difficulty ceilings
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// SubmissionMethod is how content reaches the endpoint
type SubmissionMethod string

// Known submission methods
const (
	MethodAPI   SubmissionMethod = "api"
	MethodForm  SubmissionMethod = "form"
	MethodEmail SubmissionMethod = "email"
	MethodOAuth SubmissionMethod = "oauth"
)

// Entry is one publishing endpoint. Immutable once registered except for
// administrative correction
type Entry struct {
	ID              string           `json:"id"`
	Domain          string           `json:"domain"`
	DisplayName     string           `json:"display_name"`
	Category        Category         `json:"category"`
	AuthorityScore  int              `json:"authority_score"`
	Difficulty      Difficulty       `json:"difficulty"`
	AuthRequired    bool             `json:"auth_required"`
	AllowsBacklinks bool             `json:"allows_backlinks"`
	Method          SubmissionMethod `json:"submission_method"`
}

// Validate reports the first structural problem with an entry
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("catalog: entry %q has empty id", e.Domain)
	}
	if e.Domain == "" {
		return fmt.Errorf("catalog: entry %q has empty domain", e.ID)
	}
	if e.AuthorityScore < 0 || e.AuthorityScore > 100 {
		return fmt.Errorf("catalog: entry %q authority %d out of range", e.ID, e.AuthorityScore)
	}
	switch e.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("catalog: entry %q has unknown difficulty %q", e.ID, e.Difficulty)
	}
	switch e.Category {
	case CategoryWeb2, CategoryForum, CategoryDirectory, CategorySocial, CategoryWiki, CategoryDocs:
	default:
		return fmt.Errorf("catalog: entry %q has unknown category %q", e.ID, e.Category)
	}
	switch e.Method {
	case MethodAPI, MethodForm, MethodEmail, MethodOAuth:
	default:
		return fmt.Errorf("catalog: entry %q has unknown submission method %q", e.ID, e.Method)
	}
	return nil
}
