package types

import (
	"strings"
	"time"
)

// Domain is one of the fixed hackathon tracks a project can enter under.
type Domain string

const (
	DomainAIML          Domain = "AI/ML"
	DomainHealthTech    Domain = "HealthTech"
	DomainFinTech       Domain = "FinTech"
	DomainEdTech        Domain = "EdTech"
	DomainCleanTech     Domain = "Sustainability"
	DomainAgriTech      Domain = "AgriTech"
	DomainDevTools      Domain = "Developer Tools"
	DomainCybersecurity Domain = "Cybersecurity"
	DomainECommerce     Domain = "E-Commerce"
	DomainSocialImpact  Domain = "Social Impact"
	DomainGaming        Domain = "Gaming"
	DomainIoT           Domain = "IoT/Hardware"
	DomainOpen          Domain = "Open Innovation"
)

// Domains lists every valid track, in display order.
var Domains = []Domain{
	DomainAIML,
	DomainHealthTech,
	DomainFinTech,
	DomainEdTech,
	DomainCleanTech,
	DomainAgriTech,
	DomainDevTools,
	DomainCybersecurity,
	DomainECommerce,
	DomainSocialImpact,
	DomainGaming,
	DomainIoT,
	DomainOpen,
}

// ParseDomain maps free-form input onto a known track, defaulting to Open Innovation.
func ParseDomain(s string) Domain {
	trimmed := strings.TrimSpace(s)
	for _, d := range Domains {
		if strings.EqualFold(string(d), trimmed) {
			return d
		}
	}
	return DomainOpen
}

// Project is a hackathon submission as supplied by the submission flow.
// The evaluation core only reads it; derived records are persisted back
// onto it by the caller.
type Project struct {
	ID           string    `json:"id" db:"id"`
	TeamName     string    `json:"team_name" db:"team_name"`
	ProjectName  string    `json:"project_name" db:"project_name"`
	Domain       Domain    `json:"domain" db:"domain"`
	Description  string    `json:"description" db:"description"`
	GithubURL    string    `json:"github_url" db:"github_url"`
	HasSlideDeck bool      `json:"has_slide_deck" db:"has_slide_deck"`
	TeamMembers  []string  `json:"team_members"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Derived fields, written back after evaluation.
	PlagiarismScore int            `json:"plagiarism_score,omitempty"`
	Scores          map[string]int `json:"scores,omitempty"`
	WeightedTotal   float64        `json:"weighted_total,omitempty"`
}

// TeamSize returns the claimed team size, counting the team itself when
// no member list was supplied.
func (p *Project) TeamSize() int {
	if len(p.TeamMembers) == 0 {
		return 1
	}
	return len(p.TeamMembers)
}

// SubmitRequest is the payload for creating a project.
type SubmitRequest struct {
	TeamName     string   `json:"team_name" binding:"required"`
	ProjectName  string   `json:"project_name" binding:"required"`
	Domain       string   `json:"domain" binding:"required"`
	Description  string   `json:"description"`
	GithubURL    string   `json:"github_url"`
	HasSlideDeck bool     `json:"has_slide_deck"`
	TeamMembers  []string `json:"team_members"`
}

// AnalyzeRequest is the payload for the ad-hoc repository analysis endpoint.
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}
