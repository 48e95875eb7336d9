package scoring

import (
	"strings"

	"github.com/hackboard/hackboard/internal/types"
)

// domainKeywords holds three severity tiers of track-specific vocabulary.
// High-tier hits signal depth in the track; low-tier hits are surface
// mentions anyone could make.
type domainKeywords struct {
	High   []string
	Medium []string
	Low    []string
}

var domainKeywordTiers = map[types.Domain]domainKeywords{
	types.DomainAIML: {
		High:   []string{"fine-tuned", "fine tuning", "embedding", "transformer", "inference pipeline", "rag", "retrieval augmented", "model training", "neural network"},
		Medium: []string{"llm", "machine learning", "deep learning", "classification", "prediction model", "computer vision", "nlp"},
		Low:    []string{"ai", "gpt", "chatbot", "artificial intelligence", "smart"},
	},
	types.DomainHealthTech: {
		High:   []string{"clinical", "diagnosis", "patient records", "hipaa", "medical imaging", "telemedicine", "ehr"},
		Medium: []string{"patient", "doctor", "hospital", "symptom", "treatment", "therapy"},
		Low:    []string{"health", "medical", "wellness", "fitness"},
	},
	types.DomainFinTech: {
		High:   []string{"ledger", "settlement", "kyc", "fraud detection", "payment rails", "open banking", "reconciliation"},
		Medium: []string{"transaction", "payment", "banking", "lending", "portfolio", "credit score"},
		Low:    []string{"finance", "money", "wallet", "budget", "crypto"},
	},
	types.DomainEdTech: {
		High:   []string{"adaptive learning", "curriculum engine", "spaced repetition", "learning analytics", "assessment engine"},
		Medium: []string{"quiz", "course", "tutor", "classroom", "grading", "learning path"},
		Low:    []string{"education", "student", "teacher", "learn", "school"},
	},
	types.DomainCleanTech: {
		High:   []string{"carbon accounting", "emissions tracking", "grid optimization", "lifecycle analysis", "renewable forecast"},
		Medium: []string{"carbon footprint", "recycling", "solar", "energy usage", "waste reduction"},
		Low:    []string{"green", "sustainable", "eco", "climate", "environment"},
	},
	types.DomainAgriTech: {
		High:   []string{"precision agriculture", "soil sensor", "crop yield model", "irrigation scheduling", "ndvi"},
		Medium: []string{"crop", "harvest", "livestock", "soil", "irrigation", "greenhouse"},
		Low:    []string{"farm", "agriculture", "plant", "food supply"},
	},
	types.DomainDevTools: {
		High:   []string{"language server", "static analysis", "compiler", "ci pipeline", "profiler", "code generation", "sdk"},
		Medium: []string{"debugging", "linter", "refactoring", "api client", "developer workflow", "cli"},
		Low:    []string{"developer", "tool", "productivity", "plugin", "extension"},
	},
	types.DomainCybersecurity: {
		High:   []string{"threat modeling", "zero trust", "penetration testing", "vulnerability scanning", "intrusion detection", "siem"},
		Medium: []string{"encryption", "authentication", "phishing", "malware", "firewall", "audit log"},
		Low:    []string{"security", "password", "privacy", "secure"},
	},
	types.DomainECommerce: {
		High:   []string{"inventory sync", "checkout flow", "recommendation engine", "dynamic pricing", "order fulfillment"},
		Medium: []string{"cart", "storefront", "catalog", "merchant", "marketplace", "loyalty"},
		Low:    []string{"shop", "store", "retail", "ecommerce", "buy"},
	},
	types.DomainSocialImpact: {
		High:   []string{"accessibility audit", "community organizing", "humanitarian logistics", "civic data", "disaster response"},
		Medium: []string{"volunteer", "donation", "nonprofit", "accessibility", "inclusion"},
		Low:    []string{"social", "community", "impact", "charity", "help"},
	},
	types.DomainGaming: {
		High:   []string{"game engine", "procedural generation", "multiplayer netcode", "physics engine", "shader"},
		Medium: []string{"leaderboard", "level design", "matchmaking", "sprite", "game loop"},
		Low:    []string{"game", "play", "fun", "arcade", "puzzle"},
	},
	types.DomainIoT: {
		High:   []string{"firmware", "mqtt", "edge computing", "sensor fusion", "embedded", "telemetry pipeline"},
		Medium: []string{"sensor", "raspberry pi", "arduino", "microcontroller", "bluetooth", "gateway"},
		Low:    []string{"iot", "device", "hardware", "smart home"},
	},
	types.DomainOpen: {
		High:   []string{"novel algorithm", "distributed system", "real-time pipeline", "protocol design"},
		Medium: []string{"automation", "integration", "platform", "workflow", "analytics"},
		Low:    []string{"app", "website", "tool", "dashboard"},
	},
}

// keywordCredit counts tiered keyword hits in the description and converts
// them into score credit: 1.0 per high-tier hit, 0.5 per medium, 0.25 per
// low, capped.
func keywordCredit(domain types.Domain, description string, limit float64) float64 {
	tiers, ok := domainKeywordTiers[domain]
	if !ok {
		tiers = domainKeywordTiers[types.DomainOpen]
	}
	lower := strings.ToLower(description)

	credit := 0.0
	for _, kw := range tiers.High {
		if strings.Contains(lower, kw) {
			credit += 1.0
		}
	}
	for _, kw := range tiers.Medium {
		if strings.Contains(lower, kw) {
			credit += 0.5
		}
	}
	for _, kw := range tiers.Low {
		if strings.Contains(lower, kw) {
			credit += 0.25
		}
	}

	if credit > limit {
		return limit
	}
	return credit
}
