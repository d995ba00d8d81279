// internal/models/competitor_db.go
package models

import "strings"

// CompetitorDB holds per-industry seed lists used to validate and enrich
// discovered competitors. Seed brands keep their canonical capitalization;
// dedup against discovered tokens is case-insensitive.
var CompetitorDB = map[string][]string{
	"athletic_wear": {
		"Nike", "Adidas", "Puma", "New Balance", "Asics", "Brooks",
		"Under Armour", "Hoka", "On Running", "Saucony", "Reebok", "Salomon",
	},
	"sunscreen": {
		"Supergoop", "ColorScience", "Peter Thomas Roth", "EltaMD",
		"La Roche-Posay", "Neutrogena", "CeraVe", "Blue Lizard",
		"Coola", "Sun Bum", "Black Girl Sunscreen", "Unseen Sunscreen",
		"Australian Gold", "Coppertone", "Banana Boat",
	},
	"furniture": {
		"Pottery Barn", "West Elm", "Arhaus", "Room & Board",
		"Crate and Barrel", "CB2", "Williams Sonoma Home",
		"Ethan Allen", "Mitchell Gold", "Four Hands",
		"Design Within Reach", "Article", "Joybird", "Burrow",
	},
	"skincare": {
		"CeraVe", "Cetaphil", "La Roche-Posay", "Neutrogena",
		"The Ordinary", "Paula's Choice", "Drunk Elephant",
		"Skinceuticals", "Sunday Riley", "Glossier",
	},
	"automotive": {
		"Tesla", "Rivian", "Lucid", "Ford", "Toyota", "Honda",
		"Chevrolet", "Hyundai", "Kia", "BMW", "Mercedes-Benz", "Polestar",
	},
}

// brandIndustryMap maps known brand names (lowercase) to their industry.
var brandIndustryMap = map[string]string{
	"nike":                 "athletic_wear",
	"adidas":               "athletic_wear",
	"brooks":               "athletic_wear",
	"brush on block":       "sunscreen",
	"bob":                  "sunscreen",
	"restoration hardware": "furniture",
	"rh":                   "furniture",
	"pottery barn":         "furniture",
	"west elm":             "furniture",
	"rivian":               "automotive",
	"tesla":                "automotive",
}

// DetectIndustry guesses the industry for a brand name, falling back to
// keyword sniffing on the name itself and finally "general".
func DetectIndustry(brandName string) string {
	brandLower := strings.ToLower(brandName)

	if industry, ok := brandIndustryMap[brandLower]; ok {
		return industry
	}

	switch {
	case containsAny(brandLower, "sunscreen", "spf", "sun protection"):
		return "sunscreen"
	case containsAny(brandLower, "furniture", "home", "furnishings"):
		return "furniture"
	case containsAny(brandLower, "skincare", "skin care", "beauty"):
		return "skincare"
	case containsAny(brandLower, "athletic", "running", "sport"):
		return "athletic_wear"
	}

	return "general"
}

// SeedCompetitors returns the seed list for an industry with the target
// brand removed. Unknown industries return an empty list; discovery then
// relies entirely on pattern extraction.
func SeedCompetitors(industry, targetBrand string) []string {
	seeds := CompetitorDB[industry]
	targetLower := strings.ToLower(targetBrand)

	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if strings.ToLower(s) == targetLower {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
