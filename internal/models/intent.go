package models

import "strings"

// FallbackTag is the reserved intent returned when nothing else matches.
const FallbackTag = "fallback"

// Intent is a named user-goal category with example patterns and candidate
// reply templates. Loaded once from the intents resource, immutable afterwards.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// CategoryGroup enumerates the six top-level catalog groupings the extractor
// can detect, in their fixed evaluation priority order.
type CategoryGroup string

const (
	GroupShoes         CategoryGroup = "shoes"
	GroupBags          CategoryGroup = "bags"
	GroupAccessories   CategoryGroup = "accessories"
	GroupWomenClothing CategoryGroup = "women_clothing"
	GroupMenClothing   CategoryGroup = "men_clothing"
	GroupKidClothing   CategoryGroup = "kid_clothing"
)

// Size is a normalized garment size.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// ExtractedFacets holds at most one value per slot, pulled from a single
// utterance. Zero values mean the slot is absent.
type ExtractedFacets struct {
	CategoryGroup CategoryGroup
	GarmentType   string
	Color         string
	Size          Size
}

// Empty reports whether no facet was extracted at all.
func (f ExtractedFacets) Empty() bool {
	return f.CategoryGroup == "" && f.GarmentType == "" && f.Color == "" && f.Size == ""
}

// Terms returns the human-readable facet terms in presentation order, used for
// the "couldn't find any ..." reply.
func (f ExtractedFacets) Terms() []string {
	var terms []string
	if f.CategoryGroup != "" {
		terms = append(terms, strings.TrimSuffix(string(f.CategoryGroup), "_clothing"))
	}
	if f.GarmentType != "" {
		terms = append(terms, f.GarmentType)
	}
	if f.Color != "" {
		terms = append(terms, f.Color)
	}
	if f.Size != "" {
		terms = append(terms, string(f.Size))
	}
	return terms
}
