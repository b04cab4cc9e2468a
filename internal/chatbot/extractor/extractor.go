// Package extractor pulls structured search facets out of a free-text
// utterance. Extraction is pure: fixed keyword tables, substring scans,
// first match wins per slot, no catalog access.
package extractor

import (
	"strings"

	"fashionstore-chatbot/internal/models"
)

// categoryGroups lists the six category keyword sets in their fixed priority
// order. Earlier groups shadow later ones ("women" contains "men", so the
// women group must be checked first).
var categoryGroups = []struct {
	group    models.CategoryGroup
	keywords []string
}{
	{models.GroupShoes, []string{"shoes", "shoe", "footwear", "sneakers", "boots"}},
	{models.GroupBags, []string{"bags", "bag", "backpacks", "purse", "handbag"}},
	{models.GroupAccessories, []string{
		"accessories", "accessory", "jewellery", "jewelry", "watches",
		"earrings", "necklace", "ring", "bracelet", "belt",
	}},
	{models.GroupWomenClothing, []string{
		"women's wear", "womens wear", "ladies wear", "women", "ladies",
		"female", "dresses", "skirts", "tops",
	}},
	{models.GroupMenClothing, []string{
		"men's wear", "mens wear", "gent's wear", "gents wear", "men",
		"gents", "male", "shirts", "pants",
	}},
	{models.GroupKidClothing, []string{
		"kid's wear", "kids wear", "children's wear", "kids", "children",
		"boys", "girls",
	}},
}

// garmentTypes maps surface keywords to canonical garment tokens, in scan
// order. Plural and compound forms come before the bare forms they contain.
var garmentTypes = []struct {
	keyword   string
	canonical string
}{
	{"dresses", "dress"}, {"dress", "dress"}, {"gown", "dress"},
	{"t-shirts", "t-shirt"}, {"t-shirt", "t-shirt"}, {"tshirt", "t-shirt"}, {"tee", "t-shirt"},
	{"pants", "pant"}, {"jeans", "jeans"}, {"trouser", "pant"},
	{"shirts", "shirt"}, {"shirt", "shirt"},
	{"tops", "top"}, {"top", "top"},
	{"jackets", "jacket"}, {"jacket", "jacket"}, {"coat", "jacket"},
	{"skirts", "skirt"}, {"skirt", "skirt"},
	{"sarees", "saree"}, {"saree", "saree"}, {"sari", "saree"},
	{"hoodie", "hoodie"}, {"sweatshirt", "sweatshirt"},
	{"shorts", "shorts"}, {"leggings", "leggings"},
}

// colors is the closed palette, scanned in order.
var colors = []string{
	"red", "blue", "green", "black", "white", "pink", "yellow", "orange",
	"purple", "brown", "grey", "silver", "gold",
}

// sizes maps surface forms to normalized sizes. Compound forms precede the
// single-letter forms they contain (xxl before xl before l).
var sizes = []struct {
	keyword   string
	canonical models.Size
}{
	{"xx-large", models.SizeXXL}, {"xxl", models.SizeXXL},
	{"x-large", models.SizeXL}, {"extra large", models.SizeXL}, {"xl", models.SizeXL},
	{"extra small", models.SizeXS}, {"xs", models.SizeXS},
	{"small", models.SizeS},
	{"medium", models.SizeM},
	{"large", models.SizeL},
	{"s", models.SizeS}, {"m", models.SizeM}, {"l", models.SizeL},
}

// Extract scans the normalized utterance against the fixed keyword tables and
// returns at most one value per facet slot. Deterministic for a given input.
func Extract(utterance string) models.ExtractedFacets {
	var f models.ExtractedFacets

	for _, cg := range categoryGroups {
		if containsAny(utterance, cg.keywords) {
			f.CategoryGroup = cg.group
			break
		}
	}

	for _, gt := range garmentTypes {
		if strings.Contains(utterance, gt.keyword) {
			f.GarmentType = gt.canonical
			break
		}
	}

	for _, c := range colors {
		if strings.Contains(utterance, c) {
			f.Color = c
			break
		}
	}

	for _, sz := range sizes {
		// Single- and double-letter size forms need word boundaries so "s"
		// does not fire inside "shoes".
		if containsWord(utterance, sz.keyword) {
			f.Size = sz.canonical
			break
		}
	}

	return f
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// containsWord reports whether sub occurs in s bounded by non-alphanumeric
// characters (or the string ends) on both sides.
func containsWord(s, sub string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], sub)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(sub)
		leftOK := i == 0 || !isAlnum(s[i-1])
		rightOK := end == len(s) || !isAlnum(s[end])
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
