package filter

import (
	"fashionstore-chatbot/internal/models"
)

// textFields is the field set the broad text fallback and garment predicate
// search across.
var textFields = []Field{FieldName, FieldDescription, FieldCategory, FieldSubcategory}

// Compile translates extracted facets into a catalog predicate. The result is
// nil when no facet matched and the utterance is empty, meaning nothing to
// query. Availability filtering is appended by the store, not here.
//
// Facet sub-predicates AND-combine. The broad OR-text fallback over the raw
// utterance applies only when zero facets produced a predicate; one facet with
// zero catalog matches is a legitimate empty result, not a fallback trigger.
func Compile(f models.ExtractedFacets, utterance string) Expr {
	var parts []Expr

	if f.CategoryGroup != "" {
		parts = append(parts, compileGroup(f.CategoryGroup))
	}

	if f.GarmentType != "" {
		parts = append(parts, ContainsAnyField(f.GarmentType, textFields...))
	}

	if f.Color != "" {
		parts = append(parts, Equals{Field: FieldColor, Value: f.Color})
	}

	if f.Size != "" {
		parts = append(parts, Equals{Field: FieldSize, Value: string(f.Size)})
	}

	if len(parts) == 0 {
		if utterance == "" {
			return nil
		}
		return ContainsAnyField(utterance, textFields...)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return And{Exprs: parts}
}

func compileGroup(group models.CategoryGroup) Expr {
	switch group {
	case models.GroupWomenClothing:
		return Equals{Field: FieldGender, Value: string(models.GenderWomen)}
	case models.GroupMenClothing:
		return Equals{Field: FieldGender, Value: string(models.GenderMen)}
	case models.GroupKidClothing:
		return Equals{Field: FieldGender, Value: string(models.GenderKids)}
	case models.GroupShoes:
		return Or{Exprs: []Expr{
			Contains{FieldCategory, "shoe"},
			Contains{FieldSubcategory, "shoe"},
			Contains{FieldCategory, "footwear"},
			Contains{FieldSubcategory, "footwear"},
		}}
	case models.GroupBags:
		return compileBags()
	case models.GroupAccessories:
		return compileAccessories()
	}
	return nil
}

// compileBags matches bag-like products while excluding accessories/jewelry
// and clothing categories. The double negative guards against cross-category
// bleed: a product whose description mentions "accessories" must not satisfy
// a bags search just because it also says "bag".
func compileBags() Expr {
	var nameOrCategory []Expr
	for _, term := range []string{"bag", "backpack", "purse"} {
		nameOrCategory = append(nameOrCategory,
			Contains{FieldCategory, term},
			Contains{FieldSubcategory, term},
			Contains{FieldName, term},
			Contains{FieldDescription, term},
		)
	}
	nameOrCategory = append(nameOrCategory,
		Contains{FieldCategory, "luggage"},
		Contains{FieldSubcategory, "luggage"},
	)

	genderScope := Or{Exprs: []Expr{
		Equals{FieldGender, string(models.GenderUnisex)},
		And{Exprs: []Expr{Equals{FieldGender, string(models.GenderMen)}, Contains{FieldCategory, "bag"}}},
		And{Exprs: []Expr{Equals{FieldGender, string(models.GenderWomen)}, Contains{FieldCategory, "bag"}}},
		Contains{FieldCategory, "bag"},
	}}

	var accessoryExclusions []Expr
	for _, term := range []string{"accessories", "jewelry", "jewellery"} {
		accessoryExclusions = append(accessoryExclusions,
			Not{Contains{FieldCategory, term}},
			Not{Contains{FieldSubcategory, term}},
		)
	}
	for _, term := range []string{"ring", "necklace"} {
		accessoryExclusions = append(accessoryExclusions,
			Not{Contains{FieldName, term}},
			Not{Contains{FieldDescription, term}},
		)
	}

	var clothingExclusions []Expr
	for _, term := range []string{"clothing", "wear", "shoe", "footwear"} {
		clothingExclusions = append(clothingExclusions,
			Not{Contains{FieldCategory, term}},
			Not{Contains{FieldSubcategory, term}},
		)
	}

	parts := []Expr{Or{Exprs: nameOrCategory}, genderScope}
	parts = append(parts, accessoryExclusions...)
	parts = append(parts, clothingExclusions...)
	return And{Exprs: parts}
}

// compileAccessories matches accessory/jewelry categories while excluding
// products that look like clothing by name or category.
func compileAccessories() Expr {
	var categoryMatch []Expr
	for _, term := range []string{
		"accessories", "jewelry", "jewellery", "watches",
		"ring", "earring", "necklace", "bracelet",
	} {
		categoryMatch = append(categoryMatch,
			Contains{FieldCategory, term},
			Contains{FieldSubcategory, term},
		)
	}
	categoryMatch = append(categoryMatch, Equals{FieldGender, string(models.GenderUnisex)})

	var exclusions []Expr
	for _, term := range []string{"saree", "dress", "shirt", "pant", "jeans", "trouser"} {
		exclusions = append(exclusions, Not{Or{Exprs: []Expr{
			Contains{FieldName, term},
			Contains{FieldDescription, term},
		}}})
	}
	for _, term := range []string{"clothing", "wear"} {
		exclusions = append(exclusions, Not{Or{Exprs: []Expr{
			Contains{FieldCategory, term},
			Contains{FieldSubcategory, term},
		}}})
	}
	exclusions = append(exclusions, Not{Or{Exprs: []Expr{
		Contains{FieldCategory, "shoe"},
		Contains{FieldSubcategory, "shoe"},
		Contains{FieldCategory, "footwear"},
		Contains{FieldSubcategory, "footwear"},
	}}})

	parts := []Expr{Or{Exprs: categoryMatch}}
	parts = append(parts, exclusions...)
	return And{Exprs: parts}
}
