package domain

type Category string

func (c Category) String() string {
	return string(c)
}

const (
	CategoryAll          Category = ""
	CategoryCleanser     Category = "cleanser"
	CategoryMoisturizer  Category = "moisturizer"
	CategoryHaircare     Category = "haircare"
	CategoryMakeup       Category = "makeup"
	CategorySkincare     Category = "skincare"
	CategoryHaircolor    Category = "haircolor"
	CategoryHairStyling  Category = "hair styling"
	CategoryMensGrooming Category = "men's grooming"
	CategorySuncare      Category = "suncare"
	CategoryFragrance    Category = "fragrance"
)

// Categories is the fixed set offered by the category selector
var Categories = []Category{
	CategoryCleanser,
	CategoryMoisturizer,
	CategoryHaircare,
	CategoryMakeup,
	CategorySkincare,
	CategoryHaircolor,
	CategoryHairStyling,
	CategoryMensGrooming,
	CategorySuncare,
	CategoryFragrance,
}

func (c Category) GetCategoryName() string {
	switch c {
	case CategoryAll:
		return "All Categories"
	case CategoryCleanser:
		return "Cleansers"
	case CategoryMoisturizer:
		return "Moisturizers"
	case CategoryHaircare:
		return "Haircare"
	case CategoryMakeup:
		return "Makeup"
	case CategorySkincare:
		return "Skincare"
	case CategoryHaircolor:
		return "Hair Color"
	case CategoryHairStyling:
		return "Hair Styling"
	case CategoryMensGrooming:
		return "Men's Grooming"
	case CategorySuncare:
		return "Suncare"
	case CategoryFragrance:
		return "Fragrance"
	default:
		return string(c)
	}
}
