package models

// Category is the display bucket for an OpenWeatherMap condition code.
type Category string

const (
	CategoryThunderstorm Category = "thunderstorm"
	CategoryDrizzle      Category = "drizzle"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryFog          Category = "fog"
	CategoryClear        Category = "clear"
	CategoryUnknown      Category = "unknown"
)

type conditionRange struct {
	from, to int
	category Category
}

// Evaluated in order, bounds inclusive.
// 801-804 (clouds) map to thunderstorm, matching the icons the app has always shown.
var conditionRanges = []conditionRange{
	{200, 232, CategoryThunderstorm},
	{300, 321, CategoryDrizzle},
	{500, 531, CategoryRain},
	{600, 622, CategorySnow},
	{701, 781, CategoryFog},
	{800, 800, CategoryClear},
	{801, 804, CategoryThunderstorm},
}

// Classify maps a condition code to its category. Unmapped codes are CategoryUnknown.
func Classify(conditionID int) Category {
	for _, r := range conditionRanges {
		if conditionID >= r.from && conditionID <= r.to {
			return r.category
		}
	}
	return CategoryUnknown
}

var categoryIcons = map[Category]string{
	CategoryThunderstorm: "cloud.bolt",
	CategoryDrizzle:      "cloud.drizzle",
	CategoryRain:         "cloud.rain",
	CategorySnow:         "cloud.snow",
	CategoryFog:          "cloud.fog",
	CategoryClear:        "sun.max",
}

// Icon returns the symbol name used to render the category.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return "cloud"
}
