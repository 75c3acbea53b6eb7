package ledger

// Category is a closed set of transaction categories. Values outside
// the set are kept verbatim in storage and only fall back to the
// "Other" style for display.
type Category string

const (
	CategoryFoodDrink      Category = "Food & Drink"
	CategoryGroceries      Category = "Groceries"
	CategoryTransportation Category = "Transportation"
	CategoryUtilities      Category = "Utilities"
	CategoryRentMortgage   Category = "Rent/Mortgage"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthWellness Category = "Health & Wellness"
	CategoryTravel         Category = "Travel"
	CategoryOther          Category = "Other"
)

// Uncategorized is the grouping label for records with no category. It
// exists only in derived summaries, never in stored records.
const Uncategorized = "Uncategorized"

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFoodDrink,
	CategoryGroceries,
	CategoryTransportation,
	CategoryUtilities,
	CategoryRentMortgage,
	CategoryShopping,
	CategoryEntertainment,
	CategoryHealthWellness,
	CategoryTravel,
	CategoryOther,
}

// categoryStyles maps each category to the CSS class the embedded UI
// uses for its badge.
var categoryStyles = map[Category]string{
	CategoryFoodDrink:      "cat-food",
	CategoryGroceries:      "cat-groceries",
	CategoryTransportation: "cat-transport",
	CategoryUtilities:      "cat-utilities",
	CategoryRentMortgage:   "cat-rent",
	CategoryShopping:       "cat-shopping",
	CategoryEntertainment:  "cat-entertainment",
	CategoryHealthWellness: "cat-health",
	CategoryTravel:         "cat-travel",
	CategoryOther:          "cat-other",
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style returns the display style class for c. Unrecognized categories
// get the "Other" style without being normalized.
func (c Category) Style() string {
	if !c.Valid() {
		c = CategoryOther
	}
	return categoryStyles[c]
}
