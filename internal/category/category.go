package category

// Category is a closed-set classification of spending or income purpose.
type Category string

const (
	FoodDining    Category = "Food & Dining"
	Groceries     Category = "Groceries"
	Transport     Category = "Transport"
	Fuel          Category = "Fuel"
	HousingRent   Category = "Housing & Rent"
	Utilities     Category = "Utilities (Bills)"
	LoanEMI       Category = "EMI / Loan"
	Entertainment Category = "Entertainment"
	Health        Category = "Health & Medical"
	Shopping      Category = "Shopping"
	Travel        Category = "Travel"
	Education     Category = "Education"
	Investment    Category = "Investment"
	Salary        Category = "Salary"
	Freelance     Category = "Freelance"
	Other         Category = "Other"
)

var all = []Category{
	FoodDining,
	Groceries,
	Transport,
	Fuel,
	HousingRent,
	Utilities,
	LoanEMI,
	Entertainment,
	Health,
	Shopping,
	Travel,
	Education,
	Investment,
	Salary,
	Freelance,
	Other,
}

// All returns every category in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)

	return out
}

// Strings returns the category labels, e.g. for a schema enum.
func Strings() []string {
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = string(c)
	}

	return out
}

// Parse returns the category whose label equals s exactly.
func Parse(s string) (Category, bool) {
	c := Category(s)

	return c, c.Valid()
}

func (c Category) Valid() bool {
	for _, known := range all {
		if c == known {
			return true
		}
	}

	return false
}
