package category

// defaultRules is the built-in precedence-ordered rule set. Merchant names
// come before generic terms within the same concern, and concerns whose
// keywords are generic ("bill", "shop", "store") come last.
var defaultRules = []Rule{
	{
		Category: FoodDining,
		Keywords: []string{
			"swiggy", "zomato", "restaurant", "food", "starbucks", "coffee", "cafe",
			"domino", "pizza", "mcdonald", "burger", "eatsure",
		},
		Words: []string{"kfc", "dine", "dining"},
	},
	{
		Category: Groceries,
		Keywords: []string{
			"bigbasket", "blinkit", "grocery", "groceries", "supermarket", "dmart",
			"zepto", "instamart", "walmart", "metro cash",
		},
	},
	{
		Category: Fuel,
		Keywords: []string{"petrol", "fuel", "diesel", "shell", "indian oil", "hpcl", "bpcl", "iocl"},
	},
	{
		Category: Transport,
		Keywords: []string{"uber", "rapido", "olacabs", "ola cabs", "taxi", "metro", "fastag", "parking"},
		Words:    []string{"ola", "cab", "cabs"},
	},
	{
		Category: Travel,
		Keywords: []string{
			"makemytrip", "goibibo", "irctc", "cleartrip", "indigo", "air india", "vistara",
			"airbnb", "hotel", "flight", "yatra",
		},
		Words: []string{"oyo"},
	},
	{
		Category: Entertainment,
		Keywords: []string{"netflix", "spotify", "hotstar", "prime video", "bookmyshow", "cinema", "movie"},
		Words:    []string{"pvr", "inox", "prime"},
	},
	{
		Category: Health,
		Keywords: []string{"pharmacy", "hospital", "doctor", "medical", "clinic", "apollo", "pharmeasy", "chemist", "1mg"},
	},
	{
		Category: Education,
		Keywords: []string{"school", "college", "university", "tuition", "udemy", "coursera", "byju"},
	},
	{
		Category: Investment,
		Keywords: []string{"zerodha", "groww", "upstox", "mutual fund", "smallcase"},
		Words:    []string{"sip", "nps", "ppf"},
	},
	{
		Category: LoanEMI,
		Keywords: []string{"loan", "installment", "instalment"},
		Words:    []string{"emi"},
	},
	{
		Category: HousingRent,
		Keywords: []string{"landlord", "nobroker", "house rent", "rental"},
		Words:    []string{"rent"},
	},
	{
		Category: Utilities,
		Keywords: []string{
			"electricity", "bescom", "broadband", "jio", "airtel", "vodafone", "bsnl",
			"recharge", "water bill", "gas bill", "bill",
		},
		Words: []string{"act"},
	},
	{
		Category: Shopping,
		Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "meesho", "nykaa", "shop", "store", "mall"},
	},
	{
		Category: Salary,
		Keywords: []string{"salary", "payroll", "stipend"},
	},
	{
		Category: Freelance,
		Keywords: []string{"freelance", "upwork", "fiverr", "consulting"},
	},
}

var defaultTable = mustTable(defaultRules)

// Default returns the built-in rule table.
func Default() *Table {
	return defaultTable
}

func mustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}

	return t
}
