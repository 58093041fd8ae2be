package domain

// Filters mirror the optional query parameters of each list endpoint. Zero
// values mean "no constraint".

type CategoryFilter struct {
	ActiveOnly bool
}

type VendorFilter struct {
	City       string
	OnlineOnly bool
	MinRating  float64
}

type ProductFilter struct {
	VendorID   string
	CategoryID string
	Featured   bool
	Organic    bool
	Search     string
	InStock    bool
}

type OrderFilter struct {
	IDs        []string
	CustomerID string
	VendorID   string
	Status     string
}

type UserFilter struct {
	Role string
}
