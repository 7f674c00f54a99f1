package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSweetRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Category    string  `json:"category"    validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Quantity    int     `json:"quantity"    validate:"gte=0"`
	Description string  `json:"description"`
}

// updateSweetRequest is a partial patch; absent fields leave the stored value
// untouched, which is why every field is a pointer.
type updateSweetRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Category    *string  `json:"category"    validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity"    validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

// quantityRequest is the body of purchase and restock calls.
type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// searchSweetsRequest carries the optional catalog filters from the query
// string. Absent fields impose no constraint.
type searchSweetsRequest struct {
	Name     string   `query:"name"`
	Category string   `query:"category"`
	MinPrice *float64 `query:"minPrice"`
	MaxPrice *float64 `query:"maxPrice"`
}
