package request

// TitleRequest references its category and genres by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,min=1,notfuture"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required,max=50,slug"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,max=50,slug"`
}

type TitleUpdateRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Year        *int      `json:"year,omitempty" validate:"omitempty,min=1,notfuture"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=50,slug"`
	Genre       *[]string `json:"genre,omitempty" validate:"omitempty,min=1,dive,max=50,slug"`
}

type TitleListRequest struct {
	PaginatedRequest
	Category string
	Genre    string
	Name     string
	Year     *int
}
