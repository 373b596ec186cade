package dto

// CategoryCount is one bar or slice of a chart.
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// CountsData is the chart payload: age and gender distributions for one date scope.
type CountsData struct {
	Date   string          `json:"date"`
	Total  int             `json:"total"`
	Age    []CategoryCount `json:"age"`
	Gender []CategoryCount `json:"gender"`
}

// ErrorResponse is returned by API handlers when a request cannot be served.
type ErrorResponse struct {
	Error string `json:"error"`
}
