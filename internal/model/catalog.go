package model

type CategorySummary struct {
	Command string `json:"command"`
	Display string `json:"display"`
	Count   int    `json:"count"`
}

type Frequency struct {
	Hz          float64 `json:"hz"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

type CategoryDetail struct {
	CategorySummary
	Frequencies []Frequency `json:"frequencies"`
}
