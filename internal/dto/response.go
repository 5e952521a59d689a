package dto

// DatasetSummary reports the record count for one entity collection.
type DatasetSummary struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
