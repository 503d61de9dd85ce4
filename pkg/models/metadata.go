package models

// MetadataSet holds the reference lists used to populate the prediction form.
// Each list keeps the order in which the backend returned it.
type MetadataSet struct {
	Regions       []string `json:"regions"`
	Products      []string `json:"products"`
	Subcategories []string `json:"subcategories"`
}
