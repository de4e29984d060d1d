package model

import "time"

// RetrievedWebpage is one hydrated result record (§6 Query response).
type RetrievedWebpage struct {
	URL                        string     `json:"url"`
	Title                      string     `json:"title"`
	Body                       string     `json:"body"`
	Snippet                    string     `json:"snippet"`
	Description                string     `json:"description,omitempty"`
	DmozDescription            string     `json:"dmoz_description,omitempty"`
	UpdatedTime                *time.Time `json:"updated_time,omitempty"`
	Region                     RegionCode `json:"region,omitempty"`
	SchemaOrg                  []Item     `json:"schema_org,omitempty"`
	LikelyHasAds               bool       `json:"likely_has_ads"`
	LikelyHasPaywall           bool       `json:"likely_has_paywall"`
	RecipeFirstIngredientTagId string     `json:"recipe_first_ingredient_tag_id,omitempty"`
	Keywords                   []string   `json:"keywords,omitempty"`
}

// SearchResponse is the external query response (§6).
type SearchResponse struct {
	NumDocs  *uint64             `json:"num_docs,omitempty"`
	Webpages []*RetrievedWebpage `json:"webpages"`
}
