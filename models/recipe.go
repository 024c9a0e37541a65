package models

type Ingredient struct {
	Name    string `json:"name" bson:"name"`
	Measure string `json:"measure,omitempty" bson:"measure,omitempty"`
}

// Recipe is a fully detailed record as returned by a by-id lookup.
// Records are never edited after they are fetched.
type Recipe struct {
	ID           string       `json:"id" bson:"id"`
	Name         string       `json:"name" bson:"name"`
	Thumbnail    string       `json:"thumbnail" bson:"thumbnail"`
	Category     string       `json:"category" bson:"category"`
	Area         string       `json:"area" bson:"area"`
	Video        string       `json:"video,omitempty" bson:"video,omitempty"`
	Source       string       `json:"source,omitempty" bson:"source,omitempty"`
	PrepMinutes  *int         `json:"prepMinutes,omitempty" bson:"prepMinutes,omitempty"` // upstream never sends it
	Instructions string       `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty" bson:"tags,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
}

// Stub is the minimal reference returned by the ingredient filter endpoint.
type Stub struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}
