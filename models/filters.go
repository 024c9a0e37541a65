package models

import (
	"fmt"
	"sort"
)

// Dietary restriction ids.
const (
	Vegetarian = "vegetarian"
	Vegan      = "vegan"
	GlutenFree = "glutenFree"
	DairyFree  = "dairyFree"
)

// DietaryIDs lists every known restriction in display order.
var DietaryIDs = []string{Vegetarian, Vegan, GlutenFree, DairyFree}

var dietaryLabels = map[string]string{
	Vegetarian: "Vegetarian",
	Vegan:      "Vegan",
	GlutenFree: "Gluten Free",
	DairyFree:  "Dairy Free",
}

// Cuisines offered by the filter panel. An empty cuisine means "All".
var Cuisines = []string{
	"American",
	"British",
	"Chinese",
	"French",
	"Indian",
	"Italian",
	"Japanese",
	"Mexican",
	"Thai",
	"Mediterranean",
}

// MaxTimeChoices are the preparation time caps offered, in minutes.
var MaxTimeChoices = []int{30, 45, 60}

type Filters struct {
	Cuisine    string          `json:"cuisine"`
	MaxMinutes int             `json:"maxTime,omitempty"`
	Dietary    map[string]bool `json:"dietary"`
}

// NewFilters returns filters with no constraints and every dietary key present.
func NewFilters() Filters {
	f := Filters{Dietary: make(map[string]bool, len(DietaryIDs))}
	for _, id := range DietaryIDs {
		f.Dietary[id] = false
	}
	return f
}

// Normalize returns a copy of f whose dietary map holds all known keys.
// The receiver's map is never shared with the result.
func (f Filters) Normalize() Filters {
	out := Filters{Cuisine: f.Cuisine, MaxMinutes: f.MaxMinutes, Dietary: make(map[string]bool, len(DietaryIDs))}
	for _, id := range DietaryIDs {
		out.Dietary[id] = f.Dietary[id]
	}
	return out
}

// Validate rejects unknown dietary keys and negative time caps.
func (f Filters) Validate() error {
	if f.MaxMinutes < 0 {
		return fmt.Errorf("max time must be positive, got %d", f.MaxMinutes)
	}
	var unknown []string
	for k := range f.Dietary {
		if _, ok := dietaryLabels[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown dietary restrictions: %v", unknown)
	}
	return nil
}

type DietaryOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type FilterOptions struct {
	Cuisines []string        `json:"cuisines"`
	MaxTimes []int           `json:"maxTimes"`
	Dietary  []DietaryOption `json:"dietary"`
}

func GetFilterOptions() FilterOptions {
	opts := FilterOptions{
		Cuisines: append([]string(nil), Cuisines...),
		MaxTimes: append([]int(nil), MaxTimeChoices...),
	}
	for _, id := range DietaryIDs {
		opts.Dietary = append(opts.Dietary, DietaryOption{ID: id, Label: dietaryLabels[id]})
	}
	return opts
}
