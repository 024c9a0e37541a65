package mealdb

import (
	"strconv"
	"strings"

	"mealseek/models"
)

type wireStub struct {
	ID    string `json:"idMeal"`
	Name  string `json:"strMeal"`
	Thumb string `json:"strMealThumb"`
}

// wireMeal is kept as a map: the detail payload carries numbered
// strIngredientN / strMeasureN pairs and every value may be null.
type wireMeal map[string]any

const maxIngredientSlots = 20

func (m wireMeal) str(key string) string {
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func (m wireMeal) recipe() models.Recipe {
	r := models.Recipe{
		ID:           m.str("idMeal"),
		Name:         m.str("strMeal"),
		Thumbnail:    m.str("strMealThumb"),
		Category:     m.str("strCategory"),
		Area:         m.str("strArea"),
		Video:        m.str("strYoutube"),
		Source:       m.str("strSource"),
		Instructions: m.str("strInstructions"),
	}

	for _, t := range strings.Split(m.str("strTags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			r.Tags = append(r.Tags, t)
		}
	}

	for i := 1; i <= maxIngredientSlots; i++ {
		n := strconv.Itoa(i)
		name := m.str("strIngredient" + n)
		if name == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, models.Ingredient{Name: name, Measure: m.str("strMeasure" + n)})
	}
	return r
}
