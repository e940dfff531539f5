package types

// Macros represents the estimated macronutrient breakdown of a dish in grams
type Macros struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Calories returns the energy implied by the macros using 4/4/9 kcal per gram
func (m Macros) Calories() float64 {
	return m.ProteinG*4 + m.CarbsG*4 + m.FatG*9
}

// RecipeSuggestion is one of the ideas returned for a craving
type RecipeSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Macros      Macros `json:"macros"`
}

// Ingredient is a single line of a recipe's ingredient list
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// FullRecipe is a suggestion expanded into something you can cook
type FullRecipe struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Macros       Macros       `json:"macros"`
	CaloriesKcal float64      `json:"calories_kcal"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
}
