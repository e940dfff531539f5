package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pageza/cravings/backend/internal/types"
)

// SuggestionCount is the number of ideas requested for every craving
const SuggestionCount = 3

const suggestionSystemPrompt = `You are a culinary expert and a health-conscious AI. You answer with JSON only.
Never include explanations, conversational filler or markdown formatting (like ` + "```json" + `).`

const detailSystemPrompt = `You are a professional chef and nutritionist. You answer with JSON only.
Never include explanations, conversational filler or markdown formatting (like ` + "```json" + `).`

// BuildSuggestionPrompt renders the user prompt asking for recipe ideas for a craving
func BuildSuggestionPrompt(craving string) string {
	return fmt.Sprintf(`Generate exactly %d distinct and appealing recipe ideas based on a user's craving.

The response must be a single JSON array containing exactly %d objects and nothing else.
Do not include any other text, markdown formatting or code fences.

Each object in the array must have the following keys and data types:
* name: A string for the recipe's name.
* description: A brief string (1-2 sentences) describing the dish and its flavor profile.
* macros: An object with the estimated macronutrient breakdown per serving. It must have three number keys:
    * protein_g: A number for estimated grams of protein.
    * carbs_g: A number for estimated grams of carbohydrates.
    * fat_g: A number for estimated grams of fat.

The macro values must be numbers, not strings. Example of the exact shape:
[
    {
        "name": "Recipe name",
        "description": "Short description of the dish.",
        "macros": {"protein_g": 30, "carbs_g": 45, "fat_g": 12}
    }
]

Your response should be based on the following user craving: %s`, SuggestionCount, SuggestionCount, craving)
}

// BuildDetailPrompt renders the user prompt expanding a suggestion into a full recipe
func BuildDetailPrompt(s types.RecipeSuggestion) string {
	protein := formatGrams(s.Macros.ProteinG)
	carbs := formatGrams(s.Macros.CarbsG)
	fat := formatGrams(s.Macros.FatG)

	return fmt.Sprintf(`Expand the following recipe idea into a complete recipe.

Name: %s
Description: %s
Macros per serving: protein %sg, carbs %sg, fat %sg

Keep the name and the macros given above. Work out calories_kcal as protein_g*4 + carbs_g*4 + fat_g*9.

The response must be a single JSON object and nothing else.
Do not include any other text, markdown formatting or code fences.
The object must have exactly this shape, with numbers as numbers and not strings:
{
    "name": %s,
    "description": "Brief description of the recipe",
    "macros": {"protein_g": %s, "carbs_g": %s, "fat_g": %s},
    "calories_kcal": 500,
    "servings": 2,
    "ingredients": [
        {"name": "chicken thighs", "quantity": "500 g"},
        {"name": "olive oil", "quantity": "1 tbsp"}
    ],
    "instructions": [
        "Step 1: Prepare the ingredients",
        "Step 2: Cook the dish"
    ]
}

ingredients and instructions must each contain at least one entry, in the order they are used.`,
		s.Name, s.Description, protein, carbs, fat,
		jsonString(s.Name), protein, carbs, fat)
}

// formatGrams prints 40 as "40" and 12.5 as "12.5"
func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func jsonString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}
