package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/pageza/cravings/backend/internal/types"
)

// The wire types mirror the public ones with pointers so a missing key can
// be told apart from a zero value. Their validate tags are the recipe schema.

type wireMacros struct {
	ProteinG *float64 `json:"protein_g" validate:"required,gte=0"`
	CarbsG   *float64 `json:"carbs_g" validate:"required,gte=0"`
	FatG     *float64 `json:"fat_g" validate:"required,gte=0"`
}

type wireSuggestion struct {
	Name        *string     `json:"name" validate:"required,notblank"`
	Description *string     `json:"description" validate:"required,notblank"`
	Macros      *wireMacros `json:"macros" validate:"required"`
}

type wireIngredient struct {
	Name     *string `json:"name" validate:"required,notblank"`
	Quantity *string `json:"quantity" validate:"required"`
}

type wireRecipe struct {
	Name         *string          `json:"name" validate:"required,notblank"`
	Description  *string          `json:"description"`
	Macros       *wireMacros      `json:"macros" validate:"required"`
	CaloriesKcal *float64         `json:"calories_kcal" validate:"omitempty,gte=0"`
	Servings     *ServingsType    `json:"servings" validate:"required,gt=0"`
	Ingredients  []wireIngredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []*string        `json:"instructions" validate:"required,min=1,dive,required,notblank"`
}

// maxServings bounds servings before they are converted to an int
const maxServings = math.MaxInt32

// ServingsType accepts servings as a number or as a string that starts with one
type ServingsType int

func (s *ServingsType) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num != math.Trunc(num) {
			return &servingsError{fmt.Sprintf("servings must be a whole number, got %v", num)}
		}
		return s.set(num)
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				return s.set(float64(n))
			}
		}
		return &servingsError{fmt.Sprintf("invalid servings value %q", str)}
	}

	return &servingsError{"servings must be a number or a string starting with one"}
}

func (s *ServingsType) set(num float64) error {
	if math.Abs(num) > maxServings {
		return &servingsError{fmt.Sprintf("servings is out of range, got %v", num)}
	}
	*s = ServingsType(num)
	return nil
}

type servingsError struct {
	reason string
}

func (e *servingsError) Error() string {
	return e.reason
}

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ExtractSuggestions parses the whole trimmed completion text as the
// suggestion list. A bare array is expected; an object carrying the array
// under "recipes" is accepted too.
func ExtractSuggestions(raw string) ([]types.RecipeSuggestion, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, malformed(raw, "response is empty", nil)
	}

	var list []wireSuggestion
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Recipes *[]wireSuggestion `json:"recipes"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, decodeFailure(raw, err)
		}
		if wrapper.Recipes == nil {
			return nil, malformed(raw, `expected a JSON array or an object with a "recipes" array`, nil)
		}
		list = *wrapper.Recipes
	} else if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
		return nil, decodeFailure(raw, err)
	}

	if len(list) != SuggestionCount {
		return nil, malformed(raw, fmt.Sprintf("expected %d recipes, got %d", SuggestionCount, len(list)), nil)
	}

	suggestions := make([]types.RecipeSuggestion, 0, len(list))
	for i, w := range list {
		if err := schema.Struct(w); err != nil {
			return nil, malformed(raw, schemaFailure(fmt.Sprintf("recipes[%d]", i), err), err)
		}
		suggestions = append(suggestions, types.RecipeSuggestion{
			Name:        *w.Name,
			Description: *w.Description,
			Macros:      w.Macros.macros(),
		})
	}

	return suggestions, nil
}

// ExtractFullRecipe parses the substring from the first '{' to the last '}'
// of the completion text, so commentary or code fences around the object
// are ignored.
func ExtractFullRecipe(raw string) (*types.FullRecipe, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, malformed(raw, "no JSON object found in response", nil)
	}

	var w wireRecipe
	if err := json.Unmarshal([]byte(raw[start:end+1]), &w); err != nil {
		return nil, decodeFailure(raw, err)
	}

	if err := schema.Struct(w); err != nil {
		return nil, malformed(raw, schemaFailure("", err), err)
	}
	return w.recipe(), nil
}

func decodeFailure(raw string, err error) *MalformedResponseError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var servingsErr *servingsError
	switch {
	case errors.As(err, &servingsErr):
		return malformed(raw, servingsErr.reason, err)
	case errors.As(err, &syntaxErr):
		return malformed(raw, "response is not valid JSON", err)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "value"
		}
		return malformed(raw, fmt.Sprintf("%s must be %s, got %s", field, describeType(typeErr.Type), typeErr.Value), err)
	default:
		return malformed(raw, "response does not match the recipe schema", err)
	}
}

// describeType names a Go type the way the JSON it came from would
func describeType(t reflect.Type) string {
	if t == nil {
		return "a different type"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a number"
	default:
		return t.String()
	}
}

// schemaFailure turns the first validation error into a reason naming the
// offending field by its JSON path
func schemaFailure(prefix string, err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "response does not match the recipe schema"
	}

	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if prefix != "" {
		field = prefix + "." + field
	}

	switch fe.Tag() {
	case "required", "notblank":
		if strings.HasSuffix(field, "]") || fe.Kind() == reflect.Slice {
			return field + " must not be empty"
		}
		return field + " is required"
	case "min":
		return field + " must not be empty"
	case "gt":
		return field + " must be positive"
	case "gte":
		return field + " must not be negative"
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}

// macros and recipe are only called on values that passed the schema
func (w *wireMacros) macros() types.Macros {
	return types.Macros{ProteinG: *w.ProteinG, CarbsG: *w.CarbsG, FatG: *w.FatG}
}

func (w wireRecipe) recipe() *types.FullRecipe {
	ingredients := make([]types.Ingredient, 0, len(w.Ingredients))
	for _, ing := range w.Ingredients {
		ingredients = append(ingredients, types.Ingredient{Name: *ing.Name, Quantity: *ing.Quantity})
	}
	instructions := make([]string, 0, len(w.Instructions))
	for _, step := range w.Instructions {
		instructions = append(instructions, *step)
	}

	recipe := &types.FullRecipe{
		Name:         *w.Name,
		Macros:       w.Macros.macros(),
		Servings:     int(*w.Servings),
		Ingredients:  ingredients,
		Instructions: instructions,
	}
	if w.Description != nil {
		recipe.Description = *w.Description
	}
	if w.CaloriesKcal != nil {
		recipe.CaloriesKcal = *w.CaloriesKcal
	}
	return recipe
}
