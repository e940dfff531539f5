package types

// SuggestRequest represents the request body for the suggestion endpoint
type SuggestRequest struct {
	Craving string `json:"craving" binding:"required"`
}

// DetailRequest represents the request body for the detail endpoint
type DetailRequest struct {
	Recipe *RecipeSuggestion `json:"recipe" binding:"required"`
}

// ErrorResponse is the body returned by both endpoints on failure
type ErrorResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}
