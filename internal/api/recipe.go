package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/internal/middleware"
	"github.com/pageza/cravings/backend/internal/service"
	"github.com/pageza/cravings/backend/internal/types"
)

// RecipeHandler serves the craving to suggestion to full recipe flow
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  logrus.FieldLogger
}

func NewRecipeHandler(recipes service.IRecipeService, logger logrus.FieldLogger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/suggestions", h.Suggest)
		recipes.POST("/details", h.Detail)
	}
}

// Suggest turns a craving into three recipe suggestions
func (h *RecipeHandler) Suggest(c *gin.Context) {
	var req types.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMissingField(err) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Craving is required"})
			return
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	suggestions, err := h.recipes.Suggest(c.Request.Context(), req.Craving)
	if err != nil {
		log := middleware.Logger(c, h.logger)

		var malformed *service.MalformedResponseError
		switch {
		case errors.Is(err, service.ErrCravingRequired):
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Craving is required"})
		case errors.As(err, &malformed):
			log.WithError(err).Error("Failed to parse recipe suggestions")
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:       "Failed to parse recipe response",
				Details:     malformed.Reason,
				RawResponse: malformed.Raw,
			})
		default:
			log.WithError(err).Error("Failed to generate recipe suggestions")
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "Failed to generate recipes",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// Detail expands a chosen suggestion into a full recipe
func (h *RecipeHandler) Detail(c *gin.Context) {
	var req types.DetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMissingField(err) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Recipe is required"})
			return
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}

	recipe, err := h.recipes.Expand(c.Request.Context(), *req.Recipe)
	if err != nil {
		log := middleware.Logger(c, h.logger).WithField("recipe", req.Recipe.Name)

		var malformed *service.MalformedResponseError
		switch {
		case errors.Is(err, service.ErrRecipeRequired):
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Recipe name is required"})
		case errors.As(err, &malformed):
			log.WithError(err).WithField("raw_response", malformed.Raw).Error("Failed to parse recipe details")
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to parse recipe details"})
		default:
			log.WithError(err).Error("Failed to generate recipe details")
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to generate recipe details"})
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// isMissingField reports whether binding failed on a validation tag rather
// than on malformed JSON
func isMissingField(err error) bool {
	var errs validator.ValidationErrors
	return errors.As(err, &errs)
}
