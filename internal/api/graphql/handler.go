package graphql

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"github.com/mayank-anckr/express-kit/internal/logger"
)

// Handler executes GraphQL requests against the schema.
type Handler struct {
	schema graphql.Schema
	logger *logger.Logger
}

// NewHandler creates a new GraphQL handler.
func NewHandler(schema graphql.Schema, logger *logger.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handle binds the request and runs the query. Resolver errors are reported
// in the errors array of the result, as GraphQL clients expect.
func (h *Handler) Handle(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "invalid request body"}},
		})
		return
	}

	ctx := context.WithValue(c.Request.Context(), ginContextKey, c)

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		h.logger.Info("GraphQL handler: request completed with errors",
			"operation", req.OperationName,
			"errors", len(result.Errors))
	}

	c.JSON(http.StatusOK, result)
}
