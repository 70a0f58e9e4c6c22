// Package graphql exposes the session and profile operations over a GraphQL
// endpoint. The mutations mirror the REST handlers and set the same session
// cookies.
package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/mayank-anckr/express-kit/internal/api/http/handler"
	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

type contextKey int

const ginContextKey contextKey = iota

// Resolver wires the services into the GraphQL schema.
type Resolver struct {
	authService    handler.AuthService
	profileService handler.ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(
	authService handler.AuthService,
	profileService handler.ProfileService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Resolver {
	return &Resolver{
		authService:    authService,
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"unique_id_key": &graphql.Field{Type: graphql.String},
		"username":      &graphql.Field{Type: graphql.String},
		"email":         &graphql.Field{Type: graphql.String},
		"image":         &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"accessToken":  &graphql.Field{Type: graphql.String},
		"refreshToken": &graphql.Field{Type: graphql.String},
		"message":      &graphql.Field{Type: graphql.String},
	},
})

var messagePayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MessagePayload",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.String},
	},
})

type userView struct {
	UniqueIDKey string `json:"unique_id_key"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Image       string `json:"image"`
}

type authPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// Schema builds the executable schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.resolveUsers,
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveUser,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signUp": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveSignUp,
			},
			"signIn": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveSignIn,
			},
			"refreshAccessTokenChanger": &graphql.Field{
				Type:    authPayloadType,
				Resolve: r.resolveRefresh,
			},
			"forgotPassword": &graphql.Field{
				Type: messagePayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"baseUrl":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveForgotPassword,
			},
			"resetPassword": &graphql.Field{
				Type: messagePayloadType,
				Args: graphql.FieldConfigArgument{
					"unique_id_key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveResetPassword,
			},
			"updateUser": &graphql.Field{
				Type: messagePayloadType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"image":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveUpdateUser,
			},
			"deleteUser": &graphql.Field{
				Type: messagePayloadType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveDeleteUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// sanitizeErr keeps domain errors client-visible and hides everything else
// behind a generic message, matching the REST error mapper. The real error is
// logged before it is replaced.
func (r *Resolver) sanitizeErr(operation string, err error) error {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFound("record not found")
	}

	r.logger.Error("GraphQL resolver: operation failed",
		"operation", operation,
		"error", err.Error())
	return model.NewInternal("internal server error")
}

func (r *Resolver) resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := r.contextManager.GetPrincipal(p.Context); !ok {
		return nil, model.NewUnauthorized("authorization required")
	}

	profiles, err := r.profileService.GetAll(p.Context)
	if err != nil {
		return nil, r.sanitizeErr("users", err)
	}

	out := make([]userView, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, toUserView(profile))
	}
	return out, nil
}

func (r *Resolver) resolveUser(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := r.contextManager.GetPrincipal(p.Context); !ok {
		return nil, model.NewUnauthorized("authorization required")
	}

	key, err := uuid.Parse(p.Args["id"].(string))
	if err != nil {
		return nil, model.NewInvalidInput("invalid account key")
	}

	profile, err := r.profileService.GetByAccountKey(p.Context, key)
	if err != nil {
		return nil, r.sanitizeErr("user", err)
	}
	return toUserView(profile), nil
}

func (r *Resolver) resolveSignUp(p graphql.ResolveParams) (interface{}, error) {
	pair, err := r.authService.SignUp(p.Context, p.Args["username"].(string), p.Args["password"].(string))
	if err != nil {
		return nil, r.sanitizeErr("signUp", err)
	}

	r.setCookies(p.Context, pair)
	return authPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "Account created successfully",
	}, nil
}

func (r *Resolver) resolveSignIn(p graphql.ResolveParams) (interface{}, error) {
	pair, err := r.authService.SignIn(p.Context, p.Args["username"].(string), p.Args["password"].(string))
	if err != nil {
		return nil, r.sanitizeErr("signIn", err)
	}

	r.setCookies(p.Context, pair)
	return authPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "Signed in successfully",
	}, nil
}

func (r *Resolver) resolveRefresh(p graphql.ResolveParams) (interface{}, error) {
	presented := r.refreshToken(p.Context)
	if presented == "" {
		return nil, model.NewUnauthorized("refresh token required")
	}

	pair, err := r.authService.RefreshAccessToken(p.Context, presented)
	if err != nil {
		return nil, r.sanitizeErr("refreshAccessTokenChanger", err)
	}

	r.setCookies(p.Context, pair)
	return authPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Message:      "Token refreshed successfully",
	}, nil
}

func (r *Resolver) resolveForgotPassword(p graphql.ResolveParams) (interface{}, error) {
	resetURL, err := r.authService.ForgotPassword(p.Context, p.Args["username"].(string), p.Args["baseUrl"].(string))
	if err != nil {
		return nil, r.sanitizeErr("forgotPassword", err)
	}
	return messagePayload{Message: fmt.Sprintf("Reset link sent: %s", resetURL)}, nil
}

func (r *Resolver) resolveResetPassword(p graphql.ResolveParams) (interface{}, error) {
	err := r.authService.ResetPassword(p.Context, p.Args["unique_id_key"].(string), p.Args["password"].(string))
	if err != nil {
		return nil, r.sanitizeErr("resetPassword", err)
	}
	return messagePayload{Message: "Password updated successfully"}, nil
}

func (r *Resolver) resolveUpdateUser(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := r.contextManager.GetPrincipal(p.Context); !ok {
		return nil, model.NewUnauthorized("authorization required")
	}

	key, err := uuid.Parse(p.Args["id"].(string))
	if err != nil {
		return nil, model.NewInvalidInput("invalid account key")
	}

	current, err := r.profileService.GetByAccountKey(p.Context, key)
	if err != nil {
		return nil, r.sanitizeErr("updateUser", err)
	}

	username := stringArg(p.Args, "username", current.Username)
	email := stringArg(p.Args, "email", current.Email)
	image := stringArg(p.Args, "image", current.Image)

	if err := r.profileService.Update(p.Context, key, username, email, image); err != nil {
		return nil, r.sanitizeErr("updateUser", err)
	}
	return messagePayload{Message: "Profile updated successfully"}, nil
}

func (r *Resolver) resolveDeleteUser(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := r.contextManager.GetPrincipal(p.Context); !ok {
		return nil, model.NewUnauthorized("authorization required")
	}

	key, err := uuid.Parse(p.Args["id"].(string))
	if err != nil {
		return nil, model.NewInvalidInput("invalid account key")
	}

	if err := r.profileService.Delete(p.Context, key); err != nil {
		return nil, r.sanitizeErr("deleteUser", err)
	}
	return messagePayload{Message: "Profile deleted successfully"}, nil
}

func toUserView(profile model.Profile) userView {
	return userView{
		UniqueIDKey: profile.AccountKey.String(),
		Username:    profile.Username,
		Email:       profile.Email,
		Image:       profile.Image,
	}
}

func stringArg(args map[string]interface{}, name, fallback string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// setCookies writes the session cookies when the request came through the
// HTTP handler.
func (r *Resolver) setCookies(ctx context.Context, pair model.TokenPair) {
	c, ok := ctx.Value(ginContextKey).(*gin.Context)
	if !ok {
		return
	}
	handler.SetTokenCookies(c, pair)
}

// refreshToken reads the presented refresh token from the request cookie or
// the x-refresh-token header.
func (r *Resolver) refreshToken(ctx context.Context) string {
	c, ok := ctx.Value(ginContextKey).(*gin.Context)
	if !ok {
		return ""
	}

	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader("x-refresh-token")
}
