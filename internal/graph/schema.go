// Package graph composes the GraphQL schema served by the API.
//
// The schema is built once at startup from declarative object definitions
// and is immutable afterwards. Resolvers read the caller's identity from the
// request context (derived by the identity middleware) and delegate to the
// service layer; every failure they return is one of the service package's
// sentinel errors.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/libris/libris/internal/auth"
	"github.com/libris/libris/internal/model"
	"github.com/libris/libris/internal/service"
)

// Resolver carries the services the schema resolves against.
type Resolver struct {
	Users     *service.UserService
	Libraries *service.LibraryService
}

// NewSchema builds the executable schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	libraryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Library",
		Description: "A user's library of opaque string data",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
			},
			"data": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "User",
		Description: "A registered user account",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
			},
			"username": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
			},
			"library": &graphql.Field{
				Type: libraryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*model.User)
					if !ok {
						return nil, nil
					}
					return r.Libraries.ForUser(p.Context, user.ID)
				},
			},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "AuthenticatedPayload",
		Description: "A freshly issued token together with the user it authenticates",
		Fields: graphql.Fields{
			"uniqueToken": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.AuthPayload).Token, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*model.AuthPayload).User, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"currentUser": &graphql.Field{
				Type:        userType,
				Description: "Query information about the current authenticated user",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := auth.UserIDFromContext(p.Context)
					if !ok {
						return nil, service.ErrUnauthenticated
					}
					return r.Users.Current(p.Context, userID)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type:        graphql.NewNonNull(authPayloadType),
				Description: "Create a new user account together with its empty library",
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.Signup(p.Context,
						p.Args["username"].(string),
						p.Args["email"].(string),
						p.Args["password"].(string),
					)
				},
			},
			"login": &graphql.Field{
				Type:        graphql.NewNonNull(authPayloadType),
				Description: "Verify credentials and obtain a fresh token",
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Users.Login(p.Context,
						p.Args["email"].(string),
						p.Args["password"].(string),
					)
				},
			},
			"deleteUser": &graphql.Field{
				Type:        userType,
				Description: "Remove the current authenticated user and its library",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := auth.UserIDFromContext(p.Context)
					if !ok {
						return nil, service.ErrUnauthenticated
					}
					return r.Users.Delete(p.Context, userID)
				},
			},
			"updateUser": &graphql.Field{
				Type:        userType,
				Description: "Alter the current user's email and/or password",
				Args: graphql.FieldConfigArgument{
					"currentPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newEmail":        &graphql.ArgumentConfig{Type: graphql.String},
					"newPassword":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := auth.UserIDFromContext(p.Context)
					if !ok {
						return nil, service.ErrUnauthenticated
					}
					return r.Users.Update(p.Context, userID,
						p.Args["currentPassword"].(string),
						optionalString(p.Args, "newEmail"),
						optionalString(p.Args, "newPassword"),
					)
				},
			},
			"updateLibrary": &graphql.Field{
				Type:        libraryType,
				Description: "Replace the current user's library data wholesale",
				Args: graphql.FieldConfigArgument{
					"updatedLibrary": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := auth.UserIDFromContext(p.Context)
					if !ok {
						return nil, service.ErrUnauthenticated
					}
					return r.Libraries.Update(p.Context, userID, p.Args["updatedLibrary"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// optionalString extracts a nullable string argument.
func optionalString(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}
