package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyLandmark",
		Fields: graphql.Fields{
			"name":            &graphql.Field{Type: graphql.String},
			"type":            &graphql.Field{Type: graphql.String},
			"distance_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	effectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "VisualEffect",
		Fields: graphql.Fields{
			"type":        &graphql.Field{Type: graphql.String},
			"color":       &graphql.Field{Type: graphql.String},
			"intensity":   &graphql.Field{Type: graphql.Float},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"lat":                         &graphql.Field{Type: graphql.Float},
			"lng":                         &graphql.Field{Type: graphql.Float},
			"timestamp":                   &graphql.Field{Type: graphql.String},
			"address":                     &graphql.Field{Type: graphql.String},
			"section":                     &graphql.Field{Type: graphql.String},
			"distance_from_center_meters": &graphql.Field{Type: graphql.Float},
			"distance_from_center_miles":  &graphql.Field{Type: graphql.Float},
			"within_fence":                &graphql.Field{Type: graphql.Boolean},
			"source":                      &graphql.Field{Type: graphql.String},
			"map_mode":                    &graphql.Field{Type: graphql.String},
			"nearby_landmarks":            &graphql.Field{Type: graphql.NewList(nearbyType)},
			"nearby_toilets":              &graphql.Field{Type: graphql.NewList(nearbyType)},
			"visual_effects":              &graphql.Field{Type: graphql.NewList(effectType)},
		},
	})

	landmarkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Landmark",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.String},
			"lat":         &graphql.Field{Type: graphql.Float},
			"lng":         &graphql.Field{Type: graphql.Float},
			"type":        &graphql.Field{Type: graphql.String},
			"priority":    &graphql.Field{Type: graphql.Int},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"location": &graphql.Field{
				Type:        locationType,
				Description: "Current resolved position of the car",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Location.Current(p.Context)
				},
			},
			"landmarks": &graphql.Field{
				Type:        graphql.NewList(landmarkType),
				Description: "All active landmarks on the playa",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Landmarks.ListActive(p.Context)
				},
			},
			"nearby": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Landmarks within range of an arbitrary point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 300.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					radius := p.Args["radius"].(float64)
					res, err := deps.Proximity.Around(p.Context, lat, lng)
					if err != nil {
						return nil, err
					}
					var out []interface{}
					for _, l := range res.Landmarks {
						if l.DistanceMeters <= radius {
							out = append(out, l)
						}
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
