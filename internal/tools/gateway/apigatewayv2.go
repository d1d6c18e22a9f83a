package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/apigatewayv2/apigatewayv2iface"
)

// APIGatewayV2 implements Client on top of the AWS API Gateway v2 API.
type APIGatewayV2 struct {
	api apigatewayv2iface.ApiGatewayV2API
}

func NewAPIGatewayV2(api apigatewayv2iface.ApiGatewayV2API) *APIGatewayV2 {
	return &APIGatewayV2{api: api}
}

func (c *APIGatewayV2) ListModels(ctx context.Context, apiID string) ([]Model, error) {
	var res []Model
	var nextToken *string
	for {
		out, err := c.api.GetModelsWithContext(ctx, &apigatewayv2.GetModelsInput{
			ApiId:     aws.String(apiID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("listing models of api %s: %w", apiID, err)
		}
		for _, m := range out.Items {
			res = append(res, Model{
				ID:   aws.StringValue(m.ModelId),
				Name: aws.StringValue(m.Name),
			})
		}
		nextToken = out.NextToken
		if aws.StringValue(nextToken) == "" {
			return res, nil
		}
	}
}

func (c *APIGatewayV2) ListRoutes(ctx context.Context, apiID string) ([]Route, error) {
	var res []Route
	var nextToken *string
	for {
		out, err := c.api.GetRoutesWithContext(ctx, &apigatewayv2.GetRoutesInput{
			ApiId:     aws.String(apiID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("listing routes of api %s: %w", apiID, err)
		}
		for _, r := range out.Items {
			res = append(res, Route{
				ID:            aws.StringValue(r.RouteId),
				Key:           aws.StringValue(r.RouteKey),
				RequestModels: aws.StringValueMap(r.RequestModels),
			})
		}
		nextToken = out.NextToken
		if aws.StringValue(nextToken) == "" {
			return res, nil
		}
	}
}

func (c *APIGatewayV2) CreateModel(ctx context.Context, apiID string, in ModelInput) (Model, error) {
	out, err := c.api.CreateModelWithContext(ctx, &apigatewayv2.CreateModelInput{
		ApiId:       aws.String(apiID),
		Name:        aws.String(in.Name),
		ContentType: aws.String(in.ContentType),
		Schema:      aws.String(in.Schema),
	})
	if err != nil {
		return Model{}, fmt.Errorf("creating model %s: %w", in.Name, err)
	}
	return Model{ID: aws.StringValue(out.ModelId), Name: aws.StringValue(out.Name)}, nil
}

func (c *APIGatewayV2) UpdateModel(ctx context.Context, apiID, modelID string, in ModelInput) (Model, error) {
	out, err := c.api.UpdateModelWithContext(ctx, &apigatewayv2.UpdateModelInput{
		ApiId:       aws.String(apiID),
		ModelId:     aws.String(modelID),
		ContentType: aws.String(in.ContentType),
		Schema:      aws.String(in.Schema),
	})
	if err != nil {
		return Model{}, fmt.Errorf("updating model %s: %w", in.Name, err)
	}
	return Model{ID: aws.StringValue(out.ModelId), Name: aws.StringValue(out.Name)}, nil
}

func (c *APIGatewayV2) DeleteModel(ctx context.Context, apiID, modelID string) error {
	_, err := c.api.DeleteModelWithContext(ctx, &apigatewayv2.DeleteModelInput{
		ApiId:   aws.String(apiID),
		ModelId: aws.String(modelID),
	})
	if err != nil {
		return fmt.Errorf("deleting model %s: %w", modelID, err)
	}
	return nil
}

func (c *APIGatewayV2) AssociateModel(ctx context.Context, apiID, routeID, modelName string) error {
	_, err := c.api.UpdateRouteWithContext(ctx, &apigatewayv2.UpdateRouteInput{
		ApiId:                    aws.String(apiID),
		RouteId:                  aws.String(routeID),
		RequestModels:            map[string]*string{ModelSelectionKey: aws.String(modelName)},
		ModelSelectionExpression: aws.String(ModelSelectionKey),
	})
	if err != nil {
		return fmt.Errorf("associating route %s with model %s: %w", routeID, modelName, err)
	}
	return nil
}

func (c *APIGatewayV2) DisassociateModel(ctx context.Context, apiID, routeID string) error {
	_, err := c.api.UpdateRouteWithContext(ctx, &apigatewayv2.UpdateRouteInput{
		ApiId:         aws.String(apiID),
		RouteId:       aws.String(routeID),
		RequestModels: map[string]*string{ModelSelectionKey: aws.String("")},
	})
	if err != nil {
		return fmt.Errorf("clearing request model of route %s: %w", routeID, err)
	}
	return nil
}
