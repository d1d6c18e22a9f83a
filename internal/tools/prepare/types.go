package prepare

// HTTP methods supported by the gateway, in canonical order.
var HTTPMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Authorizer ids with a fixed meaning.
const (
	AuthorizerNone   = "none"
	AuthorizerIAM    = "aws.auth.sigv4"
	AuthorizerAPIKey = "api_key"
)

// APIKeySourceHeader is the only api key source that allows per method key requirements.
const APIKeySourceHeader = "HEADER"

// Gateway vendor extensions written into the prepared document.
const (
	ExtIntegration       = "x-amazon-apigateway-integration"
	ExtAuth              = "x-amazon-apigateway-auth"
	ExtAuthType          = "x-amazon-apigateway-authtype"
	ExtRequestValidators = "x-amazon-apigateway-request-validators"
	ExtRequestValidator  = "x-amazon-apigateway-request-validator"
	ExtGatewayResponses  = "x-amazon-apigateway-gateway-responses"
	ExtAPIKeySource      = "x-amazon-apigateway-api-key-source"
)

// OperationDetails locates an operation in the document.
type OperationDetails struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	ContentTypes []string `json:"contentTypes,omitempty"`
}

// OperationLookup maps operation ids to their method and path.
type OperationLookup map[string]OperationDetails

// AuthorizerReference names an authorizer and the scopes it requires.
type AuthorizerReference struct {
	AuthorizerID        string   `json:"authorizerId"`
	AuthorizationScopes []string `json:"authorizationScopes,omitempty"`
}

// IntegrationOptions holds per method settings.
type IntegrationOptions struct {
	// APIKeyRequired overrides APIKeyOptions.RequiredByDefault when set.
	APIKeyRequired *bool `json:"apiKeyRequired,omitempty"`
}

// MethodIntegration is the integration attached to a single operation.
type MethodIntegration struct {
	// Integration is written verbatim as x-amazon-apigateway-integration.
	Integration      any                  `json:"integration"`
	MethodAuthorizer *AuthorizerReference `json:"methodAuthorizer,omitempty"`
	Options          *IntegrationOptions  `json:"options,omitempty"`
}

// CorsOptions describes the CORS policy applied to every operation.
type CorsOptions struct {
	AllowOrigins []string `json:"allowOrigins"`
	AllowMethods []string `json:"allowMethods"`
	AllowHeaders []string `json:"allowHeaders"`
	StatusCode   int      `json:"statusCode"`
}

// APIKeyOptions configures where api keys come from.
type APIKeyOptions struct {
	Source            string `json:"source"`
	RequiredByDefault bool   `json:"requiredByDefault,omitempty"`
}

// Options drive PrepareAPISpec.
type Options struct {
	// Integrations by operation id.
	Integrations    map[string]MethodIntegration `json:"integrations"`
	OperationLookup OperationLookup              `json:"operationLookup"`
	// SecuritySchemes contributed by the configured authorizers.
	SecuritySchemes   map[string]any       `json:"securitySchemes,omitempty"`
	DefaultAuthorizer *AuthorizerReference `json:"defaultAuthorizerReference,omitempty"`
	Cors              *CorsOptions         `json:"corsOptions,omitempty"`
	APIKey            *APIKeyOptions       `json:"apiKeyOptions,omitempty"`
}
