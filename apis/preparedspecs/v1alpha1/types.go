package v1alpha1

import (
	rtv1 "github.com/krateoplatformops/provider-runtime/apis/common/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type Location struct {
	// Bucket: the object storage bucket
	// +required
	Bucket string `json:"bucket"`
	// Key: the object key, or the key prefix for outputs
	// +optional
	Key string `json:"key,omitempty"`
}

type OperationDetails struct {
	// Method: the http method of the operation
	// +required
	Method string `json:"method"`
	// Path: the path of the operation as declared in the document
	// +required
	Path string `json:"path"`
	// +optional
	ContentTypes []string `json:"contentTypes,omitempty"`
}

type AuthorizerReference struct {
	// AuthorizerID: the authorizer id, or one of none, aws.auth.sigv4, api_key
	// +required
	AuthorizerID string `json:"authorizerId"`
	// +optional
	AuthorizationScopes []string `json:"authorizationScopes,omitempty"`
}

type IntegrationOptions struct {
	// APIKeyRequired: overrides the api key default for this operation
	// +optional
	APIKeyRequired *bool `json:"apiKeyRequired,omitempty"`
}

type MethodIntegration struct {
	// Integration: written verbatim as the operation gateway integration
	// +kubebuilder:pruning:PreserveUnknownFields
	// +required
	Integration *apiextensionsv1.JSON `json:"integration"`
	// +optional
	MethodAuthorizer *AuthorizerReference `json:"methodAuthorizer,omitempty"`
	// +optional
	Options *IntegrationOptions `json:"options,omitempty"`
}

type CorsOptions struct {
	AllowOrigins []string `json:"allowOrigins"`
	AllowMethods []string `json:"allowMethods"`
	// AllowHeaders: extended with the header parameters found in the document
	AllowHeaders []string `json:"allowHeaders"`
	// +kubebuilder:default=204
	StatusCode int `json:"statusCode"`
}

type APIKeyOptions struct {
	// +kubebuilder:validation:Enum=HEADER;AUTHORIZER
	Source string `json:"source"`
	// +optional
	RequiredByDefault bool `json:"requiredByDefault,omitempty"`
}

// PreparedSpecSpec is the specification of a PreparedSpec.
type PreparedSpecSpec struct {
	rtv1.ManagedSpec `json:",inline"`

	// InputSpecLocation: where the raw OpenAPI document is stored
	// +required
	InputSpecLocation Location `json:"inputSpecLocation"`
	// OutputSpecLocation: bucket and key prefix of the prepared document
	// +required
	OutputSpecLocation Location `json:"outputSpecLocation"`

	// Integrations: the integration of every operation, by operation id
	// +required
	Integrations map[string]MethodIntegration `json:"integrations"`
	// OperationLookup: method and path of every operation, by operation id
	// +required
	OperationLookup map[string]OperationDetails `json:"operationLookup"`
	// SecuritySchemes: schemes contributed by the configured authorizers
	// +optional
	SecuritySchemes map[string]apiextensionsv1.JSON `json:"securitySchemes,omitempty"`
	// +optional
	DefaultAuthorizer *AuthorizerReference `json:"defaultAuthorizerReference,omitempty"`
	// +optional
	Cors *CorsOptions `json:"corsOptions,omitempty"`
	// +optional
	APIKey *APIKeyOptions `json:"apiKeyOptions,omitempty"`
}

// PreparedSpecStatus is the status of a PreparedSpec.
type PreparedSpecStatus struct {
	rtv1.ManagedStatus `json:",inline"`

	// OutputSpecKey: the key of the last prepared document
	// +optional
	OutputSpecKey string `json:"outputSpecKey,omitempty"`
	// Digest: digest of the spec the document was prepared from
	// +optional
	Digest string `json:"digest,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:scope=Namespaced,categories={krateo,apigateway}
//+kubebuilder:printcolumn:name="OUTPUT",type="string",JSONPath=".status.outputSpecKey"
//+kubebuilder:printcolumn:name="READY",type="string",JSONPath=".status.conditions[?(@.type=='Ready')].status"
//+kubebuilder:printcolumn:name="AGE",type="date",JSONPath=".metadata.creationTimestamp",priority=10

// PreparedSpec is an OpenAPI document published for the gateway.
type PreparedSpec struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PreparedSpecSpec   `json:"spec,omitempty"`
	Status PreparedSpecStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// PreparedSpecList is a list of PreparedSpec objects.
type PreparedSpecList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []PreparedSpec `json:"items"`
}
