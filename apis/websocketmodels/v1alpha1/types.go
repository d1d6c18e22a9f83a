package v1alpha1

import (
	rtv1 "github.com/krateoplatformops/provider-runtime/apis/common/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type Location struct {
	// +required
	Bucket string `json:"bucket"`
	// +required
	Key string `json:"key"`
}

// WebSocketModelsSpec is the specification of a WebSocketModels.
type WebSocketModelsSpec struct {
	rtv1.ManagedSpec `json:",inline"`

	// APIID: the id of the WebSocket API on the gateway
	// +immutable
	// +required
	APIID string `json:"apiId"`
	// InputSpecLocation: where the raw OpenAPI document is stored
	// +required
	InputSpecLocation Location `json:"inputSpecLocation"`
	// RouteKeyToPath: the document path describing every route
	// +required
	RouteKeyToPath map[string]string `json:"routeKeyToPath"`
	// AssociateRoutes: set every route to validate requests with its model
	// +optional
	AssociateRoutes bool `json:"associateRoutes,omitempty"`
}

// WebSocketModelsStatus is the status of a WebSocketModels.
type WebSocketModelsStatus struct {
	rtv1.ManagedStatus `json:",inline"`

	// Models: model ids by route key
	// +optional
	Models map[string]string `json:"models,omitempty"`
	// +optional
	Digest string `json:"digest,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:scope=Namespaced,categories={krateo,apigateway}
//+kubebuilder:printcolumn:name="API",type="string",JSONPath=".spec.apiId"
//+kubebuilder:printcolumn:name="READY",type="string",JSONPath=".status.conditions[?(@.type=='Ready')].status"
//+kubebuilder:printcolumn:name="AGE",type="date",JSONPath=".metadata.creationTimestamp",priority=10

// WebSocketModels keeps the request models of a WebSocket API in sync with its routes.
type WebSocketModels struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   WebSocketModelsSpec   `json:"spec,omitempty"`
	Status WebSocketModelsStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// WebSocketModelsList is a list of WebSocketModels objects.
type WebSocketModelsList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []WebSocketModels `json:"items"`
}
