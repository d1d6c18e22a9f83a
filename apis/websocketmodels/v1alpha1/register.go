// +kubebuilder:object:generate=true
// +groupName=apigateway.krateo.io
// +versionName=v1alpha1
package v1alpha1

import (
	"reflect"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

// Package type metadata.
const (
	Group   = "apigateway.krateo.io"
	Version = "v1alpha1"
)

var (
	// SchemeGroupVersion is group version used to register these objects
	SchemeGroupVersion = schema.GroupVersion{Group: Group, Version: Version}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: SchemeGroupVersion}
)

var (
	WebSocketModelsKind             = reflect.TypeOf(WebSocketModels{}).Name()
	WebSocketModelsGroupKind        = schema.GroupKind{Group: Group, Kind: WebSocketModelsKind}.String()
	WebSocketModelsKindAPIVersion   = WebSocketModelsKind + "." + SchemeGroupVersion.String()
	WebSocketModelsGroupVersionKind = SchemeGroupVersion.WithKind(WebSocketModelsKind)
)

func init() {
	SchemeBuilder.Register(&WebSocketModels{}, &WebSocketModelsList{})
}
