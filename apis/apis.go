// Package apis contains the Kubernetes API types of the provider.
package apis

//go:generate go run sigs.k8s.io/controller-tools/cmd/controller-gen object:headerFile=/dev/null paths=./...
//go:generate go run sigs.k8s.io/controller-tools/cmd/controller-gen crd:crdVersions=v1 paths=./... output:artifacts:config=../crds

import (
	"k8s.io/apimachinery/pkg/runtime"

	preparedspecs "github.com/krateoplatformops/apigateway-provider/apis/preparedspecs/v1alpha1"
	websocketmodels "github.com/krateoplatformops/apigateway-provider/apis/websocketmodels/v1alpha1"
)

func init() {
	AddToSchemes = append(AddToSchemes,
		preparedspecs.SchemeBuilder.AddToScheme,
		websocketmodels.SchemeBuilder.AddToScheme,
	)
}

// AddToSchemes may be used to add all resources defined in the project to a Scheme
var AddToSchemes runtime.SchemeBuilder

// AddToScheme adds all Resources to the Scheme
func AddToScheme(s *runtime.Scheme) error {
	return AddToSchemes.AddToScheme(s)
}
