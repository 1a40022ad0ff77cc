package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// Descriptor identifies one chaos manifest. Fields that could not be resolved
// hold types.UnknownField.
type Descriptor struct {
	FilePath string
	FileName string
	Name     string
	Kind     string
	Duration string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s: %s (Duration: %s)", d.Kind, d.Name, d.Duration)
}

// ReadDescriptor reads and parses the manifest at path.
// Read and parse failures are logged, the descriptor is still returned.
func ReadDescriptor(path string) Descriptor {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("Error loading %v: %v", path, err)
		return ParseDescriptor(path, nil)
	}
	desc, err := parseManifest(path, raw)
	if err != nil {
		log.Errorf("Error loading %v: %v", path, err)
	}
	return desc
}

// ParseDescriptor builds the descriptor of a manifest from its content.
// It never fails; unresolved fields are reported as unknown.
func ParseDescriptor(path string, raw []byte) Descriptor {
	desc, _ := parseManifest(path, raw)
	return desc
}

func parseManifest(path string, raw []byte) (Descriptor, error) {
	desc := Descriptor{
		FilePath: path,
		FileName: filepath.Base(path),
		Name:     types.UnknownField,
		Kind:     types.UnknownField,
		Duration: types.UnknownField,
	}
	if len(raw) == 0 {
		return desc, nil
	}

	var content map[string]interface{}
	if err := yaml.Unmarshal(raw, &content); err != nil {
		return desc, cerrors.Error{
			ErrorCode: cerrors.ErrorTypeManifestLoad,
			Target:    path,
			Reason:    err.Error(),
		}
	}

	desc.Name = lookup(content, "metadata", "name")
	desc.Kind = lookup(content, "kind")
	desc.Duration = lookup(content, "spec", "duration")
	return desc, nil
}

// lookup resolves a nested scalar field, empty or non-scalar values are unknown
func lookup(content map[string]interface{}, fields ...string) string {
	val, found, err := unstructured.NestedFieldNoCopy(content, fields...)
	if err != nil || !found || val == nil {
		return types.UnknownField
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return types.UnknownField
		}
		return v
	case map[string]interface{}, []interface{}:
		return types.UnknownField
	default:
		return fmt.Sprint(v)
	}
}
