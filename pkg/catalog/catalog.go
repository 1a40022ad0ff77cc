package catalog

import (
	"os"
	"path/filepath"

	"github.com/litmuschaos/chaos-suite/pkg/log"
)

// Load returns the descriptors of the expected manifests present under dir,
// in the order of files. Missing manifests are skipped with a warning.
func Load(dir string, files []string) []Descriptor {
	descriptors := make([]Descriptor, 0, len(files))
	for _, name := range files {
		path := filepath.Join(dir, name)
		if !exists(path) {
			log.Warnf("[Catalog]: %v not found, skipping", path)
			continue
		}
		desc := ReadDescriptor(path)
		log.Debugf("[Catalog]: loaded %v", desc)
		descriptors = append(descriptors, desc)
	}
	return descriptors
}

// LoadWorkflow resolves the optional composite workflow manifest
func LoadWorkflow(dir, name string) (Descriptor, bool) {
	if name == "" {
		return Descriptor{}, false
	}
	path := filepath.Join(dir, name)
	if !exists(path) {
		log.Warnf("[Catalog]: workflow file %v not found, skipping", path)
		return Descriptor{}, false
	}
	return ReadDescriptor(path), true
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
