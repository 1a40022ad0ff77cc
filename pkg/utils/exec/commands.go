package exec

import (
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Kubectl builds the cluster CLI command lines consumed by the suite
type Kubectl struct {
	Binary string
}

func (k Kubectl) binary() string {
	if k.Binary == "" {
		return "kubectl"
	}
	return k.Binary
}

func (k Kubectl) line(args ...string) string {
	return shellquote.Join(append([]string{k.binary()}, args...)...)
}

// EnsureNamespace creates the namespace, or leaves it untouched if it already exists
func (k Kubectl) EnsureNamespace(namespace string) string {
	return k.line("create", "namespace", namespace, "--dry-run=client", "-o", "yaml") + " | " + k.line("apply", "-f", "-")
}

// Apply applies a manifest file
func (k Kubectl) Apply(path string) string {
	return k.line("apply", "-f", path)
}

// Delete deletes the resources of a manifest file
func (k Kubectl) Delete(path string) string {
	return k.line("delete", "-f", path)
}

// GetPods lists the pods matching the label selector
func (k Kubectl) GetPods(namespace, selector string) string {
	args := []string{"get", "pods", "-l", selector}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	return k.line(args...)
}

// WatchPods returns the argv watching the pods matching the label selector
func (k Kubectl) WatchPods(namespace, selector string) []string {
	args := []string{k.binary(), "get", "pods", "-l", selector, "-w"}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	return args
}

// GetResources queries the given resource kinds in the namespace
func (k Kubectl) GetResources(namespace string, kinds ...string) string {
	return k.line("get", strings.Join(kinds, ","), "-n", namespace)
}

// GetServiceName probes for a service, printing its name when it exists
func (k Kubectl) GetServiceName(namespace, service string) string {
	return k.line("get", "svc", "-n", namespace, service, "-o", "name")
}
