package catalog

import (
	"fmt"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/require"
)

func FuzzParseDescriptor(f *testing.F) {
	f.Add([]byte(networkDelay))
	f.Add([]byte("kind: [unterminated\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		desc := ParseDescriptor("fuzz.yaml", data)
		require.NotEmpty(t, desc.Name)
		require.NotEmpty(t, desc.Kind)
		require.NotEmpty(t, desc.Duration)
	})
}

func FuzzParseDescriptorFields(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzConsumer := fuzz.NewConsumer(data)
		fields := &struct {
			Kind     string
			Name     string
			Duration string
		}{}
		if err := fuzzConsumer.GenerateStruct(fields); err != nil {
			return
		}
		manifest := fmt.Sprintf("kind: %q\nmetadata:\n  name: %q\nspec:\n  duration: %q\n", fields.Kind, fields.Name, fields.Duration)
		desc := ParseDescriptor("fuzz.yaml", []byte(manifest))
		require.NotEmpty(t, desc.Kind)
		require.NotEmpty(t, desc.Name)
		require.NotEmpty(t, desc.Duration)
	})
}
