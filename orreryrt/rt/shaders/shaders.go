package shaders

import (
	_ "embed"
	"os"

	"github.com/gekko3d/orrery"
)

//go:embed body.wgsl
var BodyWGSL string

// Load returns the embedded body shader, or the file at override when set.
func Load(override string) (string, error) {
	if override == "" {
		return BodyWGSL, nil
	}
	src, err := os.ReadFile(override)
	if err != nil {
		return "", orrery.NewResourceError(orrery.ResourceShader, override, err)
	}
	return string(src), nil
}
