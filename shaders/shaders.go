package shaders

import (
	_ "embed"
)

//go:embed fireworks.wgsl
var FireworksWGSL string
