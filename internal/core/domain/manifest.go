package domain

// Shader directories of the renderer's source tree.
const (
	deferredDir      = "deferred"
	shaderRootDir    = "."
	shadowmappingDir = "shadowmapping"
	gaussianBlurDir  = "gaussian_blur"
)

// BlurDirectionDefine selects the blur axis of gaussian_blur.comp.
const BlurDirectionDefine = "GAUSSIAN_BLUR_DIRECTION"

// DefaultJobs returns the renderer's shader jobs in build order.
func DefaultJobs() []Job {
	return []Job{
		{Root: deferredDir, Source: "gbuffer.frag", Output: "gbuffer.frag.spv"},
		{Root: deferredDir, Source: "gbuffer.vert", Output: "gbuffer.vert.spv"},
		{Root: deferredDir, Source: "light.comp", Output: "light.comp.spv"},
		{Root: deferredDir, Source: "ssao.comp", Output: "ssao.comp.spv"},

		{Root: shaderRootDir, Source: "geometry.frag", Output: "geometry.frag.spv"},
		{Root: shaderRootDir, Source: "geometry.vert", Output: "geometry.vert.spv"},
		{Root: shaderRootDir, Source: "oetf_srgb.comp", Output: "oetf_srgb.comp.spv"},
		{Root: shaderRootDir, Source: "testpattern.comp", Output: "testpattern.comp.spv"},

		{Root: shadowmappingDir, Source: "offscreen.vert", Output: "offscreen.vert.spv"},

		{
			Root:    gaussianBlurDir,
			Source:  "gaussian_blur.comp",
			Output:  "gaussian_blur.vertical.comp.spv",
			Defines: []string{BlurDirectionDefine + "=0"},
		},
		{
			Root:    gaussianBlurDir,
			Source:  "gaussian_blur.comp",
			Output:  "gaussian_blur.horizontal.comp.spv",
			Defines: []string{BlurDirectionDefine + "=1"},
		},
	}
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() *Manifest {
	m, err := NewManifest(DefaultJobs())
	if err != nil {
		panic("domain: built-in manifest is invalid: " + err.Error())
	}
	return m
}
