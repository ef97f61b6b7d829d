package themes

import (
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RendererConfig flattens a selection into the configuration renderers
// consume. Variant tokens, templates and asset files override the base
// manifest; fallbacks fill partials neither defines. Every token is also
// exposed as a "--token" CSS variable.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant, hasVariant := manifest.Variants[selection.Variant]

	tokens := mergeMaps(manifest.Tokens)
	partials := mergeMaps(fallbacks, manifest.Templates)
	files := mergeMaps(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if hasVariant {
		tokens = mergeMaps(tokens, variant.Tokens)
		partials = mergeMaps(partials, variant.Templates)
		files = mergeMaps(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

// assetResolver maps an asset key onto prefix/file. Unknown keys resolve to
// the empty string so callers can fall back to their own source.
func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		if strings.Contains(prefix, "://") {
			return prefix + "/" + file
		}
		return path.Join(prefix, file)
	}
}

func mergeMaps(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}
