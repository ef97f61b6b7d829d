package apartmentsearch

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the pattern the component registers under basePath.
func MountPath(basePath string) string {
	return mountPath(basePath, "/")
}

// RegisterRoutes builds a component and registers it under basePath on mux.
// The returned component owns the session store; call Close on shutdown.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (*Component, string, error) {
	if mux == nil {
		return nil, "", fmt.Errorf("apartmentsearch: missing mux")
	}
	fns = append(fns, WithBasePath(basePath))
	c, err := New(fns...)
	if err != nil {
		return nil, "", err
	}
	pattern, err := c.RegisterRoutes(mux)
	if err != nil {
		return nil, "", err
	}
	return c, pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}

// stripPath is the prefix removed before the internal routes match.
func stripPath(basePath string) string {
	return strings.TrimSuffix(mountPath(basePath, "/"), "/")
}
