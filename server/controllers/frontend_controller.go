package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Codehub169/tempo-6db3fc58/server/logging"
	"github.com/Codehub169/tempo-6db3fc58/server/metrics"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
)

const indexDocument = "index.html"

// FrontendController serves the pre-built frontend bundle from the static
// directory. The index route and the asset route follow the same policy:
// check the file exists, then either serve it or answer a structured 404.
type FrontendController struct {
	StaticDir string
	Logger    logging.Logger
	Scope     tally.Scope
}

// GetIndex serves the entry HTML document.
func (c *FrontendController) GetIndex(w http.ResponseWriter, r *http.Request) {
	path, err := c.resolve(indexDocument)
	if err != nil {
		// can only happen if StaticDir itself is unusable
		c.Logger.ErrorContext(r.Context(), fmt.Sprintf("resolving index document: %s", err))
		c.notFound(w, "Application frontend not found. Please contact support.")
		return
	}
	if !isFile(path) {
		c.Scope.Counter(metrics.AssetMissingMetric).Inc(1)
		c.Logger.ErrorContext(
			r.Context(),
			fmt.Sprintf("index.html not found at %s, ensure the frontend is built into %q", path, c.StaticDir),
		)
		c.notFound(w, "Application frontend not found. Please contact support.")
		return
	}
	c.serve(w, r, path)
}

// GetAsset serves any other file from the bundle verbatim, with the content
// type inferred from the file.
func (c *FrontendController) GetAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	path, err := c.resolve(name)
	if err != nil {
		c.Scope.Counter(metrics.AssetMissingMetric).Inc(1)
		c.Logger.WarnContext(r.Context(), fmt.Sprintf("rejecting asset path %q: %s", name, err))
		c.notFound(w, fmt.Sprintf("File %q not found.", name))
		return
	}
	if !isFile(path) {
		c.Scope.Counter(metrics.AssetMissingMetric).Inc(1)
		c.Logger.WarnContext(r.Context(), fmt.Sprintf("asset %q not found in %q", name, c.StaticDir))
		c.notFound(w, fmt.Sprintf("File %q not found.", name))
		return
	}
	c.serve(w, r, path)
}

// serve streams the file with the content type inferred from its name.
// ServeContent is used instead of ServeFile because ServeFile answers any
// URL path ending in /index.html with a redirect instead of the file, which
// would make nested index documents unreachable.
func (c *FrontendController) serve(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), fmt.Sprintf("opening %s: %s", path, err))
		c.notFound(w, fmt.Sprintf("File %q not found.", filepath.Base(path)))
		return
	}
	defer f.Close() // nolint: errcheck

	info, err := f.Stat()
	if err != nil {
		c.Logger.ErrorContext(r.Context(), fmt.Sprintf("stating %s: %s", path, err))
		c.notFound(w, fmt.Sprintf("File %q not found.", filepath.Base(path)))
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// resolve maps a request path to a file inside the static directory,
// rejecting anything that escapes it.
func (c *FrontendController) resolve(name string) (string, error) {
	base, err := filepath.Abs(c.StaticDir)
	if err != nil {
		return "", errors.Wrap(err, "resolving static directory")
	}
	path := filepath.Join(base, filepath.FromSlash(name))
	if path != base && !strings.HasPrefix(path, base+string(os.PathSeparator)) {
		return "", errors.New("path escapes the static directory")
	}
	return path, nil
}

func (c *FrontendController) notFound(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusNotFound, msg)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
