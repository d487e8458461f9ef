package bootkit

import (
	"io"
	"os"
	"path/filepath"
)

// ResourceLoader opens external resources by locator. It backs settings
// sources and mapping-source parsing; a custom implementation can serve
// locators from anywhere (embedded files, object storage, test fixtures).
//
// The default implementation, registered in every bootstrap container,
// resolves locators against the filesystem, honoring SettingResourceBase
// when the enclosing container carries it.
type ResourceLoader interface {
	Open(locator string) (io.ReadCloser, error)
}

// FileResourceLoader resolves relative locators against Base.
type FileResourceLoader struct {
	Base string // empty means the process working directory
}

var _ ResourceLoader = FileResourceLoader{}

// NewFileResourceLoader returns a loader rooted at base.
func NewFileResourceLoader(base string) FileResourceLoader {
	return FileResourceLoader{Base: base}
}

// Open opens the file named by locator.
func (l FileResourceLoader) Open(locator string) (io.ReadCloser, error) {
	path := locator
	if l.Base != "" && !filepath.IsAbs(locator) {
		path = filepath.Join(l.Base, locator)
	}
	return os.Open(path)
}

// resourceLoaderInitiator is the bootstrap default for ResourceLoader.
// Standard containers inherit it, so the base directory can come from the
// standard container's settings.
var resourceLoaderInitiator = NewInitiator(func(r Registry) (ResourceLoader, error) {
	base := r.Settings().GetDefault(SettingResourceBase, "")
	return NewFileResourceLoader(base), nil
})
