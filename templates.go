package catsform

import (
	"io/fs"

	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the page stylesheet so applications mounting only the API
// endpoints can still serve it.
//
// Typical mount:
//
//	mux.Handle("/cats/assets/",
//	  http.StripPrefix("/cats/assets/",
//	    http.FileServerFS(catsform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
