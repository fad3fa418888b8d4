package spa

import (
	"net/http"
	"path"
)

type Config struct {
	Dir   string `env:"STATIC_DIR" envDefault:"dist"`         // Dir is the prebuilt asset directory.
	Index string `env:"STATIC_INDEX" envDefault:"index.html"` // Index is served for every path that is not a file.
}

// Handler serves files from cfg.Dir. Paths that do not name a regular file
// get the index document with 200 so client-side routing works.
// Only GET and HEAD are answered; other methods get 404.
func Handler(cfg Config) http.Handler {
	if cfg.Dir == "" {
		cfg.Dir = "dist"
	}
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}

	root := http.Dir(cfg.Dir)
	fileServer := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		upath := path.Clean("/" + r.URL.Path)
		if upath != "/" && isFile(root, upath) {
			fileServer.ServeHTTP(w, r)
			return
		}

		serveIndex(w, r, root, cfg.Index)
	})
}

func isFile(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	st, err := f.Stat()
	return err == nil && !st.IsDir()
}

func serveIndex(w http.ResponseWriter, r *http.Request, root http.FileSystem, index string) {
	f, err := root.Open("/" + index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}

	// The index references hashed assets; it must be revalidated on every load.
	w.Header().Set("Cache-Control", "no-cache, must-revalidate")
	http.ServeContent(w, r, index, st.ModTime(), f)
}
