package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fightsim/content"
	"fightsim/internal/config"
	"fightsim/internal/encounter"
	"fightsim/internal/generate"
	"fightsim/internal/lint"
	"fightsim/internal/preview"
	"fightsim/internal/watch"
)

type options struct {
	content string
	out     string
	only    []string
	lint    bool
	strict  bool
	verify  bool
	watch   bool
	serve   string
	enc     encounter.EncodeOptions
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("encgen: ")

	var o options
	var only string
	flag.StringVar(&o.content, "content", "", "content dir layered over the embedded collections")
	flag.StringVar(&o.out, "out", "", "output root (default: catalog output, \"data\")")
	flag.StringVar(&only, "only", "", "comma separated collection names to generate")
	flag.BoolVar(&o.lint, "lint", false, "report data-quality findings")
	flag.BoolVar(&o.strict, "strict", false, "exit 2 when lint or verify report findings")
	flag.BoolVar(&o.verify, "verify", false, "read back written files and compare with the content")
	flag.BoolVar(&o.watch, "watch", false, "regenerate when files under -content change")
	flag.StringVar(&o.serve, "serve", "", "serve a preview API on this address, e.g. :8080")
	flag.BoolVar(&o.enc.ASCII, "ascii", true, "escape non-ASCII characters as \\uXXXX")
	flag.Parse()
	for _, name := range strings.Split(only, ",") {
		if name = strings.TrimSpace(name); name != "" {
			o.only = append(o.only, name)
		}
	}
	if o.watch && o.content == "" {
		log.Fatal("-watch needs -content")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, o)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, o options) int {
	fsys := content.Open(o.content)
	cols, root, err := load(ctx, fsys, o)
	if err != nil {
		log.Print(err)
		return 1
	}

	g := &generate.Generator{Root: root, Out: os.Stdout, Options: o.enc}
	if _, err := g.Run(ctx, cols); err != nil {
		log.Print(err)
		return 1
	}
	findings, err := report(root, cols, o)
	if err != nil {
		log.Print(err)
		return 1
	}

	if o.watch || o.serve != "" {
		if err := loop(ctx, fsys, g, cols, o); err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}
	if o.strict && len(findings) > 0 {
		return 2
	}
	return 0
}

// load reads the catalog, builds every collection and applies -only. The
// output root is -out when given, else the catalog's.
func load(ctx context.Context, fsys fs.FS, o options) ([]generate.Collection, string, error) {
	cat, err := config.LoadCatalog(fsys)
	if err != nil {
		return nil, "", err
	}
	cols, err := generate.Build(ctx, cat, fsys)
	if err != nil {
		return nil, "", err
	}
	if len(o.only) > 0 {
		if cols, err = generate.Only(cols, o.only); err != nil {
			return nil, "", err
		}
	}
	root := cat.Output
	if o.out != "" {
		root = o.out
	}
	return cols, root, nil
}

func report(root string, cols []generate.Collection, o options) ([]lint.Finding, error) {
	var findings []lint.Finding
	if o.lint {
		findings = append(findings, lint.Check(cols)...)
	}
	if o.verify {
		found, err := lint.Verify(root, cols, o.enc)
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)
	}
	lint.Sort(findings)
	for _, f := range findings {
		fmt.Printf("lint: %s\n", f)
	}
	if o.lint || o.verify {
		fmt.Printf("%d findings\n", len(findings))
	}
	return findings, nil
}

// loop serves and/or watches until ctx is cancelled. Content errors during
// a rebuild are logged and the previous build keeps serving.
func loop(ctx context.Context, fsys fs.FS, g *generate.Generator, cols []generate.Collection, o options) error {
	store := preview.NewStore(o.enc)
	store.Replace(cols)

	serveErr := make(chan error, 1)
	var srv *http.Server
	if o.serve != "" {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{Addr: o.serve, Handler: preview.NewRouter(store)}
		go func() {
			log.Printf("preview listening on %s", o.serve)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	var events <-chan string
	var watchErrs <-chan error
	if o.watch {
		dirs := []string{o.content}
		if st, err := os.Stat(filepath.Join(o.content, "scripts")); err == nil && st.IsDir() {
			dirs = append(dirs, filepath.Join(o.content, "scripts"))
		}
		w, err := watch.New(dirs...)
		if err != nil {
			return err
		}
		defer w.Close()
		events, watchErrs = w.Events, w.Errors
		log.Printf("watching %s", strings.Join(dirs, ", "))
	}

	var err error
wait:
	for err == nil {
		select {
		case <-ctx.Done():
			break wait
		case err = <-serveErr:
		case werr := <-watchErrs:
			log.Printf("watch: %v", werr)
		case name := <-events:
			log.Printf("%s changed, regenerating", name)
			next, root, lerr := load(ctx, fsys, o)
			if lerr != nil {
				log.Print(lerr)
				continue
			}
			g.Root = root
			if _, lerr := g.Run(ctx, next); lerr != nil {
				log.Print(lerr)
				continue
			}
			if _, lerr := report(root, next, o); lerr != nil {
				log.Print(lerr)
			}
			store.Replace(next)
		}
	}

	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(sctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
