package content

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// FS returns the content compiled into the binary.
func FS() fs.FS { return embedded }

// Open layers dir over the embedded content: a file present under dir wins,
// anything else falls through to the embedded copy. An empty dir means
// embedded only.
func Open(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return overlay{disk: os.DirFS(dir), base: embedded}
}

type overlay struct {
	disk fs.FS
	base fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	f, err := o.disk.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.base.Open(name)
}
