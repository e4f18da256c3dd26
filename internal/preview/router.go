package preview

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"fightsim/internal/encounter"
	"fightsim/internal/util"
)

type collectionInfo struct {
	Name   string `json:"name"`
	Output string `json:"output"`
	Count  int    `json:"count"`
}

// NewRouter serves a read-only view of the store.
func NewRouter(s *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/collections", func(c *gin.Context) {
		cols, _ := s.Snapshot()
		out := make([]collectionInfo, 0, len(cols))
		for _, col := range cols {
			out = append(out, collectionInfo{
				Name:   col.Name,
				Output: filepath.ToSlash(col.Dir),
				Count:  len(col.Records),
			})
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/collections/:name", func(c *gin.Context) {
		col, ok := s.collection(c.Param("name"))
		if !ok {
			notFound(c, "collection %q", c.Param("name"))
			return
		}
		ids := make([]string, 0, len(col.Records))
		for _, rec := range col.Records {
			ids = append(ids, rec.ID)
		}
		c.JSON(http.StatusOK, gin.H{"name": col.Name, "ids": ids})
	})

	// Same bytes the generator writes to disk.
	r.GET("/collections/:name/:id", func(c *gin.Context) {
		rec, ok := s.record(c.Param("name"), c.Param("id"))
		if !ok {
			notFound(c, "record %s/%s", c.Param("name"), c.Param("id"))
			return
		}
		data, err := encounter.Marshal(rec.Descriptor, s.opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	})

	r.GET("/collections/:name/:id/dialogue", func(c *gin.Context) {
		rec, ok := s.record(c.Param("name"), c.Param("id"))
		if !ok {
			notFound(c, "record %s/%s", c.Param("name"), c.Param("id"))
			return
		}
		seed, err := strconv.ParseInt(c.DefaultQuery("seed", "0"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":   rec.ID,
			"seed": seed,
			"line": util.Pick(util.New(seed), rec.Descriptor.Dialogue),
		})
	})

	r.GET("/lint", func(c *gin.Context) {
		_, findings := s.Snapshot()
		c.JSON(http.StatusOK, findings)
	})

	return r
}

func notFound(c *gin.Context, format string, args ...any) {
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf(format, args...) + " not found"})
}
