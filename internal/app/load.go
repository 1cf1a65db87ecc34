package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	graphhcl "github.com/specialistvlad/conduit/internal/hcl"
)

// loadGraph reads a graph file, choosing the format by extension.
func loadGraph(ctx context.Context, path string) (*conduit.Conduit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading graph...", "path", path)

	var (
		c   *conduit.Conduit
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		c, err = graphhcl.Load(ctx, path)
	case ".json":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			c, err = conduit.Parse(data)
		}
	default:
		err = fmt.Errorf("unsupported graph file %q", path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Graph loaded successfully.", "tasks", c.TaskNames(), "frames", c.Len())
	return c, nil
}
