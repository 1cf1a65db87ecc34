package app

import (
	"io"

	"github.com/specialistvlad/conduit/internal/registry"
	"github.com/specialistvlad/conduit/modules/env_vars"
	"github.com/specialistvlad/conduit/modules/http_request"
	"github.com/specialistvlad/conduit/modules/increment"
	"github.com/specialistvlad/conduit/modules/print"
	"github.com/specialistvlad/conduit/modules/sleep"
	"github.com/specialistvlad/conduit/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the conduit binary.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&env_vars.Module{},
		&print.Module{Out: outW},
		&http_request.Module{},
		&increment.Module{},
		&sleep.Module{},
		&socketio.Module{},
	}
}
