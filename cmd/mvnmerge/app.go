// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/viant/afs"

	"github.com/mvnmerge/mvnmerge/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config     config.Provider
		Storage    afs.Service
		Filesystem func(root string) billy.Filesystem
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Storage writes the module list, the report and reads templates.
		Storage afs.Service
		// Filesystem opens a project root. Nil uses the OS filesystem.
		Filesystem func(root string) billy.Filesystem
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Storage:    deps.Storage,
		Filesystem: deps.Filesystem,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Storage == nil {
		app.Storage = afs.New()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}
