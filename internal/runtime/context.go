// Package runtime wires the engine's services together for the CLI.
package runtime

import (
	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/debounce"
	"github.com/tphakala/hotspots-go/internal/download"
	"github.com/tphakala/hotspots-go/internal/installer"
	"github.com/tphakala/hotspots-go/internal/packindex"
	"github.com/tphakala/hotspots-go/internal/search"
)

// Context carries the initialized services shared by all commands.
type Context struct {
	Settings  *conf.Settings
	Store     datastore.Interface
	Client    *download.Client
	Index     *packindex.Service
	Installer *installer.Service
	Search    *search.Service
	Debounce  *debounce.Set
}

// NewContext builds and opens the full service graph. The store is opened
// here; callers must Close it when done.
func NewContext(settings *conf.Settings) (*Context, error) {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return nil, err
	}

	client := download.NewClient(settings)
	index := packindex.NewService(settings, client)

	return &Context{
		Settings:  settings,
		Store:     store,
		Client:    client,
		Index:     index,
		Installer: installer.NewService(store, client, index),
		Search:    search.New(settings, store),
		Debounce:  debounce.NewSet(settings.Debounce.Search, settings.Debounce.Viewport, settings.Debounce.Autosave),
	}, nil
}

// Close releases the context's resources.
func (c *Context) Close() error {
	c.Debounce.Stop()
	return c.Store.Close()
}
