// Package active holds the active-vault context: the single slot naming the
// vault all toolkit file operations are routed to. The context is an explicit
// value given to the router, the synchronizer and the operator at
// construction, not an ambient package global. Readers must always read the
// current value and never cache it across blocking calls because the next
// Use() can change it.
package active

import (
	"sync"

	"github.com/golang/glog"
)

type Ctx struct {
	id string
	l  sync.RWMutex
}

func New() *Ctx {
	return &Ctx{}
}

// Set selects the vault all toolkit file operations are routed to from now
// on. It overwrites the previous selection.
func (c *Ctx) Set(id string) {
	c.l.Lock()
	defer c.l.Unlock()

	if c.id != "" && c.id != id {
		glog.V(3).Infoln("switching active vault:", c.id, "->", id)
	}
	c.id = id
}

// Clear deselects the current vault.
func (c *Ctx) Clear() {
	c.l.Lock()
	defer c.l.Unlock()
	c.id = ""
}

// ID returns the current active vault id, empty when none is selected.
func (c *Ctx) ID() string {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.id
}

// Active tells if a vault is currently selected.
func (c *Ctx) Active() bool {
	return c.ID() != ""
}
