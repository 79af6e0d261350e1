// Package index is the alias register: a JSON-file-backed map from
// user-facing aliases to vault ids. It has no concurrency concerns beyond
// its own lock; the vault sync engine never touches it.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type (
	keyAlias  = string
	valueType = string
)

type regMapType map[keyAlias]valueType

type Reg struct {
	r regMapType // aliases of the known vaults, alias as key
	l sync.Mutex
}

func New() *Reg {
	return &Reg{r: make(regMapType)}
}

func newReg(data []byte) (r *regMapType) {
	r = new(regMapType)
	err := json.Unmarshal(data, r)
	if err != nil {
		panic(fmt.Sprintln("Error marshalling from JSON: ", err.Error()))
	}
	return
}

func (r *Reg) Exist(alias keyAlias) bool {
	r.l.Lock()
	defer r.l.Unlock()
	_, ok := r.r[alias]
	return ok
}

func (r *Reg) Add(alias keyAlias, vaultID valueType) {
	glog.V(3).Infof("alias register add: %s -> %s\n", alias, vaultID)
	r.l.Lock()
	defer r.l.Unlock()
	r.r[alias] = vaultID
}

// Resolve returns the vault id an alias points to, or the alias itself when
// it isn't registered: callers may give vault ids directly.
func (r *Reg) Resolve(alias keyAlias) valueType {
	r.l.Lock()
	defer r.l.Unlock()
	if id, ok := r.r[alias]; ok {
		return id
	}
	return alias
}

func (r *Reg) Rm(alias keyAlias) {
	r.l.Lock()
	defer r.l.Unlock()
	delete(r.r, alias)
}

func (r *Reg) Load(filename string) (err error) {
	defer err2.Handle(&err)

	r.l.Lock()
	defer r.l.Unlock()

	if filename == "" {
		r.r = make(regMapType)
		return nil
	}

	data, err := os.ReadFile(filename)
	if err != nil && os.IsNotExist(err) {
		try.To(os.WriteFile(filename, []byte("{}"), 0644))
		data, err = os.ReadFile(filename)
	}
	try.To(err)

	r.r = *newReg(data)
	return nil
}

func (r *Reg) Save(filename string) (err error) {
	r.l.Lock()
	defer r.l.Unlock()

	var data []byte
	if data, err = json.MarshalIndent(r.r, "", "\t"); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func (r *Reg) EnumValues(handler func(alias keyAlias, vaultID valueType) bool) {
	r.l.Lock()
	defer r.l.Unlock()
	for k, v := range r.r {
		if !handler(k, v) {
			break
		}
	}
}

func (r *Reg) Reset(filename string) (err error) {
	defer err2.Handle(&err, "resetting")
	try.To(r.Load(""))       // reset data
	try.To(r.Save(filename)) // save reset data to file
	return err
}
