// Package vault implements the vault lifecycle commands.
package vault

import (
	"io"
	"strings"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/idvault/vault-agent/agent/utils"
	vaultrec "github.com/idvault/vault-agent/agent/vault"
	"github.com/idvault/vault-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// CreateCmd creates a new vault. An empty ID means a generated one.
type CreateCmd struct {
	ID    string
	Alias string
}

type CreateResult struct {
	VaultID string `json:"vaultId"`
	Alias   string `json:"alias,omitempty"`
}

func (r *CreateResult) JSON() ([]byte, error) {
	return dto.ToJSONBytes(r), nil
}

func (c CreateCmd) Validate() error {
	if c.ID == "" {
		return nil // generated in Exec
	}
	return vaultrec.ValidateID(c.ID)
}

// NewVaultID generates a vault id: a UUID without the separators, which fits
// the vault id charset and length.
func NewVaultID() string {
	return strings.ReplaceAll(utils.UUID(), "-", "")
}

func (c CreateCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "create vault cmd")

	newID := c.ID
	if newID == "" {
		newID = NewVaultID()
	}

	agent := try.To1(cmds.BuildAgent())
	defer agent.Close()

	id := try.To1(agent.Operator.CreateNew(newID))

	if c.Alias != "" {
		agent.Index.Add(c.Alias, id)
		if name := utils.Settings.IndexName(); name != "" {
			try.To(agent.Index.Save(name))
		}
	}

	cmds.Fprintln(w, "vault created:", id)
	return &CreateResult{VaultID: id, Alias: c.Alias}, nil
}
