package vault

import (
	"io"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/idvault/vault-agent/agent/utils"
	"github.com/idvault/vault-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// RmCmd deletes a vault: the canonical record, the flat-file directory and
// the aliases pointing to it.
type RmCmd struct {
	ID string
}

type RmResult struct {
	VaultID string `json:"vaultId"`
}

func (r *RmResult) JSON() ([]byte, error) {
	return dto.ToJSONBytes(r), nil
}

func (c RmCmd) Validate() error {
	if c.ID == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c RmCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "rm vault cmd")

	agent := try.To1(cmds.BuildAgent())
	defer agent.Close()

	id := agent.Index.Resolve(c.ID)
	try.To(agent.Operator.DeleteVault(id))

	aliases := make([]string, 0)
	agent.Index.EnumValues(func(alias, vaultID string) bool {
		if vaultID == id {
			aliases = append(aliases, alias)
		}
		return true
	})
	for _, alias := range aliases {
		agent.Index.Rm(alias)
	}
	if name := utils.Settings.IndexName(); name != "" && len(aliases) > 0 {
		try.To(agent.Index.Save(name))
	}

	cmds.Fprintln(w, "vault deleted:", id)
	return &RmResult{VaultID: id}, nil
}
