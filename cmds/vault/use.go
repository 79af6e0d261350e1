package vault

import (
	"io"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/idvault/vault-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// UseCmd activates a vault and seeds its flat adapter files. The id may be
// an alias from the register.
type UseCmd struct {
	ID string
}

type UseResult struct {
	VaultID string `json:"vaultId"`
}

func (r *UseResult) JSON() ([]byte, error) {
	return dto.ToJSONBytes(r), nil
}

func (c UseCmd) Validate() error {
	if c.ID == "" {
		return cmds.ErrInvalid
	}
	return nil
}

func (c UseCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "use vault cmd")

	agent := try.To1(cmds.BuildAgent())
	defer agent.Close()

	id := agent.Index.Resolve(c.ID)
	try.To(agent.Operator.Use(id))

	cmds.Fprintln(w, "vault in use:", id)
	return &UseResult{VaultID: id}, nil
}
