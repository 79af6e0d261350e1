package vault

import (
	"io"
	"time"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/idvault/vault-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type LsCmd struct{}

type VaultInfo struct {
	ID        string    `json:"id"`
	DIDs      int       `json:"dids"`
	Keys      int       `json:"keys"`
	VCs       int       `json:"vcs"`
	CreatedAt time.Time `json:"createdAt"`
}

type LsResult struct {
	Vaults []VaultInfo `json:"vaults"`
}

func (r *LsResult) JSON() ([]byte, error) {
	return dto.ToJSONBytes(r), nil
}

func (c LsCmd) Validate() error {
	return nil
}

func (c LsCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "ls vaults cmd")

	agent := try.To1(cmds.BuildAgent())
	defer agent.Close()

	vaults := try.To1(agent.Operator.ListVaults())

	result := &LsResult{Vaults: make([]VaultInfo, 0, len(vaults))}
	for _, v := range vaults {
		result.Vaults = append(result.Vaults, VaultInfo{
			ID:        v.ID,
			DIDs:      len(v.DIDStore),
			Keys:      len(v.KeyStore),
			VCs:       len(v.VCStore),
			CreatedAt: v.CreatedAt,
		})
		cmds.Fprintln(w, v.ID)
	}
	return result, nil
}
