// Package vault defines the canonical vault record: one JSON document per
// identity holding the decoded identity summary and the four section arrays
// that mirror the flat adapter files the identity toolkit operates on.
package vault

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Record is a single toolkit-native entry in one of the vault sections. The
// toolkit owns the shape, we only pick the natural key out of it.
type Record map[string]interface{}

// StrField returns a string field of the record, empty when missing or not a
// string.
func (r Record) StrField(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Identity is the decoded identity summary produced once per vault when its
// owning identity is created.
type Identity struct {
	Alias      string    `json:"alias"`
	DID        string    `json:"did"`
	Kid        string    `json:"kid"`
	PublicKey  string    `json:"publicKey"`
	Provider   string    `json:"provider,omitempty"`
	Credential Record    `json:"credential,omitempty"`
	Metadata   Record    `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Vault is the canonical, durable record of one vault. The four store slices
// always reflect the most recently observed flat-file contents; a section is
// replaced as a whole, never entry by entry.
type Vault struct {
	ID              string    `json:"id"`
	Identity        *Identity `json:"identity,omitempty"`
	DIDStore        []Record  `json:"didStore"`
	KeyStore        []Record  `json:"keyStore"`
	PrivateKeyStore []Record  `json:"privateKeyStore"`
	VCStore         []Record  `json:"vcStore"`
	CreatedAt       time.Time `json:"createdAt"`
}

// New returns an empty vault record with all sections initialized so that the
// stored JSON always carries the four arrays.
func New(id string) *Vault {
	return &Vault{
		ID:              id,
		DIDStore:        []Record{},
		KeyStore:        []Record{},
		PrivateKeyStore: []Record{},
		VCStore:         []Record{},
		CreatedAt:       time.Now().UTC(),
	}
}

// Section names i.e. the canonical record field names.
const (
	SectionDID        = "didStore"
	SectionKey        = "keyStore"
	SectionPrivateKey = "privateKeyStore"
	SectionVC         = "vcStore"
)

// Flat adapter file basenames, fixed names the identity toolkit knows.
const (
	DIDStoreFile        = "didstore.json"
	KeyStoreFile        = "keystore.json"
	PrivateKeyStoreFile = "private-keystore.json"
	VCStoreFile         = "vcstore.json"
)

// Section binds a flat adapter file to a canonical record section and knows
// the natural key of the section's records.
type Section struct {
	Name string
	File string

	keyOf func(Record) string
}

var sections = []Section{
	{Name: SectionDID, File: DIDStoreFile,
		keyOf: func(r Record) string { return r.StrField("id") }},
	{Name: SectionKey, File: KeyStoreFile,
		keyOf: func(r Record) string { return r.StrField("kid") }},
	{Name: SectionPrivateKey, File: PrivateKeyStoreFile,
		keyOf: func(r Record) string { return r.StrField("alias") }},
	{Name: SectionVC, File: VCStoreFile,
		keyOf: func(r Record) string { return CredentialKey(r.StrField("id")) }},
}

// Sections returns the section table in its fixed order.
func Sections() []Section {
	return sections
}

// SectionForFile maps a flat-file basename to its section. Unknown names
// return false, they are not an error for the caller.
func SectionForFile(basename string) (Section, bool) {
	for _, s := range sections {
		if s.File == basename {
			return s, true
		}
	}
	return Section{}, false
}

// Key returns the record's natural key in this section, empty when the record
// doesn't carry one.
func (s Section) Key(r Record) string {
	return s.keyOf(r)
}

// CredentialKey returns the flat-file key of a credential: the suffix of the
// credential id after the last '/' or ':' separator, or the whole id when the
// id has neither.
func CredentialKey(id string) string {
	if i := strings.LastIndexAny(id, "/:"); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}

// Get returns the named section's records.
func (v *Vault) Get(section string) []Record {
	switch section {
	case SectionDID:
		return v.DIDStore
	case SectionKey:
		return v.KeyStore
	case SectionPrivateKey:
		return v.PrivateKeyStore
	case SectionVC:
		return v.VCStore
	}
	return nil
}

// Set replaces the named section's records as a whole.
func (v *Vault) Set(section string, records []Record) {
	switch section {
	case SectionDID:
		v.DIDStore = records
	case SectionKey:
		v.KeyStore = records
	case SectionPrivateKey:
		v.PrivateKeyStore = records
	case SectionVC:
		v.VCStore = records
	}
}

// FileMap projects a section array into the keyed map the flat adapter file
// stores. Records without a natural key get a deterministic fallback key so
// that seeding never drops data.
func (s Section) FileMap(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for i, r := range records {
		key := s.Key(r)
		if key == "" {
			key = fmt.Sprintf("%s-%d", s.Name, i)
		}
		m[key] = r
	}
	return m
}

var idRx = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,32}$`)

// ValidateID checks a vault id: 2-32 chars, alphanumeric plus '-' and '_'.
func ValidateID(id string) error {
	if !idRx.MatchString(id) {
		return fmt.Errorf("invalid vault id: %q", id)
	}
	return nil
}
