package index

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/stretchr/testify/assert"
)

func cloneMap(tgt, src regMapType) {
	for k, v := range src {
		tgt[k] = v
	}
}

func buildRegistryData() regMapType {
	r := make(regMapType)
	r["work"] = "alice"
	r["personal"] = "alice-personal"
	r["team"] = "team_vault-01"
	r["old"] = "retired-vault"
	return r
}

func Test_newReg(t *testing.T) {
	testReg1 := Reg{}
	testReg2 := Reg{}

	r1 := make(regMapType)
	r1["a"] = "vault-a"
	r1["b"] = "vault-b"
	testReg1.r = make(regMapType)
	cloneMap(testReg1.r, r1)
	jsonBytes1 := dto.ToJSONBytes(testReg1.r)

	r2 := buildRegistryData()
	testReg2.r = make(regMapType)
	cloneMap(testReg2.r, r2)
	jsonBytes2 := dto.ToJSONBytes(testReg2.r)

	type args struct {
		data []byte
	}
	tests := []struct {
		name  string
		args  args
		wantR *regMapType
	}{
		{"1st", args{data: jsonBytes1}, &r1},
		{"2nd", args{data: jsonBytes2}, &r2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if gotR := newReg(tt.args.data); !reflect.DeepEqual(gotR, tt.wantR) {
				t.Errorf("newReg() = %v, want %v", gotR, tt.wantR)
			}
		})
	}
}

func Test_reg_save_and_load(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "index.json")

	r := &Reg{r: buildRegistryData()}
	assert.NoError(t, r.Save(filename))

	loaded := New()
	assert.NoError(t, loaded.Load(filename))
	assert.True(t, reflect.DeepEqual(r.r, loaded.r))
}

func Test_reg_load_creates_missing_file(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "new-index.json")

	r := New()
	assert.NoError(t, r.Load(filename))
	assert.Len(t, r.r, 0)

	data, err := os.ReadFile(filename)
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestReg_Exist(t *testing.T) {
	reg := Reg{r: buildRegistryData()}
	assert.True(t, reg.Exist("team"))
	assert.False(t, reg.Exist("nope"))
}

func TestReg_Resolve(t *testing.T) {
	reg := Reg{r: buildRegistryData()}
	assert.Equal(t, "alice", reg.Resolve("work"))

	// unregistered names resolve to themselves, plain vault ids pass thru
	assert.Equal(t, "alice", reg.Resolve("alice"))
}

func TestReg_AddRm(t *testing.T) {
	reg := New()
	reg.Add("home", "bob")
	assert.True(t, reg.Exist("home"))
	assert.Equal(t, "bob", reg.Resolve("home"))

	reg.Rm("home")
	assert.False(t, reg.Exist("home"))
}

func Test_reg_enumValues(t *testing.T) {
	r3 := buildRegistryData()

	count := 0
	f := func(alias keyAlias, vaultID valueType) bool {
		count++
		return count < 3
	}
	r := &Reg{r: r3}
	r.EnumValues(f)
	assert.Equal(t, 3, count)
}

func Test_reg_Reset(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "index.json")

	r := &Reg{r: buildRegistryData()}
	assert.True(t, len(r.r) > 0)
	assert.NoError(t, r.Save(filename))

	assert.NoError(t, r.Reset(filename))
	assert.Len(t, r.r, 0)

	loaded := New()
	assert.NoError(t, loaded.Load(filename))
	assert.Len(t, loaded.r, 0)
}
