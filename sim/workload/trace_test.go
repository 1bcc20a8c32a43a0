package workload

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTrace_ParsesRows(t *testing.T) {
	in := "time,op,block_id\n0.5,write,42\n1.25,read,123456789012345678901234567890\n2,w,7\n"
	reqs, err := ReadTrace(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, 0, reqs[0].ID)
	assert.Equal(t, 0.5, reqs[0].Time)
	assert.Equal(t, OpWrite, reqs[0].Op)
	assert.Equal(t, "42", reqs[0].BlockID.String())
	assert.Equal(t, OpRead, reqs[1].Op)
	assert.Equal(t, "123456789012345678901234567890", reqs[1].BlockID.String())
	assert.Equal(t, OpWrite, reqs[2].Op)
}

func TestReadTrace_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", "time,op,block_id\n"},
		{"wrong header", "t,op,block\n1,read,1\n"},
		{"bad time", "time,op,block_id\nsoon,read,1\n"},
		{"negative time", "time,op,block_id\n-1,read,1\n"},
		{"bad op", "time,op,block_id\n1,trim,1\n"},
		{"bad block", "time,op,block_id\n1,read,x1\n"},
		{"negative block", "time,op,block_id\n1,read,-4\n"},
		{"missing column", "time,op,block_id\n1,read\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrace(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestWriteTrace_LoadTrace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")
	want := []Request{
		{ID: 0, Time: 0.125, Op: OpWrite, BlockID: big.NewInt(3)},
		{ID: 1, Time: 3, Op: OpRead, BlockID: big.NewInt(9)},
	}
	require.NoError(t, WriteTrace(path, want))

	got, err := LoadTrace(path)
	require.NoError(t, err)
	bigEqual := cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })
	if diff := cmp.Diff(want, got, bigEqual); diff != "" {
		t.Errorf("trace changed on round trip (-want +got):\n%s", diff)
	}
}

func TestLoadTrace_MissingFile(t *testing.T) {
	_, err := LoadTrace(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("r")
	require.NoError(t, err)
	assert.Equal(t, OpRead, op)
	_, err = ParseOp("erase")
	assert.EqualError(t, err, `unknown op "erase"; valid: read, write`)
	assert.Equal(t, "op(7)", Op(7).String())
}
