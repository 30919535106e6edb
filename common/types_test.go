package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToHash(t *testing.T) {
	// short input is left-padded
	h := BytesToHash([]byte{1, 2})
	assert.Equal(t, byte(1), h[30])
	assert.Equal(t, byte(2), h[31])
	// oversize input is cropped from the left
	long := make([]byte, 40)
	long[8] = 0xaa
	h = BytesToHash(long)
	assert.Equal(t, byte(0xaa), h[0])
}

func TestHash_Hex(t *testing.T) {
	h := HexToHash("0x0102")
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000102", h.Hex())
	assert.Equal(t, h.Hex(), h.String())
}

func TestHash_MarshalJSON(t *testing.T) {
	h := HexToHash("0xabcd")
	data, err := json.Marshal(h)
	assert.NoError(t, err)

	var decoded Hash
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x01"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`12`), &decoded))
}

func TestIsHexAddress(t *testing.T) {
	assert.True(t, IsHexAddress("0x52fdfc072182654f163f5f0f9a621d729566c74d"))
	assert.True(t, IsHexAddress("52fdfc072182654f163f5f0f9a621d729566c74d"))
	assert.False(t, IsHexAddress("0x52fd"))
	assert.False(t, IsHexAddress("0xzzfdfc072182654f163f5f0f9a621d729566c74d"))
}

func TestAddress_MarshalJSON(t *testing.T) {
	a := HexToAddress("0x52fdfc072182654f163f5f0f9a621d729566c74d")
	data, err := json.Marshal(a)
	assert.NoError(t, err)
	assert.Equal(t, `"0x52fdfc072182654f163f5f0f9a621d729566c74d"`, string(data))

	var decoded Address
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("0x52fdfc072182654f163f5f0f9a621d729566c74d")
	assert.NoError(t, err)
	assert.Equal(t, HexToAddress("0x52fdfc072182654f163f5f0f9a621d729566c74d"), a)

	_, err = ParseAddress("not an address")
	assert.Equal(t, ErrInvalidAddress, err)
}
