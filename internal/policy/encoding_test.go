package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_EncodeDocument(t *testing.T) {
	data, err := TrustPolicyForAccount("123456789012").Marshal()
	require.NoError(t, err)

	encoded := EncodeDocument(string(data))
	require.NotContains(t, encoded, "{")
	require.NotContains(t, encoded, `"`)
	require.Contains(t, encoded, "%7B%22Version%22%3A%222012-10-17%22")

	decoded, err := DecodeDocument(encoded)
	require.NoError(t, err)
	require.Equal(t, string(data), decoded)
}

func Test_EncodeDocument_spaces(t *testing.T) {
	encoded := EncodeDocument(`{"Sid": "a b"}`)
	require.NotContains(t, encoded, "+")
	require.Contains(t, encoded, "%20")

	decoded, err := DecodeDocument(encoded)
	require.NoError(t, err)
	require.Equal(t, `{"Sid": "a b"}`, decoded)
}

func Test_DecodeDocument_plain(t *testing.T) {
	decoded, err := DecodeDocument(`{"Version":"2012-10-17"}`)
	require.NoError(t, err)
	require.Equal(t, `{"Version":"2012-10-17"}`, decoded)
}

func Test_DecodeDocument_invalid(t *testing.T) {
	_, err := DecodeDocument("%zz")
	require.Error(t, err)
}
