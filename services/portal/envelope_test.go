package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelopeItem struct {
	ID int `json:"id"`
}

func TestDecodeList_BareArray(t *testing.T) {
	items, err := decodeList[envelopeItem]([]byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, items[1].ID)
}

func TestDecodeList_WrappedVariants(t *testing.T) {
	for name, body := range map[string]string{
		"results": `{"results":[{"id":3}]}`,
		"data":    `{"data":[{"id":3}]}`,
		"items":   `{"items":[{"id":3}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			items, err := decodeList[envelopeItem]([]byte(body))
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, 3, items[0].ID)
		})
	}
}

func TestDecodeList_NullAndEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"null body":    `null`,
		"empty body":   ``,
		"null results": `{"results": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			items, err := decodeList[envelopeItem]([]byte(body))
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestDecodeList_PrefersFirstRecognizedKey(t *testing.T) {
	items, err := decodeList[envelopeItem]([]byte(`{"data":[{"id":9}],"results":[{"id":1}]}`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID, "results should win over data")
}

func TestDecodeList_UnrecognizedObject(t *testing.T) {
	items, err := decodeList[envelopeItem]([]byte(`{"count": 0}`))
	assert.Error(t, err)
	assert.Empty(t, items)
}

func TestDecodeList_ScalarPayload(t *testing.T) {
	_, err := decodeList[envelopeItem]([]byte(`42`))
	assert.Error(t, err)
}
