package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	s := DataURL("application/pdf", []byte("%PDF-1.4"))
	assert.Equal(t, "data:application/pdf;base64,JVBERi0xLjQ=", s)
	assert.Equal(t, len(s), DataURLLen("application/pdf", 8))

	mediaType, data, err := ParseDataURL(s)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestParseDataURLRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"application/pdf;base64,AAAA",
		"data:application/pdf,AAAA",
		"data:application/pdf;base64,***",
	} {
		_, _, err := ParseDataURL(s)
		assert.Error(t, err, s)
	}
}
