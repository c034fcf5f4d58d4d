package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtrack/pkg/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDetectFileType(t *testing.T) {
	r := bytes.NewReader(pngHeader)
	mime, err := DetectFileType(r, "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	pos, _ := r.Seek(0, 1)
	assert.Equal(t, int64(0), pos)

	mime, err = DetectFileType(bytes.NewReader([]byte("PK\x03\x04rest-of-zip")), "act.docx")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", mime)

	mime, err = DetectFileType(bytes.NewReader([]byte("просто текст")), "note.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
}

func TestValidateFile(t *testing.T) {
	rules := config.UploadConfig{MaxSizeBytes: 5 << 20, AllowedMimeTypes: []string{"image/png", "application/pdf"}}

	assert.NoError(t, ValidateFile(rules, 1024, "image/png"))
	assert.Error(t, ValidateFile(rules, 6<<20, "image/png"))
	assert.Error(t, ValidateFile(rules, 10, "text/plain"))
}
