package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/james-see/mxl2mei/pkg/converter"
)

type cachedConversion struct {
	data     []byte
	warnings int
}

// cacheKey hashes the upload together with the target format
func cacheKey(data []byte, target converter.Format) string {
	h := blake3.New()
	_, _ = h.Write([]byte(target))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
