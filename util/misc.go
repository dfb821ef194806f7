package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// JsonHash fingerprints any JSON-serializable value.
func JsonHash(s interface{}) string {
	bs, _ := json.Marshal(s)
	hash := sha256.Sum256(bs)
	return hex.EncodeToString(hash[:])
}

func CopyIntSlice(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}
