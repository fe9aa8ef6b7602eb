// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifact

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// SourceIdentifier derives the stable dedup key for an artifact from
// the platform, tenant and reference id. Each part is length-prefixed
// before hashing so ("a", "bc") and ("ab", "c") never collide.
func SourceIdentifier(platformType, tenantID, referenceID string) string {
	h := sha256.New()
	for _, part := range []string{platformType, tenantID, referenceID} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}
