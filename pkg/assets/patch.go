package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// GLB chunked container constants, little-endian.
const (
	glbMagic  = 0x46546C67 // "glTF"
	chunkJSON = 0x4E4F534A // "JSON"
)

// EnsureSceneNodes repairs a GLB whose JSON chunk is missing a "nodes"
// array, either at the top level or inside any scene. Some exporters emit
// such files and strict decoders reject them. The patch is applied to a
// copy of the container: empty arrays are inserted, the JSON chunk is
// re-padded to 4-byte alignment and the chunk and file length headers are
// recomputed. Binary chunks that follow are carried over byte for byte.
//
// Returns the (possibly new) file bytes and whether a patch was applied.
// Non-GLB input is returned unchanged.
func EnsureSceneNodes(data []byte) ([]byte, bool, error) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data) != glbMagic {
		return data, false, nil
	}

	// Walk the chunk list to find the JSON chunk.
	jsonStart, jsonLen := 0, 0
	off := 12
	for off+8 <= len(data) {
		clen := int(binary.LittleEndian.Uint32(data[off:]))
		ctyp := binary.LittleEndian.Uint32(data[off+4:])
		if ctyp == chunkJSON {
			jsonStart = off + 8
			jsonLen = clen
			break
		}
		off += 8 + clen
	}
	if jsonStart == 0 {
		return data, false, nil
	}
	if jsonStart+jsonLen > len(data) {
		return data, false, fmt.Errorf("JSON chunk length %d exceeds file size %d", jsonLen, len(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data[jsonStart : jsonStart+jsonLen]))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return data, false, fmt.Errorf("parse GLB JSON chunk: %w", err)
	}

	patched := false
	if _, ok := root["nodes"]; !ok {
		root["nodes"] = []any{}
		patched = true
	}
	if scenes, ok := root["scenes"].([]any); ok {
		for _, s := range scenes {
			scene, ok := s.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := scene["nodes"]; !ok {
				scene["nodes"] = []any{}
				patched = true
			}
		}
	}
	if !patched {
		return data, false, nil
	}

	newJSON, err := json.Marshal(root)
	if err != nil {
		return data, false, fmt.Errorf("re-encode GLB JSON chunk: %w", err)
	}
	for len(newJSON)%4 != 0 {
		newJSON = append(newJSON, ' ')
	}

	// The old chunk's payload is padded to 4 bytes on disk even when its
	// declared length is not.
	oldAligned := (jsonLen + 3) &^ 3
	tailStart := jsonStart + oldAligned

	out := make([]byte, 0, len(data)-oldAligned+len(newJSON))
	out = append(out, data[:12]...)
	out = append(out, data[12:jsonStart-8]...)

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(newJSON)))
	binary.LittleEndian.PutUint32(hdr[4:], chunkJSON)
	out = append(out, hdr[:]...)
	out = append(out, newJSON...)
	if tailStart < len(data) {
		out = append(out, data[tailStart:]...)
	}
	binary.LittleEndian.PutUint32(out[8:], uint32(len(out)))

	return out, true, nil
}
