package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"
)

const chunkBIN = 0x004E4942

// buildGLB assembles a GLB container from a JSON payload and an optional
// binary chunk.
func buildGLB(t *testing.T, jsonPayload []byte, bin []byte) []byte {
	t.Helper()
	jsonPadded := append([]byte(nil), jsonPayload...)
	for len(jsonPadded)%4 != 0 {
		jsonPadded = append(jsonPadded, ' ')
	}

	var buf bytes.Buffer
	hdr := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	hdr(glbMagic)
	hdr(2)
	hdr(0) // file length, fixed up below
	hdr(uint32(len(jsonPadded)))
	hdr(chunkJSON)
	buf.Write(jsonPadded)
	if bin != nil {
		hdr(uint32(len(bin)))
		hdr(chunkBIN)
		buf.Write(bin)
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[8:], uint32(len(out)))
	return out
}

func glbJSON(t *testing.T, glb []byte) map[string]any {
	t.Helper()
	if binary.LittleEndian.Uint32(glb) != glbMagic {
		t.Fatal("not a GLB")
	}
	clen := int(binary.LittleEndian.Uint32(glb[12:]))
	if binary.LittleEndian.Uint32(glb[16:]) != chunkJSON {
		t.Fatal("first chunk is not JSON")
	}
	var root map[string]any
	if err := json.Unmarshal(glb[20:20+clen], &root); err != nil {
		t.Fatalf("parse patched JSON: %v", err)
	}
	return root
}

func TestEnsureSceneNodesInjectsArrays(t *testing.T) {
	src := buildGLB(t, []byte(`{"asset":{"version":"2.0"},"scenes":[{},{"name":"x"}]}`), nil)

	out, patched, err := EnsureSceneNodes(src)
	if err != nil {
		t.Fatal(err)
	}
	if !patched {
		t.Fatal("expected a patch")
	}

	root := glbJSON(t, out)
	if _, ok := root["nodes"].([]any); !ok {
		t.Error("top-level nodes array missing")
	}
	scenes := root["scenes"].([]any)
	for i, s := range scenes {
		scene := s.(map[string]any)
		if _, ok := scene["nodes"].([]any); !ok {
			t.Errorf("scene %d nodes array missing", i)
		}
	}

	// Container invariants: declared file length matches, JSON chunk is
	// 4-byte aligned.
	if int(binary.LittleEndian.Uint32(out[8:])) != len(out) {
		t.Error("file length header not updated")
	}
	if binary.LittleEndian.Uint32(out[12:])%4 != 0 {
		t.Error("patched JSON chunk not aligned")
	}
}

func TestEnsureSceneNodesPreservesBinChunk(t *testing.T) {
	bin := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	src := buildGLB(t, []byte(`{"asset":{"version":"2.0"},"scenes":[{}]}`), bin)

	out, patched, err := EnsureSceneNodes(src)
	if err != nil {
		t.Fatal(err)
	}
	if !patched {
		t.Fatal("expected a patch")
	}

	// Locate the BIN chunk in the output and compare payloads.
	jsonLen := int(binary.LittleEndian.Uint32(out[12:]))
	binOff := 20 + jsonLen
	if binary.LittleEndian.Uint32(out[binOff+4:]) != chunkBIN {
		t.Fatal("BIN chunk not found after patched JSON")
	}
	gotLen := int(binary.LittleEndian.Uint32(out[binOff:]))
	got := out[binOff+8 : binOff+8+gotLen]
	if !bytes.Equal(got, bin) {
		t.Errorf("BIN payload changed: got %v, want %v", got, bin)
	}
}

func TestEnsureSceneNodesNoOpWhenPresent(t *testing.T) {
	src := buildGLB(t, []byte(`{"asset":{"version":"2.0"},"nodes":[],"scenes":[{"nodes":[]}]}`), nil)

	out, patched, err := EnsureSceneNodes(src)
	if err != nil {
		t.Fatal(err)
	}
	if patched {
		t.Fatal("patched a complete document")
	}
	if !bytes.Equal(out, src) {
		t.Error("no-op changed the bytes")
	}
}

func TestEnsureSceneNodesIgnoresNonGLB(t *testing.T) {
	src := []byte(`{"asset":{"version":"2.0"}}`)
	out, patched, err := EnsureSceneNodes(src)
	if err != nil {
		t.Fatal(err)
	}
	if patched {
		t.Fatal("patched plain JSON input")
	}
	if !bytes.Equal(out, src) {
		t.Error("non-GLB input changed")
	}
}

func TestEnsureSceneNodesPreservesNumbers(t *testing.T) {
	// Large and fractional values must survive the decode/encode cycle
	// exactly.
	src := buildGLB(t, []byte(`{"asset":{"version":"2.0"},"scenes":[{}],"accessors":[{"count":16777217,"max":[0.30000000000000004]}]}`), nil)

	out, patched, err := EnsureSceneNodes(src)
	if err != nil {
		t.Fatal(err)
	}
	if !patched {
		t.Fatal("expected a patch")
	}

	jsonLen := int(binary.LittleEndian.Uint32(out[12:]))
	payload := string(out[20 : 20+jsonLen])
	for _, want := range []string{"16777217", "0.30000000000000004"} {
		if !bytes.Contains([]byte(payload), []byte(want)) {
			t.Errorf("payload lost literal %s", want)
		}
	}
}
