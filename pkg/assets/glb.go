package assets

import (
	"bytes"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// Open resolves, reads and decodes a GLB asset. A missing "nodes" array is
// repaired in memory before decoding; a failed repair is logged and the
// original bytes are decoded instead, so only genuinely broken containers
// fail the load.
func Open(filename string, lg *zap.Logger) (*gltf.Document, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	path, err := Resolve(filename)
	if err != nil {
		return nil, err
	}
	lg.Info("loading asset", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	patched, didPatch, err := EnsureSceneNodes(data)
	switch {
	case err != nil:
		lg.Warn("GLB patch failed, decoding original bytes", zap.String("path", path), zap.Error(err))
		patched = data
	case didPatch:
		lg.Info("patched GLB scene nodes in memory", zap.String("path", path))
	}

	doc, err := Decode(patched)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses GLB or glTF bytes into a document.
func Decode(data []byte) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return doc, nil
}
