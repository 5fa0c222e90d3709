package testutil

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteArchive writes a synthetic asar archive to path containing the
// given entries. Entry names use forward slashes ("dir/file.js" creates
// a nested directory node). Offsets are assigned in sorted name order,
// so the same entry map always produces byte-identical archives.
//
// The output uses the same pickle framing the asar reader parses: four
// little-endian uint32 words, the JSON header padded to a 4-byte
// boundary, then the concatenated payloads.
func WriteArchive(path string, entries map[string][]byte) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	files := map[string]any{}
	var offset int64
	for _, name := range names {
		data := entries[name]
		node := files
		parts := strings.Split(name, "/")
		for _, part := range parts[:len(parts)-1] {
			dir, ok := node[part].(map[string]any)
			if !ok {
				dir = map[string]any{"files": map[string]any{}}
				node[part] = dir
			}
			node = dir["files"].(map[string]any)
		}
		node[parts[len(parts)-1]] = map[string]any{
			"offset": strconv.FormatInt(offset, 10),
			"size":   len(data),
		}
		offset += int64(len(data))
	}

	headerJSON, err := json.Marshal(map[string]any{"files": files})
	if err != nil {
		return fmt.Errorf("marshal archive header: %w", err)
	}

	jsonLen := uint32(len(headerJSON))
	padded := (jsonLen + 3) &^ 3
	words := [4]uint32{4, 8 + padded, 4 + padded, jsonLen}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, words); err != nil {
		return fmt.Errorf("write archive preamble: %w", err)
	}
	if _, err := f.Write(headerJSON); err != nil {
		return fmt.Errorf("write archive header: %w", err)
	}
	if pad := padded - jsonLen; pad > 0 {
		if _, err := f.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("write archive header padding: %w", err)
		}
	}
	for _, name := range names {
		if _, err := f.Write(entries[name]); err != nil {
			return fmt.Errorf("write archive entry %s: %w", name, err)
		}
	}
	return nil
}
