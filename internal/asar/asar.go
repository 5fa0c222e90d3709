package asar

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// headerEntry is one node in the asar header's nested "files" tree.
// A node is either a directory (Files non-nil) or a file entry with
// an offset into the data section and a size.
type headerEntry struct {
	Files map[string]*headerEntry `json:"files,omitempty"`

	// Offset is a decimal string because asar headers are written by
	// JavaScript, where 64-bit offsets do not fit in a JSON number.
	Offset   string `json:"offset,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Unpacked bool   `json:"unpacked,omitempty"`
}

// ExtractEntry returns the bytes of a single named entry from the
// archive at archivePath. Entry names use forward slashes regardless
// of host OS (e.g. "package.json", "dist/main.js").
//
// The header is parsed on every call and the entry's byte range is
// read directly; the archive is never materialized to disk.
func ExtractEntry(archivePath, entryName string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, &ArchiveError{Code: ErrCodeOpen, Message: "cannot open archive", Archive: archivePath, Err: err}
	}
	defer f.Close()

	root, dataOffset, err := readHeader(f, archivePath)
	if err != nil {
		return nil, err
	}

	entry, err := lookup(root, archivePath, entryName)
	if err != nil {
		return nil, err
	}
	if entry.Unpacked {
		return nil, &ArchiveError{
			Code:    ErrCodeEntryNotFound,
			Message: "entry is stored unpacked outside the archive",
			Archive: archivePath,
			Entry:   entryName,
		}
	}

	offset, err := strconv.ParseInt(entry.Offset, 10, 64)
	if err != nil {
		return nil, &ArchiveError{Code: ErrCodeHeader, Message: "entry has malformed offset", Archive: archivePath, Entry: entryName, Err: err}
	}

	buf := make([]byte, entry.Size)
	if _, err := f.ReadAt(buf, dataOffset+offset); err != nil {
		return nil, &ArchiveError{Code: ErrCodeHeader, Message: "entry byte range unreadable", Archive: archivePath, Entry: entryName, Err: err}
	}
	return buf, nil
}

// ListEntries returns the slash-separated names of all file entries in
// the archive, sorted lexicographically. Directories are not listed.
func ListEntries(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, &ArchiveError{Code: ErrCodeOpen, Message: "cannot open archive", Archive: archivePath, Err: err}
	}
	defer f.Close()

	root, _, err := readHeader(f, archivePath)
	if err != nil {
		return nil, err
	}

	var names []string
	var walk func(prefix string, node *headerEntry)
	walk = func(prefix string, node *headerEntry) {
		for name, child := range node.Files {
			full := name
			if prefix != "" {
				full = prefix + "/" + name
			}
			if child.Files != nil {
				walk(full, child)
			} else {
				names = append(names, full)
			}
		}
	}
	walk("", root)
	sort.Strings(names)
	return names, nil
}

// readHeader parses the pickle framing and JSON header. It returns the
// root of the files tree and the absolute offset of the data section.
//
// Framing: two little-endian uint32 words (the first is always 4, the
// second is the size of the header pickle), then two more words (the
// pickle payload size and the JSON string length), then the JSON. Entry
// offsets in the header are relative to 8 + <header pickle size>.
func readHeader(f *os.File, archivePath string) (*headerEntry, int64, error) {
	var words [4]uint32
	if err := binary.Read(f, binary.LittleEndian, &words); err != nil {
		return nil, 0, &ArchiveError{Code: ErrCodeHeader, Message: "truncated pickle preamble", Archive: archivePath, Err: err}
	}
	if words[0] != 4 {
		return nil, 0, &ArchiveError{
			Code:    ErrCodeHeader,
			Message: fmt.Sprintf("unexpected pickle size word %d", words[0]),
			Archive: archivePath,
		}
	}

	headerSize := int64(words[1])
	jsonLen := int64(words[3])
	if jsonLen <= 0 || jsonLen > headerSize {
		return nil, 0, &ArchiveError{
			Code:    ErrCodeHeader,
			Message: fmt.Sprintf("implausible header JSON length %d (header size %d)", jsonLen, headerSize),
			Archive: archivePath,
		}
	}

	raw := make([]byte, jsonLen)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, 0, &ArchiveError{Code: ErrCodeHeader, Message: "truncated header JSON", Archive: archivePath, Err: err}
	}

	var root headerEntry
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, 0, &ArchiveError{Code: ErrCodeHeader, Message: "header is not valid JSON", Archive: archivePath, Err: err}
	}
	if root.Files == nil {
		return nil, 0, &ArchiveError{Code: ErrCodeHeader, Message: "header has no files object", Archive: archivePath}
	}

	return &root, 8 + headerSize, nil
}

// lookup walks the nested files tree along a slash-separated name.
func lookup(root *headerEntry, archivePath, entryName string) (*headerEntry, error) {
	node := root
	parts := strings.Split(entryName, "/")
	for i, part := range parts {
		child, ok := node.Files[part]
		if !ok {
			return nil, &ArchiveError{Code: ErrCodeEntryNotFound, Message: "no such entry", Archive: archivePath, Entry: entryName}
		}
		if i == len(parts)-1 {
			if child.Files != nil {
				return nil, &ArchiveError{Code: ErrCodeEntryNotFound, Message: "entry is a directory", Archive: archivePath, Entry: entryName}
			}
			return child, nil
		}
		if child.Files == nil {
			return nil, &ArchiveError{Code: ErrCodeEntryNotFound, Message: "no such entry", Archive: archivePath, Entry: entryName}
		}
		node = child
	}
	// Unreachable: entryName is never empty after Split.
	return nil, &ArchiveError{Code: ErrCodeEntryNotFound, Message: "no such entry", Archive: archivePath, Entry: entryName}
}
