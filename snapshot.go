package snaptrace

import (
	"fmt"
	"os"
	"path/filepath"

	"snaptrace/chain"
)

// snapshotSourceFiles reads the full text of every file referenced by
// the chain's frames. Read failures become a placeholder message so a
// missing or unreadable file can never abort a dump. Both walks guard
// against cyclic chains.
func snapshotSourceFiles(tr *chain.Trace) map[string]string {
	files := make(map[string]string)
	seenTrace := make(map[*chain.Trace]bool)
	for ; tr != nil && !seenTrace[tr]; tr = tr.Next {
		seenTrace[tr] = true
		seenFrame := make(map[*chain.Frame]bool)
		for fr := tr.Frame; fr != nil && !seenFrame[fr]; fr = fr.Back {
			seenFrame[fr] = true
			if fr.Code == nil || fr.Code.File == "" {
				continue
			}
			filename := fr.Code.File
			if abs, err := filepath.Abs(filename); err == nil {
				filename = abs
			}
			if _, ok := files[filename]; ok {
				continue
			}
			// #nosec G304 -- the path comes from the chain being dumped
			data, err := os.ReadFile(filename)
			if err != nil {
				files[filename] = fmt.Sprintf("Couldn't locate %q during dump.", fr.Code.File)
				continue
			}
			files[filename] = string(data)
		}
	}
	return files
}
