package drive

import (
	"fmt"
	"strings"
)

var queryValueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// escapeQueryValue escapes a value for use inside a single-quoted string in
// the Drive query language.
func escapeQueryValue(s string) string {
	return queryValueEscaper.Replace(s)
}

// BuildFolderQuery returns the files.list query selecting the non-trashed
// children of folderID, optionally restricted to files matching fullText.
func BuildFolderQuery(folderID, fullText string) string {
	q := fmt.Sprintf("'%s' in parents and trashed=false", escapeQueryValue(folderID))
	if term := strings.TrimSpace(fullText); term != "" {
		q += fmt.Sprintf(" and fullText contains '%s'", escapeQueryValue(term))
	}
	return q
}
