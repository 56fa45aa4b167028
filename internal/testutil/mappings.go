package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Sample mapping files. Together they form the network
// dan -> dan-ipa -> eng-ipa -> eng-arpabet, where "hej" converts to "HH EH Y".
const (
	DanToIPA = `in_lang: dan
out_lang: dan-ipa
rules:
  - {from: j, to: j}
`
	DanIPAToEngIPA = `in_lang: dan-ipa
out_lang: eng-ipa
rules:
  - {from: j, to: i}
`
	EngIPAToArpabet = `in_lang = "eng-ipa"
out_lang = "eng-arpabet"

[[rules]]
from = "h"
to = "HH "

[[rules]]
from = "e"
to = "EH "

[[rules]]
from = "i"
to = "Y"
`
)

// SampleMappings writes the sample mapping files into a fresh temporary
// directory and returns it.
func SampleMappings(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "dan/dan_to_ipa.yaml", DanToIPA)
	WriteFile(t, dir, "dan/ipa_to_eng.yaml", DanIPAToEngIPA)
	WriteFile(t, dir, "eng/arpabet.toml", EngIPAToArpabet)
	return dir
}
