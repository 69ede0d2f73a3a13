package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const exampleCatalog = `{
  "saves": [
    {
      "tag": "Zelda",
      "paths": {"windows": "C:\\saves\\z", "linux": "~/saves/z", "macos": "~/saves/z"}
    },
    {
      "tag": "Pokemon",
      "subdir": "red",
      "exclude": ["**/*.bak"],
      "paths": {"windows": "%APPDATA%\\red", "linux": "$HOME/red", "macos": ""}
    },
    {
      "tag": "Pokemon",
      "subdir": "blue",
      "paths": {"windows": "", "linux": "~/blue", "macos": "~/blue"}
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func containsSubstring(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestLoadValidCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", exampleCatalog)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Saves) != 3 {
		t.Fatalf("saves = %d, want 3", len(cat.Saves))
	}

	want := SaveEntry{
		Tag:     "Pokemon",
		Subdir:  "red",
		Exclude: []string{"**/*.bak"},
		Paths:   SavePaths{Windows: `%APPDATA%\red`, Linux: "$HOME/red", MacOS: ""},
	}
	if diff := cmp.Diff(want, cat.Saves[1]); diff != "" {
		t.Errorf("saves[1] mismatch (-want +got):\n%s", diff)
	}
	if cat.Saves[0].Subdir != "" {
		t.Errorf("saves[0].Subdir = %q, want empty", cat.Saves[0].Subdir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist: %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"saves": [`)

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "parsing json") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	dir := t.TempDir()

	for _, content := range []string{`{}`, `{"saves": []}`, `{"saves": null}`} {
		path := writeFile(t, dir, "config.json", content)
		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", content, err)
		}
		if len(cat.Saves) != 0 {
			t.Errorf("Load(%s): saves = %d, want 0", content, len(cat.Saves))
		}
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"saves": [{"tag": "", "paths": {"linux": "~/a"}}]}`)

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, want := range []string{"'tag' is required", "'paths.windows' is required", "'paths.macos' is required"} {
		if !containsSubstring(verr.Errors, want) {
			t.Errorf("expected %q in %v", want, verr.Errors)
		}
	}
	if containsSubstring(verr.Errors, "'paths.linux'") {
		t.Errorf("linux path was present: %v", verr.Errors)
	}
}

func TestParseMissingPathsObject(t *testing.T) {
	_, err := Parse([]byte(`{"saves": [{"tag": "Zelda"}]}`), FormatJSON)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !containsSubstring(verr.Errors, "save[0] 'Zelda': 'paths' is required") {
		t.Errorf("unexpected errors: %v", verr.Errors)
	}
}

func TestParseWrongTagType(t *testing.T) {
	_, err := Parse([]byte(`{"saves": [{"tag": 3, "paths": {"windows": "", "linux": "", "macos": ""}}]}`), FormatJSON)
	if err == nil {
		t.Fatal("expected error for numeric tag")
	}
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	cat, err := Parse([]byte(`{"version": 2, "saves": [{"tag": "a", "note": "x", "paths": {"windows": "w", "linux": "l", "macos": "m"}}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cat.Saves[0].Tag != "a" {
		t.Errorf("tag = %q", cat.Saves[0].Tag)
	}
}

func TestValidateExcludePattern(t *testing.T) {
	cat := &Catalog{Saves: []SaveEntry{{Tag: "a", Exclude: []string{"[unclosed"}}}}
	errs := Validate(cat)
	if !containsSubstring(errs, "invalid exclude pattern '[unclosed'") {
		t.Errorf("expected pattern error, got: %v", errs)
	}
}

func TestValidateBlankTag(t *testing.T) {
	cat := &Catalog{Saves: []SaveEntry{{Tag: "   "}}}
	if errs := Validate(cat); !containsSubstring(errs, "'tag' is required") {
		t.Errorf("expected tag error, got: %v", errs)
	}
}

func TestLoadYAML(t *testing.T) {
	content := `saves:
  - tag: Zelda
    subdir: main
    paths:
      windows: 'C:\saves\z'
      linux: ~/saves/z
      macos: ~/saves/z
`
	path := writeFile(t, t.TempDir(), "config.yaml", content)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Catalog{Saves: []SaveEntry{{
		Tag:    "Zelda",
		Subdir: "main",
		Paths:  SavePaths{Windows: `C:\saves\z`, Linux: "~/saves/z", MacOS: "~/saves/z"},
	}}}
	if diff := cmp.Diff(want, cat); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	content := `[[saves]]
tag = "Zelda"

[saves.paths]
windows = 'C:\saves\z'
linux = "~/saves/z"
macos = "~/saves/z"
`
	path := writeFile(t, t.TempDir(), "config.toml", content)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Saves) != 1 || cat.Saves[0].Paths.Windows != `C:\saves\z` {
		t.Errorf("unexpected catalog: %+v", cat)
	}
}

func TestLoadTOMLMissingPath(t *testing.T) {
	content := `[[saves]]
tag = "Zelda"

[saves.paths]
linux = "~/saves/z"
`
	path := writeFile(t, t.TempDir(), "config.toml", content)

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !containsSubstring(verr.Errors, "'paths.windows' is required") {
		t.Errorf("unexpected errors: %v", verr.Errors)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	orig, err := Parse([]byte(exampleCatalog), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(orig, format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Parse(data, format)
			if err != nil {
				t.Fatalf("Parse: %v\n%s", err, data)
			}
			if diff := cmp.Diff(orig, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeJSONFieldNames(t *testing.T) {
	cat := &Catalog{Saves: []SaveEntry{{Tag: "a", Paths: SavePaths{Windows: "w", Linux: "l", MacOS: "m"}}}}
	data, err := Encode(cat, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string][]map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	entry := out["saves"][0]
	if _, ok := entry["subdir"]; ok {
		t.Error("empty subdir should be omitted")
	}
	paths, ok := entry["paths"].(map[string]any)
	if !ok {
		t.Fatalf("paths = %T", entry["paths"])
	}
	if paths["macos"] != "m" {
		t.Errorf("paths.macos = %v", paths["macos"])
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"config.json", FormatJSON},
		{"config.YAML", FormatYAML},
		{"config.yml", FormatYAML},
		{"config.toml", FormatTOML},
		{"config", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" YML "); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %q, %v", f, err)
	}
	if _, err := ParseFormat("ini"); err == nil {
		t.Error("expected error for unknown format")
	}
}
