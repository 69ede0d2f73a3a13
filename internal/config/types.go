package config

// Catalog is the save manifest: an ordered list of save entries.
// Multiple entries may share a tag.
type Catalog struct {
	Saves []SaveEntry `json:"saves" yaml:"saves" toml:"saves"`
}

// SaveEntry maps a logical tag to one physical save location per OS.
type SaveEntry struct {
	Tag string `json:"tag" yaml:"tag" toml:"tag"`

	// Subdir separates entries sharing a tag inside the backup root.
	Subdir string `json:"subdir,omitempty" yaml:"subdir,omitempty" toml:"subdir,omitempty"`

	// Exclude holds doublestar globs relative to the copy source root.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty"`

	Paths SavePaths `json:"paths" yaml:"paths" toml:"paths"`
}

// SavePaths holds the local save directory for each supported OS.
// Values may contain ~ and environment variable references.
type SavePaths struct {
	Windows string `json:"windows" yaml:"windows" toml:"windows"`
	Linux   string `json:"linux" yaml:"linux" toml:"linux"`
	MacOS   string `json:"macos" yaml:"macos" toml:"macos"`
}

// rawCatalog mirrors Catalog with pointer fields so that Validate can tell
// a missing key from an empty value.
type rawCatalog struct {
	Saves []rawEntry `json:"saves" yaml:"saves" toml:"saves"`
}

type rawEntry struct {
	Tag     *string   `json:"tag" yaml:"tag" toml:"tag"`
	Subdir  *string   `json:"subdir" yaml:"subdir" toml:"subdir"`
	Exclude []string  `json:"exclude" yaml:"exclude" toml:"exclude"`
	Paths   *rawPaths `json:"paths" yaml:"paths" toml:"paths"`
}

type rawPaths struct {
	Windows *string `json:"windows" yaml:"windows" toml:"windows"`
	Linux   *string `json:"linux" yaml:"linux" toml:"linux"`
	MacOS   *string `json:"macos" yaml:"macos" toml:"macos"`
}

func (r rawCatalog) catalog() *Catalog {
	cat := &Catalog{Saves: make([]SaveEntry, 0, len(r.Saves))}
	for _, re := range r.Saves {
		e := SaveEntry{
			Tag:     deref(re.Tag),
			Subdir:  deref(re.Subdir),
			Exclude: re.Exclude,
		}
		if re.Paths != nil {
			e.Paths = SavePaths{
				Windows: deref(re.Paths.Windows),
				Linux:   deref(re.Paths.Linux),
				MacOS:   deref(re.Paths.MacOS),
			}
		}
		cat.Saves = append(cat.Saves, e)
	}
	return cat
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
