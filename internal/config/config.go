// =============================================================================
// Zotero to WXR Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the converter runs without any file at all.
//
// CONFIGURATION SECTIONS:
//   csv      : Delimiter and required columns for the input table
//   xlsx     : Sheet to read when the input is a spreadsheet
//   columns  : Header names of the export, per logical field
//   mapping  : Title-casing word list, subtitle split, type aliases
//   output   : WXR post settings, meta key prefix, numbering, sections
//   logging  : Log level
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidDelimiter      = errors.New("csv.delimiter must be a single character or one of: tab, comma, semicolon, pipe")
	ErrEmptyRequiredColumn   = errors.New("csv.required_columns must not contain empty names")
	ErrInvalidIDBase         = errors.New("output.id_base must be non-negative")
	ErrInvalidSectionStyle   = errors.New("output.section_style must be 'element' or 'comment'")
	ErrEmptyPostType         = errors.New("output.post_type is required")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidAuthorTag      = errors.New("output.author_tags entries need both a match and a name")
	ErrUnknownAliasedType    = errors.New("mapping.type_aliases values must be publication type tags")
	ErrEmptyTitlePlaceholder = errors.New("mapping.untitled_placeholder must not be empty")
)

// Section styles for the emitted document.
const (
	SectionElement = "element"
	SectionComment = "comment"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds all converter settings.
type Config struct {
	CSV     CSVSettings   `yaml:"csv"`
	XLSX    XLSXSettings  `yaml:"xlsx"`
	Columns Columns       `yaml:"columns"`
	Mapping MappingConfig `yaml:"mapping"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CSVSettings contains settings for parsing the input table.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or the names
	// "tab", "comma", "semicolon", "pipe".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// RequiredColumns must be present in the header row, otherwise the
	// input is rejected before any row is read.
	// Default: Title, Item Type, Author (as named in Columns)
	RequiredColumns []string `yaml:"required_columns"`
}

// XLSXSettings applies when the input file is a spreadsheet.
type XLSXSettings struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// Columns names the header of each field in the export.
// The defaults are the column names of a Zotero CSV export.
type Columns struct {
	Title          string `yaml:"title"`
	Author         string `yaml:"author"`
	Editor         string `yaml:"editor"`
	ReviewedAuthor string `yaml:"reviewed_author"`
	ItemType       string `yaml:"item_type"`
	Date           string `yaml:"date"`
	Publication    string `yaml:"publication"`
	Volume         string `yaml:"volume"`
	Issue          string `yaml:"issue"`
	Pages          string `yaml:"pages"`
	URL            string `yaml:"url"`
	DOI            string `yaml:"doi"`
	Abstract       string `yaml:"abstract"`
	Publisher      string `yaml:"publisher"`
	Place          string `yaml:"place"`
	Extra          string `yaml:"extra"`
	Key            string `yaml:"key"`
}

// MappingConfig controls how rows become citation records.
type MappingConfig struct {
	// SmallWords are lowercased by title-casing unless they start or end
	// the title or follow sentence punctuation.
	SmallWords []string `yaml:"small_words"`

	// SplitSubtitle splits "Title: Subtitle" at the first colon.
	// Default: true
	SplitSubtitle *bool `yaml:"split_subtitle"`

	// DedupeTitles appends " (2)", " (3)", ... to repeated titles.
	// Default: true
	DedupeTitles *bool `yaml:"dedupe_titles"`

	// UntitledPlaceholder replaces an empty title.
	// Default: "Untitled"
	UntitledPlaceholder string `yaml:"untitled_placeholder"`

	// TypeAliases maps additional source labels to publication type tags.
	// Example: {"magazineArticle": "journalArticle"}
	TypeAliases map[string]string `yaml:"type_aliases"`
}

// OutputConfig controls the emitted WXR document.
type OutputConfig struct {
	// PostType is the WordPress post type of every item.
	// Default: "publications"
	PostType string `yaml:"post_type"`

	// PostAuthor is the dc:creator login.
	// Default: "anonymous"
	PostAuthor string `yaml:"post_author"`

	// PostStatus is the wp:status of every item.
	// Default: "publish"
	PostStatus string `yaml:"post_status"`

	// MetaPrefix prefixes every custom field key.
	// Default: "wpcf-pub-"
	MetaPrefix string `yaml:"meta_prefix"`

	// IDBase is the wp:post_id of the first item.
	// Default: 1
	IDBase *int `yaml:"id_base"`

	// Indent is the indentation unit.
	// Default: two spaces
	Indent string `yaml:"indent"`

	// SectionStyle is "element" (a <section> per bucket) or "comment"
	// (flat items with a comment marker per bucket).
	// Default: "element"
	SectionStyle string `yaml:"section_style"`

	// IncludeTimestamp adds a pubDate to the channel. This makes the output
	// differ between runs.
	IncludeTimestamp bool `yaml:"include_timestamp"`

	ChannelTitle       string `yaml:"channel_title"`
	ChannelDescription string `yaml:"channel_description"`

	// AuthorTags adds a post_tag category when the match string occurs in
	// the author, editor or reviewed author column.
	AuthorTags []AuthorTag `yaml:"author_tags"`
}

// AuthorTag tags every record crediting a given person.
type AuthorTag struct {
	// Match is a substring searched in the raw name columns, usually a surname.
	Match string `yaml:"match"`

	// Name is the tag text. The slug is derived from it.
	Name string `yaml:"name"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML configuration file, applies defaults and validates it.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultSmallWords is the title-casing exception list used when the
// configuration does not provide one.
var DefaultSmallWords = []string{
	"a", "an", "and", "as", "at", "but", "by", "en", "for", "if", "in",
	"nor", "of", "on", "or", "per", "the", "to", "v", "v.", "via", "vs", "vs.",
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}

	c := &cfg.Columns
	setDefault(&c.Title, "Title")
	setDefault(&c.Author, "Author")
	setDefault(&c.Editor, "Editor")
	setDefault(&c.ReviewedAuthor, "Reviewed Author")
	setDefault(&c.ItemType, "Item Type")
	setDefault(&c.Date, "Date")
	setDefault(&c.Publication, "Publication Title")
	setDefault(&c.Volume, "Volume")
	setDefault(&c.Issue, "Issue")
	setDefault(&c.Pages, "Pages")
	setDefault(&c.URL, "Url")
	setDefault(&c.DOI, "DOI")
	setDefault(&c.Abstract, "Abstract Note")
	setDefault(&c.Publisher, "Publisher")
	setDefault(&c.Place, "Place")
	setDefault(&c.Extra, "Extra")
	setDefault(&c.Key, "Key")

	if cfg.CSV.RequiredColumns == nil {
		cfg.CSV.RequiredColumns = []string{c.Title, c.ItemType, c.Author}
	}

	m := &cfg.Mapping
	if m.SmallWords == nil {
		m.SmallWords = append([]string(nil), DefaultSmallWords...)
	}
	if m.SplitSubtitle == nil {
		m.SplitSubtitle = boolPtr(true)
	}
	if m.DedupeTitles == nil {
		m.DedupeTitles = boolPtr(true)
	}
	setDefault(&m.UntitledPlaceholder, "Untitled")

	o := &cfg.Output
	setDefault(&o.PostType, "publications")
	setDefault(&o.PostAuthor, "anonymous")
	setDefault(&o.PostStatus, "publish")
	setDefault(&o.MetaPrefix, "wpcf-pub-")
	setDefault(&o.Indent, "  ")
	setDefault(&o.SectionStyle, SectionElement)
	setDefault(&o.ChannelTitle, "Publications")
	setDefault(&o.ChannelDescription, "Citations imported from a Zotero export")
	if o.IDBase == nil {
		base := 1
		o.IDBase = &base
	}

	setDefault(&cfg.Logging.Level, "info")
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := DelimiterRune(c.CSV.Delimiter); err != nil {
		return err
	}

	for _, col := range c.CSV.RequiredColumns {
		if strings.TrimSpace(col) == "" {
			return ErrEmptyRequiredColumn
		}
	}

	if strings.TrimSpace(c.Mapping.UntitledPlaceholder) == "" {
		return ErrEmptyTitlePlaceholder
	}

	for label, tag := range c.Mapping.TypeAliases {
		if !isPublicationTag(tag) {
			return fmt.Errorf("%w: %q -> %q", ErrUnknownAliasedType, label, tag)
		}
	}

	if strings.TrimSpace(c.Output.PostType) == "" {
		return ErrEmptyPostType
	}

	if c.Output.IDBase != nil && *c.Output.IDBase < 0 {
		return ErrInvalidIDBase
	}

	switch c.Output.SectionStyle {
	case SectionElement, SectionComment:
	default:
		return ErrInvalidSectionStyle
	}

	for _, tag := range c.Output.AuthorTags {
		if strings.TrimSpace(tag.Match) == "" || strings.TrimSpace(tag.Name) == "" {
			return ErrInvalidAuthorTag
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

// DelimiterRune converts the configured delimiter to the rune used by the
// CSV reader.
func DelimiterRune(delimiter string) (rune, error) {
	switch strings.ToLower(delimiter) {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}

	runes := []rune(delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, ErrInvalidDelimiter
	}
	return runes[0], nil
}

// SplitSubtitleEnabled reports the effective split_subtitle setting.
func (m MappingConfig) SplitSubtitleEnabled() bool {
	return m.SplitSubtitle == nil || *m.SplitSubtitle
}

// DedupeTitlesEnabled reports the effective dedupe_titles setting.
func (m MappingConfig) DedupeTitlesEnabled() bool {
	return m.DedupeTitles == nil || *m.DedupeTitles
}

// FirstID returns the effective id_base.
func (o OutputConfig) FirstID() int {
	if o.IDBase == nil {
		return 1
	}
	return *o.IDBase
}

func isPublicationTag(tag string) bool {
	switch tag {
	case "journalArticle", "bookSection", "book", "report", "conferencePaper", "thesis", "other":
		return true
	}
	return false
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func boolPtr(b bool) *bool {
	return &b
}
