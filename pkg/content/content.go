// Package content loads the site's editorial content: blog posts, podcast
// episodes, job openings and reports.
//
// Each entry is a markdown file with a YAML front matter block:
//
//	---
//	title: Scaling the community
//	date: "2026-02-14"
//	author: Dana
//	tags: [community, growth]
//	---
//	Body in **markdown**.
//
// Files live under one directory per kind (blog/, podcast/, careers/,
// reports/) in either a local directory or an S3 prefix.
package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	siteerrors "github.com/vango-dev/frontpage/internal/errors"
)

// Kind is a content collection.
type Kind string

const (
	KindPost    Kind = "post"
	KindEpisode Kind = "episode"
	KindJob     Kind = "job"
	KindReport  Kind = "report"
)

// Kinds lists every collection in display order.
func Kinds() []Kind {
	return []Kind{KindPost, KindEpisode, KindJob, KindReport}
}

// Dir returns the directory (and URL segment) a kind lives under.
func (k Kind) Dir() string {
	switch k {
	case KindPost:
		return "blog"
	case KindEpisode:
		return "podcast"
	case KindJob:
		return "careers"
	case KindReport:
		return "reports"
	default:
		return ""
	}
}

// KindForDir maps a directory name back to its kind.
func KindForDir(dir string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Dir() == dir {
			return k, true
		}
	}
	return "", false
}

// DateLayout is the front matter date format.
const DateLayout = "2006-01-02"

// Entry is a parsed content file.
type Entry struct {
	Kind     Kind
	Slug     string
	Title    string
	Summary  string
	Author   string
	Date     time.Time
	Tags     []string
	Location string        // jobs
	AudioURL string        // episodes
	Duration time.Duration // episodes
	Draft    bool
	HTML     string
}

// URL returns the entry's page path.
func (e *Entry) URL() string {
	return "/" + e.Kind.Dir() + "/" + e.Slug
}

// RawDoc is an unparsed file from a Source.
type RawDoc struct {
	Name    string // base name, e.g. "hello-world.md"
	Data    []byte
	ModTime time.Time
}

type frontMatter struct {
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug"`
	Summary  string   `yaml:"summary"`
	Author   string   `yaml:"author"`
	Date     string   `yaml:"date"`
	Tags     []string `yaml:"tags"`
	Location string   `yaml:"location"`
	Audio    string   `yaml:"audio"`
	Duration string   `yaml:"duration"`
	Draft    bool     `yaml:"draft"`
}

// yamlFormat parses "---" delimited front matter with yaml.v3.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// NewMarkdown returns the goldmark renderer used for entry bodies.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Parse turns a raw document into an Entry. The slug defaults to the file
// name without its extension; the date defaults to the file's mod time.
func Parse(md goldmark.Markdown, kind Kind, doc RawDoc) (*Entry, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(doc.Data), &fm, yamlFormat)
	if err != nil {
		return nil, siteerrors.New("E201").WithDetail(doc.Name).Wrap(err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return nil, siteerrors.New("E201").WithDetail(doc.Name + ": missing title")
	}

	e := &Entry{
		Kind:     kind,
		Slug:     fm.Slug,
		Title:    fm.Title,
		Summary:  fm.Summary,
		Author:   fm.Author,
		Date:     doc.ModTime,
		Tags:     fm.Tags,
		Location: fm.Location,
		AudioURL: fm.Audio,
		Draft:    fm.Draft,
	}
	if e.Slug == "" {
		e.Slug = strings.TrimSuffix(path.Base(doc.Name), path.Ext(doc.Name))
	}
	if fm.Date != "" {
		d, err := time.Parse(DateLayout, fm.Date)
		if err != nil {
			return nil, siteerrors.New("E201").WithDetail(fmt.Sprintf("%s: date %q", doc.Name, fm.Date)).Wrap(err)
		}
		e.Date = d
	}
	if fm.Duration != "" {
		d, err := time.ParseDuration(fm.Duration)
		if err != nil {
			return nil, siteerrors.New("E201").WithDetail(fmt.Sprintf("%s: duration %q", doc.Name, fm.Duration)).Wrap(err)
		}
		e.Duration = d
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, siteerrors.New("E202").WithDetail(doc.Name).Wrap(err)
	}
	e.HTML = buf.String()
	return e, nil
}
