package models

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps the row offset well inside int range.
	MaxPage = 1_000_000
)

type Game struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Tags        []string   `json:"tags"`
	Publisher   string     `json:"publisher"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// GamePatch lists the fields an update may change; nil means "keep".
type GamePatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	ReleaseDate *time.Time
	Tags        *[]string
	Publisher   *string
	Active      *bool
}

func (p GamePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.ImageURL == nil && p.ReleaseDate == nil &&
		p.Tags == nil && p.Publisher == nil && p.Active == nil
}

func (p GamePatch) Apply(g *Game) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.ImageURL != nil {
		g.ImageURL = *p.ImageURL
	}
	if p.ReleaseDate != nil {
		g.ReleaseDate = p.ReleaseDate
	}
	if p.Tags != nil {
		g.Tags = *p.Tags
	}
	if p.Publisher != nil {
		g.Publisher = *p.Publisher
	}
	if p.Active != nil {
		g.Active = *p.Active
	}
}

// GameFilter selects a page of games. A game matches when it carries every
// tag in Tags and, if Query is set, its name or description contains Query
// case-insensitively.
type GameFilter struct {
	Tags  []string
	Query string
	Page  int
	Limit int
}

// NewGameFilter builds a filter from raw query values. Missing or invalid
// page/limit fall back to the defaults; page is capped at MaxPage and limit
// at MaxLimit.
func NewGameFilter(page, limit, tag, q string) GameFilter {
	f := GameFilter{
		Tags:  ParseTags(tag),
		Query: strings.TrimSpace(q),
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		f.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		f.Limit = min(n, MaxLimit)
	}
	return f
}

func (f GameFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CacheKey is stable for equal filters regardless of tag order or query case.
func (f GameFilter) CacheKey() string {
	tags := slices.Clone(f.Tags)
	slices.Sort(tags)
	v := url.Values{
		"p": {strconv.Itoa(f.Page)},
		"l": {strconv.Itoa(f.Limit)},
		"q": {strings.ToLower(f.Query)},
	}
	if len(tags) > 0 {
		v["t"] = tags
	}
	return v.Encode()
}

// ParseTags splits a comma-separated list, trimming blanks and dropping
// empty entries. The result is never nil.
func ParseTags(s string) []string {
	return CleanTags(strings.Split(s, ","))
}

// CleanTags trims each tag and drops empty ones. The result is never nil.
func CleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
