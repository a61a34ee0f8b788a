package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/countyroots/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// ErrNoContent is returned when a name list page has no article body
var ErrNoContent = errors.New("no article content found")

// NameSource is a per-language page of place names
type NameSource struct {
	Language string
	Article  string
	Table    bool // names live in the first column of a wikitable instead of a list
}

// NameSources are the place-name pages scraped per language
var NameSources = []NameSource{
	{Language: "French", Article: "List_of_place_names_of_French_origin_in_the_United_States"},
	{Language: "Spanish", Article: "List_of_place_names_of_Spanish_origin_in_the_United_States"},
	{Language: "Scottish", Article: "List_of_place_names_of_Scottish_origin_in_the_United_States"},
	{Language: "English", Article: "Locations_in_the_United_States_with_an_English_name"},
	{Language: "Irish", Article: "List_of_Irish_place_names_in_other_countries#United_States"},
	{Language: "Native American", Article: "List_of_place_names_of_Native_American_origin_in_the_United_States"},
	{Language: "German", Article: "List_of_place_names_of_German_origin_in_the_United_States", Table: true},
}

// uniq drops empty and repeated names, keeping first occurrences in order
func uniq(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// beforeComma returns the text up to the first comma, trimmed
func beforeComma(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseLinkedList collects the leading link text of every list item in the
// article body's top-level lists
func ParseLinkedList(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	content := findFirst(doc, func(n *html.Node) bool {
		return hasClass(n, "mw-parser-output")
	})
	if content == nil {
		return nil, ErrNoContent
	}

	var names []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			if first := elementChildren(n); len(first) > 0 && first[0].Data == "a" {
				names = append(names, beforeComma(NodeText(first[0])))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, list := range elementChildren(content, "ul") {
		walk(list)
	}
	return uniq(names), nil
}

// ParseTableColumn collects the text of one column of the first wikitable,
// skipping the header row
func ParseTableColumn(r io.Reader, col int) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	table, err := FirstTable(doc)
	if err != nil {
		return nil, err
	}
	rows := TableRows(table)
	if len(rows) > 0 {
		rows = rows[1:]
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, strings.TrimSpace(cellAt(RowCells(row), col)))
	}
	return uniq(names), nil
}

// NameListScraper fetches per-language place name lists
type NameListScraper struct {
	client *WikiClient
	logger *log.Logger
}

// NewNameListScraper creates a new scraper
func NewNameListScraper(client *WikiClient, logger *log.Logger) *NameListScraper {
	return &NameListScraper{client: client, logger: logger}
}

// Fetch fetches and parses one source
func (s *NameListScraper) Fetch(ctx context.Context, src NameSource) (models.NameList, error) {
	body, err := s.client.FetchArticle(ctx, src.Article)
	if err != nil {
		return models.NameList{}, fmt.Errorf("%s: %w", src.Language, err)
	}
	var names []string
	if src.Table {
		names, err = ParseTableColumn(bytes.NewReader(body), 0)
	} else {
		names, err = ParseLinkedList(bytes.NewReader(body))
	}
	if err != nil {
		return models.NameList{}, fmt.Errorf("%s: %w", src.Language, err)
	}
	return models.NameList{Language: src.Language, Names: names}, nil
}

// FetchAll fetches every source concurrently. Failed sources are logged and
// left out; the rest keep source order.
func (s *NameListScraper) FetchAll(ctx context.Context, sources []NameSource) []models.NameList {
	lists := make([]models.NameList, len(sources))
	ok := make([]bool, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			list, err := s.Fetch(ctx, src)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("Name list failed", "language", src.Language, "error", err)
				}
				return nil
			}
			if s.logger != nil {
				s.logger.Info("Name list parsed", "language", src.Language, "names", len(list.Names))
			}
			lists[i] = list
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.NameList, 0, len(lists))
	for i, list := range lists {
		if ok[i] {
			out = append(out, list)
		}
	}
	return out
}
