package extract

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperjump/shirushi/internal/models"
)

// ParseNetscape parses a Netscape bookmark file, the HTML format browsers export.
//
// Every DT > A with an http(s) HREF becomes one bookmark: the anchor text is the
// title, the TAGS attribute (comma separated) and the names of enclosing H3 folders
// are tags, ADD_DATE (unix seconds) is the creation time and the DD right after the
// entry is the description. The browser toolbar folder is not used as a tag.
func ParseNetscape(r io.Reader) ([]*models.BookmarkInput, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmark html: %w", err)
	}

	bookmarks := make([]*models.BookmarkInput, 0)
	doc.Find("dt > a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || !isWebURL(href) {
			return
		}
		entry := a.Parent()

		in := &models.BookmarkInput{
			URL:   href,
			Title: cleanText(a.Text()),
		}
		if in.Title == "" {
			in.Title = href
		}
		if dd := entry.Next(); dd.Is("dd") {
			in.Description = cleanText(ownText(dd))
		}
		in.Tags = append(folderNames(entry), splitTags(a.AttrOr("tags", ""))...)
		if added, ok := parseUnix(a.AttrOr("add_date", "")); ok {
			in.CreatedAt = added
		}
		bookmarks = append(bookmarks, in)
	})
	return bookmarks, nil
}

// folderNames returns the H3 names of the folders enclosing entry, outermost first.
// A folder's list sits inside its DT, or inside the DD holding the folder description.
func folderNames(entry *goquery.Selection) []string {
	var names []string
	entry.Parents().Each(func(_ int, p *goquery.Selection) {
		var folder *goquery.Selection
		switch {
		case p.Is("dt"):
			folder = p
		case p.Is("dd") && p.Prev().Is("dt"):
			folder = p.Prev()
		default:
			return
		}
		h3 := folder.ChildrenFiltered("h3").First()
		if h3.Length() == 0 {
			return
		}
		if _, toolbar := h3.Attr("personal_toolbar_folder"); toolbar {
			return
		}
		if name := cleanText(h3.Text()); name != "" {
			names = append(names, name)
		}
	})
	// Parents walks outward; reverse to outermost first.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// ownText returns the text of s without the text of nested lists, which the HTML
// parser may place inside an unterminated DD.
func ownText(s *goquery.Selection) string {
	c := s.Clone()
	c.Find("dl, dt").Remove()
	return c.Text()
}

func splitTags(attr string) []string {
	var tags []string
	for _, t := range strings.Split(attr, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func parseUnix(s string) (time.Time, bool) {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
