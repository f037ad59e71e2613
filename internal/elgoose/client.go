// Package elgoose scrapes setlists from the elgoose.net archive. The
// site has no API, so the client parses the embedded setlist sections
// on the main /setlists/ page.
package elgoose

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/jamband/setlist-tools/internal/store"
)

const (
	DefaultBaseURL = "https://elgoose.net"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client fetches and parses elgoose.net setlist pages. One request per
// second, with retries on server errors.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client for the given base URL. An empty base URL
// means the live site.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// FetchSetlists downloads the main setlists page and parses up to limit
// shows, newest first as the site lists them. A limit of zero or less
// means everything on the page.
func (c *Client) FetchSetlists(ctx context.Context, band string, limit int) ([]store.ShowImport, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/setlists/"
	var doc *goquery.Document
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", userAgent)

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return &statusError{code: resp.StatusCode}
			}
			doc, err = goquery.NewDocumentFromReader(resp.Body)
			return err
		},
		retry.RetryIf(func(err error) bool {
			var serr *statusError
			if errors.As(err, &serr) && serr.code/100 == 5 {
				fmt.Printf("elgoose.net errored, retrying: %v\n", serr)
				return true
			}
			return false
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	return parseSetlists(doc, band, url, limit), nil
}

// parseSetlists walks the section.setlist blocks. Malformed sections are
// skipped with a warning so one bad show never sinks a scrape.
func parseSetlists(doc *goquery.Document, band, sourceURL string, limit int) []store.ShowImport {
	var shows []store.ShowImport
	doc.Find("section.setlist").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		if limit > 0 && len(shows) >= limit {
			return false
		}
		show, err := parseSection(section, band, sourceURL)
		if err != nil {
			fmt.Printf("Skipping setlist section: %v\n", err)
			return true
		}
		shows = append(shows, show)
		return true
	})
	return shows
}

// parseSection reads one show: the section id is the show date, the
// header carries the venue, and the body paragraphs carry the sets.
func parseSection(section *goquery.Selection, band, sourceURL string) (store.ShowImport, error) {
	id, ok := section.Attr("id")
	if !ok {
		return store.ShowImport{}, errors.New("section has no id")
	}
	if _, err := time.Parse("2006-01-02", id); err != nil {
		return store.ShowImport{}, fmt.Errorf("section id %q is not a show date", id)
	}

	show := store.ShowImport{
		BandName:  band,
		ShowDate:  id,
		VenueName: "Unknown Venue",
		SourceURL: sourceURL,
		Verified:  true,
	}

	header := section.Find("div.setlist-header")
	if v := strings.TrimSpace(header.Find("a.venue").First().Text()); v != "" {
		show.VenueName = v
	}
	show.VenueCity = strings.TrimSpace(header.Find(`a[href*="/venues/city/"]`).First().Text())
	show.VenueState = strings.TrimSpace(header.Find(`a[href*="/venues/state/"]`).First().Text())

	body := section.Find("div.setlist-body")
	if body.Length() == 0 {
		return store.ShowImport{}, fmt.Errorf("no setlist body for %s", id)
	}

	show.Entries = parseBody(body)
	if len(show.Entries) == 0 {
		return store.ShowImport{}, fmt.Errorf("no songs for %s", id)
	}
	return show, nil
}

// parseBody reads the per-set paragraphs: a b.setlabel names the set and
// each span.setlist-songbox is one performed song.
func parseBody(body *goquery.Selection) []store.EntryImport {
	var entries []store.EntryImport
	body.Find("p").Each(func(_ int, p *goquery.Selection) {
		label := p.Find("b.setlabel").First()
		if label.Length() == 0 {
			return
		}
		setType := strings.TrimSuffix(strings.TrimSpace(label.Text()), ":")

		position := 0
		p.Find("span.setlist-songbox").Each(func(_ int, box *goquery.Selection) {
			link := box.Find("a").First()
			if link.Length() == 0 {
				return
			}
			name := strings.TrimSpace(link.AttrOr("title", ""))
			if name == "" {
				name = strings.TrimSpace(link.Text())
			}
			if name == "" {
				return
			}

			position++
			entry := store.EntryImport{
				SongName:    name,
				SetType:     setType,
				SetPosition: position,
			}

			// A trailing -> or > marks a jam segue into the next song.
			transition := strings.TrimSpace(box.Find("span.setlist-transition").Text())
			if strings.Contains(transition, ">") {
				entry.IsJam = true
			}

			var notes []string
			box.Find("sup").Each(func(_ int, sup *goquery.Selection) {
				note := strings.TrimSpace(sup.AttrOr("title", ""))
				if note == "" {
					return
				}
				notes = append(notes, note)
				lower := strings.ToLower(note)
				if strings.Contains(lower, "tease") {
					entry.IsTease = true
				}
				if strings.Contains(lower, "unfinished") || strings.Contains(lower, "partial") {
					entry.IsPartial = true
				}
			})
			entry.PerformanceNotes = strings.Join(notes, "; ")

			entries = append(entries, entry)
		})
	})

	// A segue's target is simply the next song in the same set.
	for i := range entries {
		if entries[i].IsJam && i+1 < len(entries) && entries[i+1].SetType == entries[i].SetType {
			entries[i].TransitionsInto = entries[i+1].SongName
		}
	}
	return entries
}
