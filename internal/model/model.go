package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// GridCells is the fixed size of a month grid: six Sunday-aligned weeks.
const GridCells = 42

// DateEncoding tags which date representation an EventRecord carries.
type DateEncoding int

const (
	EncodingNone DateEncoding = iota
	// EncodingISO: only "start" (and optionally "end") is set.
	EncodingISO
	// EncodingComponents: only startMonth/startDay/startYear are set.
	EncodingComponents
	// EncodingMixed: both encodings are present; "start" wins when valid.
	EncodingMixed
)

func (e DateEncoding) String() string {
	switch e {
	case EncodingISO:
		return "iso"
	case EncodingComponents:
		return "components"
	case EncodingMixed:
		return "mixed"
	default:
		return "none"
	}
}

// EventRecord is a single entry of the externally supplied events.json
// document. Records are read-only once decoded.
type EventRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	// ISO encoding.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	// Component encoding. Nil means absent.
	StartMonth string `json:"startMonth,omitempty"`
	StartDay   *int   `json:"startDay,omitempty"`
	StartYear  *int   `json:"startYear,omitempty"`
}

// Encoding reports which date encodings are present on the record.
// Presence only; validity is decided by the resolver.
func (r EventRecord) Encoding() DateEncoding {
	iso := strings.TrimSpace(r.Start) != ""
	comp := strings.TrimSpace(r.StartMonth) != "" || r.StartDay != nil || r.StartYear != nil
	switch {
	case iso && comp:
		return EncodingMixed
	case iso:
		return EncodingISO
	case comp:
		return EncodingComponents
	default:
		return EncodingNone
	}
}

// UnmarshalJSON decodes a record field by field. A field with an
// unexpected JSON type is treated as absent so one bad value never fails
// the whole document.
func (r *EventRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = EventRecord{
		ID:          rawString(raw["id"]),
		Title:       rawString(raw["title"]),
		Description: rawString(raw["description"]),
		Location:    rawString(raw["location"]),
		Start:       rawString(raw["start"]),
		End:         rawString(raw["end"]),
		StartMonth:  rawString(raw["startMonth"]),
		StartDay:    rawInt(raw["startDay"]),
		StartYear:   rawInt(raw["startYear"]),
	}
	return nil
}

// rawString accepts JSON strings and numbers (ids are sometimes numeric).
func rawString(m json.RawMessage) string {
	if len(m) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(m, &n); err == nil {
		return n.String()
	}
	return ""
}

// rawInt accepts integral JSON numbers and numeric strings.
func rawInt(m json.RawMessage) *int {
	if len(m) == 0 || string(m) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(m, &f); err == nil {
		if f != float64(int(f)) {
			return nil
		}
		n := int(f)
		return &n
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// EventsDocument is the events.json envelope.
type EventsDocument struct {
	Events      []EventRecord `json:"events"`
	TotalItems  int           `json:"totalItems,omitempty"`
	GeneratedAt string        `json:"generatedAt,omitempty"`
}

// ResolutionRule records which resolver rule produced a start instant.
type ResolutionRule string

const (
	ResolvedFromISO        ResolutionRule = "iso"
	ResolvedFromComponents ResolutionRule = "components"
)

// ResolvedEvent is an EventRecord with a valid, resolved start instant.
type ResolvedEvent struct {
	Record EventRecord
	Start  time.Time
	// End is set only when the record's "end" parses.
	End  *time.Time
	Rule ResolutionRule
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthCell is one day of a month grid.
type MonthCell struct {
	Date    time.Time
	Events  []ResolvedEvent
	InMonth bool
}

// Visible returns at most limit events of the cell.
func (c MonthCell) Visible(limit int) []ResolvedEvent {
	if limit < 0 || len(c.Events) <= limit {
		return c.Events
	}
	return c.Events[:limit]
}

// MoreCount is the number of events hidden by Visible(limit).
func (c MonthCell) MoreCount(limit int) int {
	if limit < 0 || len(c.Events) <= limit {
		return 0
	}
	return len(c.Events) - limit
}

// MonthGrid is a 6x7 Sunday-aligned calendar page.
type MonthGrid struct {
	Target YearMonth
	Cells  [GridCells]MonthCell
}

// Partition splits resolved events around a reference instant.
type Partition struct {
	Upcoming []ResolvedEvent
	Past     []ResolvedEvent
	// Unresolvable counts records dropped before filtering.
	Unresolvable int
	// Filtered counts resolvable records removed by the search query.
	Filtered int
}

// Asset is a media reference inside an album item.
type Asset struct {
	URL string `json:"url"`
}

// AlbumItem is one gallery entry; it may carry several media URLs.
type AlbumItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Album     string   `json:"album"`
	MediaURLs []string `json:"mediaUrls,omitempty"`
	Photos    []string `json:"photos,omitempty"`
	Assets    []Asset  `json:"assets,omitempty"`
}

// Album groups gallery items under a category name.
type Album struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Items []AlbumItem `json:"items"`
}

// AlbumsDocument is the albums.json envelope.
type AlbumsDocument struct {
	Albums     []Album `json:"albums"`
	TotalItems int     `json:"totalItems,omitempty"`
	AlbumCount int     `json:"albumCount,omitempty"`
}

// Photo is a single displayable image of an album.
type Photo struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}
