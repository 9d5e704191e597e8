package playlist

// Kind tells whether the order of a sequence is meaningful.
type Kind int

const (
	// KindPlaylist is an ordered sequence: order is playback order.
	KindPlaylist Kind = iota
	// KindCollection is an unordered set of items.
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindPlaylist:
		return "playlist"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Prefix for playlist-level keys carried on the first item of a sequence.
const metadataPrefix = "playlist."

// Metadata holds playlist-level information from metadata-bearing dialects.
type Metadata struct {
	Title      string
	Creator    string
	Annotation string
	Info       string
	Location   string
	Identifier string
	Image      string
	Date       string
	License    string
}

// metadataFields lists the playlist.* suffixes in a fixed order.
var metadataFields = []string{
	"title", "creator", "annotation", "info", "location",
	"identifier", "image", "date", "license",
}

func (m *Metadata) field(name string) *string {
	switch name {
	case "title":
		return &m.Title
	case "creator":
		return &m.Creator
	case "annotation":
		return &m.Annotation
	case "info":
		return &m.Info
	case "location":
		return &m.Location
	case "identifier":
		return &m.Identifier
	case "image":
		return &m.Image
	case "date":
		return &m.Date
	case "license":
		return &m.License
	}
	return nil
}

// IsZero reports whether no field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Get returns the value of a playlist-level field by its suffix name
// ("title", "creator", ...).
func (m Metadata) Get(name string) string {
	if p := m.field(name); p != nil {
		return *p
	}
	return ""
}

// Set assigns a playlist-level field by its suffix name. Unknown names are
// ignored.
func (m *Metadata) Set(name, value string) {
	if p := m.field(name); p != nil {
		*p = value
	}
}

// Merge returns m with every non-empty field of override applied.
func (m Metadata) Merge(override Metadata) Metadata {
	for _, name := range metadataFields {
		if v := override.Get(name); v != "" {
			m.Set(name, v)
		}
	}
	return m
}

// MetadataFields returns the playlist-level field names in canonical order.
func MetadataFields() []string {
	out := make([]string, len(metadataFields))
	copy(out, metadataFields)
	return out
}

// MetadataFrom reads the playlist.* keys of an item.
func MetadataFrom(item Item) Metadata {
	var m Metadata
	for _, name := range metadataFields {
		if v, ok := item.String(metadataPrefix + name); ok {
			m.Set(name, v)
		}
	}
	return m
}

// EmbedMetadata writes the non-empty fields of m into item as playlist.* keys.
func EmbedMetadata(item Item, m Metadata) {
	for _, name := range metadataFields {
		if v := m.Get(name); v != "" {
			item[metadataPrefix+name] = v
		}
	}
}

// Document pairs a materialized sequence with the playlist-level metadata
// that came with it.
type Document struct {
	Kind     Kind
	Metadata Metadata
	Items    []Item
}

// Source returns a single-pass view of the document's items.
func (d *Document) Source() Source {
	return NewSliceSource(d.Kind, d.Items)
}
