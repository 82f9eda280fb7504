// Package catalog holds the static hierarchy description for compendium
// documents: which primary collections own which embedded collections,
// and of what arity. The catalog is a compile-time constant; nothing in
// this package touches document payloads.
package catalog

// Arity describes how many embedded documents a slot can hold.
type Arity int

const (
	// Array means the slot holds zero or more embedded documents.
	Array Arity = iota
	// Single means the slot holds at most one embedded document.
	Single
)

// Embedded names one embedded-collection slot owned by a primary collection.
type Embedded struct {
	Name  string
	Arity Arity
}

// hierarchy is the fixed mapping from collection name to its embedded
// collections, per the data model's collection-shape table.
var hierarchy = map[string][]Embedded{
	"actors": {
		{Name: "items", Arity: Array},
		{Name: "effects", Arity: Array},
	},
	"cards": {
		{Name: "cards", Arity: Array},
	},
	"combats": {
		{Name: "combatants", Arity: Array},
		{Name: "groups", Arity: Array},
	},
	"delta": {
		{Name: "items", Arity: Array},
		{Name: "effects", Arity: Array},
	},
	"items": {
		{Name: "effects", Arity: Array},
	},
	"journal": {
		{Name: "pages", Arity: Array},
		{Name: "categories", Arity: Array},
	},
	"playlists": {
		{Name: "sounds", Arity: Array},
	},
	"regions": {
		{Name: "behaviors", Arity: Array},
	},
	"tables": {
		{Name: "results", Arity: Array},
	},
	"tokens": {
		{Name: "delta", Arity: Single},
	},
	"scenes": {
		{Name: "drawings", Arity: Array},
		{Name: "tokens", Arity: Array},
		{Name: "lights", Arity: Array},
		{Name: "notes", Arity: Array},
		{Name: "regions", Arity: Array},
		{Name: "sounds", Arity: Array},
		{Name: "templates", Arity: Array},
		{Name: "tiles", Arity: Array},
		{Name: "walls", Arity: Array},
	},
}

// Embeddeds returns the embedded-collection slots for a collection, or
// nil if the collection has none.
func Embeddeds(collection string) []Embedded {
	return hierarchy[collection]
}

// HasEmbeddeds reports whether a collection carries any embedded slots.
func HasEmbeddeds(collection string) bool {
	return len(hierarchy[collection]) > 0
}

// primaryCollection is the fixed bijection between primary document type
// and the collection name it is stored under.
var primaryCollection = map[string]string{
	"Actor":        "actors",
	"Adventure":    "adventures",
	"Cards":        "cards",
	"ChatMessage":  "messages",
	"Combat":       "combats",
	"FogExploration": "fog",
	"Folder":       "folders",
	"Item":         "items",
	"JournalEntry": "journal",
	"Macro":        "macros",
	"Playlist":     "playlists",
	"RollTable":    "tables",
	"Scene":        "scenes",
	"Setting":      "settings",
	"User":         "users",
}

var collectionToType map[string]string

func init() {
	collectionToType = make(map[string]string, len(primaryCollection))
	for docType, collection := range primaryCollection {
		collectionToType[collection] = docType
	}
}

// CollectionForType resolves a primary document type to its collection name.
func CollectionForType(docType string) (string, bool) {
	c, ok := primaryCollection[docType]
	return c, ok
}

// TypeForCollection resolves a collection name back to its document type.
func TypeForCollection(collection string) (string, bool) {
	t, ok := collectionToType[collection]
	return t, ok
}

// AdventureEmbedded is the fixed list of collections an Adventure document
// may carry inline (or, in expanded source form, as file-path arrays).
var AdventureEmbedded = []string{
	"actors", "cards", "combats", "folders", "items", "journal",
	"playlists", "scenes", "tables", "macros",
}

// IsAdventureEmbedded reports whether a collection name is one of the
// fixed adventure-embedded collections.
func IsAdventureEmbedded(collection string) bool {
	for _, c := range AdventureEmbedded {
		if c == collection {
			return true
		}
	}
	return false
}

// VolatileStatsFields lists the _stats sub-fields excluded from change
// detection when an extract runs with omitVolatile.
var VolatileStatsFields = []string{
	"createdTime", "modifiedTime", "lastModifiedBy", "systemVersion", "coreVersion",
}
