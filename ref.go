package tahti

// Describes a selectable entity in the project tree: either a region or a
// note inside a region. If Go had union or Either types, this would be one,
// but in absence of those, this uses a kind tag to define which fields mean
// something. Refs stay valid across command execution and undo, as they hold
// ids instead of pointers.
type Ref struct {
	Kind     EntityKind
	RegionID string
	NoteID   string
}

type EntityKind string

const (
	KindNote   EntityKind = "note"
	KindRegion EntityKind = "region"
)

func NoteRef(regionID, noteID string) Ref {
	return Ref{Kind: KindNote, RegionID: regionID, NoteID: noteID}
}

func RegionRef(regionID string) Ref {
	return Ref{Kind: KindRegion, RegionID: regionID}
}
