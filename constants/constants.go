package constants

// Table kinds derived from every score, one folder per kind.
const (
	KindMeasures  = "measures"
	KindNotes     = "notes"
	KindChords    = "chords"
	KindHarmonies = "harmonies"
)

// TableKinds in canonical order.
var TableKinds = []string{KindMeasures, KindNotes, KindChords, KindHarmonies}

const (
	ScoreFolder = "MS3"
	ScoreExt    = ".mscx"
)

const (
	MetadataFile         = "metadata.tsv"
	DatapackageFile      = "datapackage.json"
	ConcatenatedMetadata = "concatenated_metadata.tsv"
	ProfileFile          = "anntab.yaml"
)

// DefaultSentinel marks a null cell. The empty string is a regular
// string value, never a null.
const DefaultSentinel = "NA"

// ListSeparator splits array-typed cells into ordered items.
const ListSeparator = ", "

const TabularDataResourceProfile = "tabular-data-resource"

// TableSuffix returns the file ending of a piece table of the given kind,
// e.g. ".notes.tsv".
func TableSuffix(kind string) string {
	return "." + kind + ".tsv"
}

// DescriptorSuffix returns the file ending of the companion schema
// descriptor, e.g. ".notes.resource.json".
func DescriptorSuffix(kind string) string {
	return "." + kind + ".resource.json"
}
