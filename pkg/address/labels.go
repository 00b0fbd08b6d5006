package address

// Label is a tagger category. The vocabulary follows the usaddress label set.
type Label string

const (
	AddressNumberPrefix       Label = "AddressNumberPrefix"
	AddressNumber             Label = "AddressNumber"
	AddressNumberSuffix       Label = "AddressNumberSuffix"
	StreetNamePreModifier     Label = "StreetNamePreModifier"
	StreetNamePreDirectional  Label = "StreetNamePreDirectional"
	StreetNamePreType         Label = "StreetNamePreType"
	StreetName                Label = "StreetName"
	StreetNamePostType        Label = "StreetNamePostType"
	StreetNamePostDirectional Label = "StreetNamePostDirectional"
	StreetNamePostModifier    Label = "StreetNamePostModifier"
	OccupancyType             Label = "OccupancyType"
	OccupancyIdentifier       Label = "OccupancyIdentifier"
	PlaceName                 Label = "PlaceName"
	StateName                 Label = "StateName"
	ZipCode                   Label = "ZipCode"
	Recipient                 Label = "Recipient"
	LandmarkName              Label = "LandmarkName"
	IntersectionSeparator     Label = "IntersectionSeparator"
	USPSBoxType               Label = "USPSBoxType"
	USPSBoxID                 Label = "USPSBoxID"
	USPSBoxGroupType          Label = "USPSBoxGroupType"
	USPSBoxGroupID            Label = "USPSBoxGroupID"
	CountryName               Label = "CountryName"
)

// labelFields folds tagger labels into canonical fields. Labels missing here
// carry no address semantics and are discarded.
var labelFields = map[Label]Field{
	AddressNumberPrefix:       HouseNumber,
	AddressNumber:             HouseNumber,
	AddressNumberSuffix:       HouseNumber,
	StreetNamePreModifier:     Street,
	StreetNamePreDirectional:  Street,
	StreetNamePreType:         Street,
	StreetName:                Street,
	StreetNamePostType:        Street,
	StreetNamePostDirectional: Street,
	StreetNamePostModifier:    Street,
	OccupancyIdentifier:       Unit,
	PlaceName:                 City,
	StateName:                 State,
	ZipCode:                   PostalCode,
}

// joinOrder is the fixed assembly order for multi-label fields, independent
// of the order the tagger emitted them.
var joinOrder = map[Field][]Label{
	HouseNumber: {AddressNumberPrefix, AddressNumber, AddressNumberSuffix},
	Street: {
		StreetNamePreModifier,
		StreetNamePreDirectional,
		StreetNamePreType,
		StreetName,
		StreetNamePostType,
		StreetNamePostDirectional,
		StreetNamePostModifier,
	},
}

// Labels lists the whole vocabulary, mapped labels first.
var Labels = []Label{
	AddressNumberPrefix, AddressNumber, AddressNumberSuffix,
	StreetNamePreModifier, StreetNamePreDirectional, StreetNamePreType, StreetName,
	StreetNamePostType, StreetNamePostDirectional, StreetNamePostModifier,
	OccupancyIdentifier, PlaceName, StateName, ZipCode,
	OccupancyType, Recipient, LandmarkName, IntersectionSeparator,
	USPSBoxType, USPSBoxID, USPSBoxGroupType, USPSBoxGroupID, CountryName,
}

// FieldOf returns the canonical field a label folds into.
func FieldOf(l Label) (Field, bool) {
	f, ok := labelFields[l]
	return f, ok
}

// Fold joins tokens into fields in token order, skipping discarded labels.
// It is how an unambiguous tagging becomes Resolved.
func Fold(tokens []Token) Fields {
	out := make(Fields)
	for _, t := range tokens {
		f, ok := FieldOf(t.Label)
		if !ok || t.Text == "" {
			continue
		}
		if prev, ok := out[f]; ok {
			out[f] = prev + " " + t.Text
			continue
		}
		out[f] = t.Text
	}
	return out
}
