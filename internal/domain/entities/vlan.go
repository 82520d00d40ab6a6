package entities

// Vlan is a VLAN definition taken from the source property list
type Vlan struct {
	ID    string // numeric literal, e.g. "10"
	Name  string
	Index string // source-side ordinal, distinct from ID
}
