package syntax

// Kind tags a Node with the combinator it stands for.
type Kind int

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

const (
	KindLeaf Kind = iota
	KindConcat
	KindCompose
	KindAppend
	KindCycle
	KindSwitch
)
