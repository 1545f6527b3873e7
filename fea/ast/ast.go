// seehuhn.de/go/otfea - a compiler for the OpenType Feature File language
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package ast defines the parse-tree contract that the compile package
// consumes: a typed syntax tree for the OpenType Feature File language,
// with one node type per statement and expression kind. Producing this
// tree from source text — lexing, parsing, and syntactic validation — is
// the job of a separate front end; this package only fixes the shape
// that front end hands off.
package ast

// File identifies a single source file the tree's positions point into.
// The compile package borrows it read-only, for rendering diagnostics.
type File struct {
	Name string
	Text string
}

// Pos is a byte range into a File.
type Pos struct {
	File  *File
	Start int
	End   int
}

// Node is implemented by every tree element that carries a source
// position.
type Node interface {
	Position() Pos
}

// Statement is implemented by every top-level or block-level tree
// element the compile package's orchestrator dispatches on.
type Statement interface {
	Node
	statementNode()
}

// base embeds into every concrete Node to provide Position().
type base struct {
	Pos Pos
}

// Position implements the [Node] interface.
func (b base) Position() Pos { return b.Pos }

// GlyphSet is implemented by every expression that denotes a glyph, a
// glyph class, or the null glyph: [GlyphName], [GlyphCID], [GlyphNull],
// [GlyphRange], [GlyphClassLiteral], and [GlyphClassRef].
type GlyphSet interface {
	Node
	glyphSetNode()
}

// GlyphName is a glyph referenced by its source-level name.
type GlyphName struct {
	base
	Name string
}

func (*GlyphName) glyphSetNode() {}

// GlyphCID is a glyph referenced by CID (numeric PostScript identifier).
type GlyphCID struct {
	base
	CID int
}

func (*GlyphCID) glyphSetNode() {}

// GlyphNull is the reserved `NULL` glyph identifier.
type GlyphNull struct {
	base
}

func (*GlyphNull) glyphSetNode() {}

// GlyphRange is an inclusive range, either of CIDs or of suffix-
// incrementing glyph names. From and To must both be [GlyphName] or
// both be [GlyphCID].
type GlyphRange struct {
	base
	From GlyphSet
	To   GlyphSet
}

func (*GlyphRange) glyphSetNode() {}

// GlyphClassLiteral is an inline glyph class, `[a b c-d]`. Source order
// is preserved; sort-and-dedup, where required, is a consumer concern.
type GlyphClassLiteral struct {
	base
	Members []GlyphSet
}

func (*GlyphClassLiteral) glyphSetNode() {}

// GlyphClassRef is a reference to a named glyph class, `@NAME`.
type GlyphClassRef struct {
	base
	Name string
}

func (*GlyphClassRef) glyphSetNode() {}

// DeviceEntry is one (ppem, delta) pair of a device table literal.
type DeviceEntry struct {
	PPEM  int
	Delta int
}

// Anchor is an anchor literal: the null anchor (Format == 0), a plain
// (x, y) pair (Format == 1), an (x, y, contour point) triple used inside
// glyf-hinted fonts (Format == 2), or an (x, y) pair with device table
// adjustments (Format == 3).
type Anchor struct {
	base
	Format       int
	X, Y         int
	ContourPoint int
	XDevice      []DeviceEntry
	YDevice      []DeviceEntry
}

// ValueRecord is a positioning value record literal. A nil field means
// the source did not specify that axis. Null is true for the explicit
// `<NULL>` value record, used to cancel a value inherited from context.
type ValueRecord struct {
	base
	Null                               bool
	XPlacement, YPlacement             *int
	XAdvance, YAdvance                 *int
	XPlaDevice, YPlaDevice             []DeviceEntry
	XAdvDevice, YAdvDevice             []DeviceEntry
}

// LanguageSystem declares one (script, language) pair as a default
// language system, `languagesystem latn dflt;`.
type LanguageSystem struct {
	base
	Script   string
	Language string
}

func (*LanguageSystem) statementNode() {}

// GlyphClassDef gives a name to a glyph class, `@NAME = [a b c];`.
type GlyphClassDef struct {
	base
	Name    string
	Members GlyphSet
}

func (*GlyphClassDef) statementNode() {}

// MarkClassDef appends one (glyph class, anchor) pair to a named mark
// class, `markClass [acute grave] <anchor 0 500> @TOP_MARKS;`.
type MarkClassDef struct {
	base
	Glyphs    GlyphSet
	Anchor    Anchor
	ClassName string
}

func (*MarkClassDef) statementNode() {}

// AnchorDef gives a name to an anchor literal, `anchorDef 120 ...`.
type AnchorDef struct {
	base
	Name   string
	Anchor Anchor
}

func (*AnchorDef) statementNode() {}

// LookupRef appends a previously defined named lookup to the feature
// currently being assembled, `lookup KERN1;`.
type LookupRef struct {
	base
	Name string
}

func (*LookupRef) statementNode() {}

// FlagStatement sets the lookup flags that apply to rules added after
// it, until the next FlagStatement or the end of the enclosing lookup.
type FlagStatement struct {
	base
	RightToLeft         bool
	IgnoreBaseGlyphs     bool
	IgnoreLigatures      bool
	IgnoreMarks          bool
	MarkAttachmentClass GlyphSet // optional; nil if not set
	UseMarkFilteringSet GlyphSet // optional; nil if not set
}

func (*FlagStatement) statementNode() {}

// SubtableBreak is an explicit `subtable;` statement.
type SubtableBreak struct {
	base
}

func (*SubtableBreak) statementNode() {}

// ScriptStatement switches the active script inside a feature block.
type ScriptStatement struct {
	base
	Script string
}

func (*ScriptStatement) statementNode() {}

// LanguageStatement switches the active language inside a feature
// block.
type LanguageStatement struct {
	base
	Language    string
	ExcludeDflt bool
	Required    bool
}

func (*LanguageStatement) statementNode() {}

// InputPosition is one matched position of a contextual rule: the
// glyph-or-class to match, plus zero or more inline lookup references
// (either references to a named lookup, or an inline replacement that
// the compile package must turn into an anonymous sublookup).
type InputPosition struct {
	Glyphs      GlyphSet
	Lookups     []string // named lookups referenced at this position
	InlineRules []Statement
}

// SubstGsub is a GSUB substitution rule, covering single, multiple,
// alternate, ligature, reverse-chaining, and contextual (via Input)
// substitutions. Which subtable shape it compiles to is determined by
// the compile package from the combination of fields that are set.
type SubstGsub struct {
	base

	Backtrack []GlyphSet
	Input     []InputPosition
	Lookahead []GlyphSet

	// Replacement is set for a direct (non-contextual) substitution. A
	// nil slice with IsNull set substitutes with NULL (glyph deletion).
	Replacement []GlyphSet
	IsNull      bool

	// FromAlternates is set for `sub x from [a b c];` alternate rules;
	// Replacement then holds the alternate set for the single input
	// glyph.
	FromAlternates bool

	// Reverse is set for `rsub ... by ...;` reverse chaining rules.
	Reverse bool
}

func (*SubstGsub) statementNode() {}

// PosGpos is a GPOS positioning rule: single, pair, cursive, mark
// attachment (base/ligature/mark), or contextual (via Input).
type PosGpos struct {
	base

	Backtrack []GlyphSet
	Input     []InputPosition
	Lookahead []GlyphSet

	// Values runs parallel to Input for single/pair positioning rules.
	Values []*ValueRecord

	// Cursive attachment.
	IsCursive          bool
	EntryAnchor        *Anchor
	ExitAnchor         *Anchor

	// Mark attachment (base, ligature, or mark-to-mark, selected by
	// which of these is set).
	IsMarkToBase     bool
	IsMarkToLigature bool
	IsMarkToMark     bool
	BaseGlyphs       GlyphSet
	// BaseAnchors/MarkClasses run parallel to each other, one pair per
	// referenced mark class attached at BaseGlyphs. Mark-to-ligature
	// rules do not use BaseAnchors: ComponentAnchors holds one entry per
	// ligature component, each holding that component's per-mark-class
	// anchors.
	MarkClasses      []string
	BaseAnchors      []Anchor
	ComponentAnchors [][]Anchor // indexed by component, then MarkClasses index
}

func (*PosGpos) statementNode() {}

// FeatureBlock is `feature tag { ... } tag;`.
type FeatureBlock struct {
	base
	Tag   string
	Body  []Statement
}

func (*FeatureBlock) statementNode() {}

// LookupBlock is a named lookup block, either standalone or nested
// inside a feature block: `lookup NAME { ... } NAME;`.
type LookupBlock struct {
	base
	Name string
	Body []Statement
}

func (*LookupBlock) statementNode() {}

// TableEntry is one key-value (or keyword-led) line inside a TableBlock,
// e.g. `TypoAscender 1000;` or `NameRecord 1 "Regular";`.
type TableEntry struct {
	base
	Keyword string
	Fields  []any
}

// TableBlock is `table TAG { ... } TAG;`.
type TableBlock struct {
	base
	Tag     string
	Entries []TableEntry
}

func (*TableBlock) statementNode() {}

// FeatureRef is a `feature TAG;` statement nested inside another
// feature block. The only construct that accepts it is `aalt`, where it
// names a feature whose single/alternate substitutions should be
// folded into the "access all alternates" set; anywhere else it is a
// structural error.
type FeatureRef struct {
	base
	Tag string
}

func (*FeatureRef) statementNode() {}

// AnonymousBlock carries raw, unparsed text for a foreign block the
// grammar does not otherwise model (`anon TAG { ... } TAG;`). The
// compile package does not interpret it; a sufficiently complete
// downstream serializer might.
type AnonymousBlock struct {
	base
	Tag  string
	Text string
}

func (*AnonymousBlock) statementNode() {}

// SizeParameters is a `parameters` statement inside the `size` feature:
// the subfamily's design size and, optionally, the subfamily identifier
// and the design size range it covers.
//
//	parameters 10.0 0;
//	parameters 10.0 1 9.0 11.0;
type SizeParameters struct {
	base
	DesignSize      float64
	SubfamilyID     int
	HasRange        bool
	RangeStart      float64
	RangeEnd        float64
}

func (*SizeParameters) statementNode() {}

// SizeMenuName is a `sizemenuname` statement inside the `size` feature,
// naming the size submenu entry a system font picker shows for this
// subfamily.
type SizeMenuName struct {
	base
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	HasPlat    bool // false for the platform-less `sizemenuname "x";` form
	Value      string
}

func (*SizeMenuName) statementNode() {}

// FeatureNameStatement is one `name` entry inside a stylistic set's
// `featureNames { ... };` block, naming the feature for a UI menu.
type FeatureNameStatement struct {
	base
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	HasPlat    bool
	Value      string
}

func (*FeatureNameStatement) statementNode() {}

// FeatureNameBlock is a stylistic set's `featureNames { ... } ;` block.
type FeatureNameBlock struct {
	base
	Names []FeatureNameStatement
}

func (*FeatureNameBlock) statementNode() {}

// CVParameterBlock is a character-variant feature's `cvParameters { ...
// } ;` block: UI labels, tooltip, sample text, parameter labels, and the
// Unicode code points the variant applies to.
type CVParameterBlock struct {
	base
	FeatUILabelNames   []FeatureNameStatement
	FeatUITooltipNames []FeatureNameStatement
	SampleTextNames    []FeatureNameStatement
	ParamLabelNames    []FeatureNameStatement
	Characters         []rune
}

func (*CVParameterBlock) statementNode() {}
