package syntax

import "strconv"

// Kind classifies a token in a directive event stream.
type Kind uint8

// Token kinds. Directive kinds wrap everything else; the rest are shared by
// all three directive forms.
const (
	KindInvalid Kind = iota

	KindDirectiveText      // ':name[label]{attrs}'
	KindDirectiveLeaf      // '::name[label]{attrs}'
	KindDirectiveContainer // ':::name ... :::'

	KindDirectiveMarker   // ':' opening a text directive
	KindDirectiveSequence // '::' or a fence's run of ':'
	KindDirectiveFence    // opening or closing fence line of a container
	KindDirectiveName     // identifier after the marker
	KindDirectiveContent  // every content line of a container

	KindLabel       // '[' ... ']'
	KindLabelMarker // '[' or ']'
	KindLabelString // inner label text, possibly empty

	KindAttributes                 // '{' ... '}'
	KindAttributesMarker           // '{' or '}'
	KindAttribute                  // one shortcut or named attribute
	KindAttributeID                // '#value'
	KindAttributeIDMarker          // '#'
	KindAttributeIDValue           // value after '#'
	KindAttributeClass             // '.value'
	KindAttributeClassMarker       // '.'
	KindAttributeClassValue        // value after '.'
	KindAttributeName              // attribute key
	KindAttributeInitializerMarker // '='
	KindAttributeValueLiteral      // quoted value including quotes
	KindAttributeValueMarker       // '"' or '\''
	KindAttributeValue             // value without quotes
	KindAttributeValueData         // one line of value text

	KindWhitespace    // run of spaces or tabs
	KindLineEnding    // '\n', '\r', or '\r\n'
	KindLinePrefix    // stripped indentation of a container line
	KindChunkDocument // one raw content line of a container

	kindCount
)

//nolint:gochecknoglobals // read-only name table
var kindNames = [kindCount]string{
	KindInvalid:                    "Invalid",
	KindDirectiveText:              "DirectiveText",
	KindDirectiveLeaf:              "DirectiveLeaf",
	KindDirectiveContainer:         "DirectiveContainer",
	KindDirectiveMarker:            "DirectiveMarker",
	KindDirectiveSequence:          "DirectiveSequence",
	KindDirectiveFence:             "DirectiveFence",
	KindDirectiveName:              "DirectiveName",
	KindDirectiveContent:           "DirectiveContent",
	KindLabel:                      "Label",
	KindLabelMarker:                "LabelMarker",
	KindLabelString:                "LabelString",
	KindAttributes:                 "Attributes",
	KindAttributesMarker:           "AttributesMarker",
	KindAttribute:                  "Attribute",
	KindAttributeID:                "AttributeID",
	KindAttributeIDMarker:          "AttributeIDMarker",
	KindAttributeIDValue:           "AttributeIDValue",
	KindAttributeClass:             "AttributeClass",
	KindAttributeClassMarker:       "AttributeClassMarker",
	KindAttributeClassValue:        "AttributeClassValue",
	KindAttributeName:              "AttributeName",
	KindAttributeInitializerMarker: "AttributeInitializerMarker",
	KindAttributeValueLiteral:      "AttributeValueLiteral",
	KindAttributeValueMarker:       "AttributeValueMarker",
	KindAttributeValue:             "AttributeValue",
	KindAttributeValueData:         "AttributeValueData",
	KindWhitespace:                 "Whitespace",
	KindLineEnding:                 "LineEnding",
	KindLinePrefix:                 "LinePrefix",
	KindChunkDocument:              "ChunkDocument",
}

// String returns the stable name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsDirective reports whether k wraps a whole directive.
func (k Kind) IsDirective() bool {
	return k == KindDirectiveText || k == KindDirectiveLeaf || k == KindDirectiveContainer
}

// Token is a typed span of the source.
type Token struct {
	// Kind classifies the span.
	Kind Kind

	// StartOffset is the byte index where the span begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the span ends (exclusive).
	EndOffset int
}

// Text returns the source bytes covered by the token.
func (t Token) Text(source []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(source) || t.StartOffset > t.EndOffset {
		return nil
	}
	return source[t.StartOffset:t.EndOffset]
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty returns true if the token covers no bytes.
func (t Token) IsEmpty() bool {
	return t.StartOffset == t.EndOffset
}

// EventType tells whether an event opens or closes its token.
type EventType uint8

const (
	// Enter opens a token.
	Enter EventType = iota
	// Exit closes the token most recently opened.
	Exit
)

func (t EventType) String() string {
	if t == Exit {
		return "exit"
	}
	return "enter"
}

// Event is one half of an enter/exit pair. Both halves carry the final span.
type Event struct {
	Type  EventType
	Token Token
}

// ValidateEvents checks that events form a well-nested sequence:
// every exit matches the innermost open token with the same span, spans
// never run backwards, and nothing is left open.
func ValidateEvents(events []Event) bool {
	open := make([]Token, 0, len(events)/2)
	for _, ev := range events {
		tok := ev.Token
		if tok.StartOffset > tok.EndOffset {
			return false
		}
		switch ev.Type {
		case Enter:
			if len(open) > 0 {
				parent := open[len(open)-1]
				if tok.StartOffset < parent.StartOffset || tok.EndOffset > parent.EndOffset {
					return false
				}
			}
			open = append(open, tok)
		case Exit:
			if len(open) == 0 || open[len(open)-1] != tok {
				return false
			}
			open = open[:len(open)-1]
		}
	}
	return len(open) == 0
}
