package ofx

import (
	"strings"
)

// Node is one element of the parsed statement tree. A node is either a
// leaf carrying a scalar value or a container holding named children.
// OFX v1 leaf tags conventionally have no closing tag: an opening tag
// followed by non-empty text up to the next marker becomes a leaf.
//
// Lookups are fallible rather than panicking; a missing path returns
// ok=false so callers can fall back to the flat extractor.
type Node struct {
	value    string
	leaf     bool
	keys     []string // child tag names in document order
	children map[string][]*Node
}

func newContainer() *Node {
	return &Node{children: make(map[string][]*Node)}
}

// IsLeaf reports whether the node carries a scalar value.
func (n *Node) IsLeaf() bool { return n.leaf }

// Value returns the scalar value of a leaf node, or "" for containers.
func (n *Node) Value() string { return n.value }

func (n *Node) add(name string, child *Node) {
	if _, seen := n.children[name]; !seen {
		n.keys = append(n.keys, name)
	}
	n.children[name] = append(n.children[name], child)
}

// Get returns the first child with the given tag name.
func (n *Node) Get(name string) (*Node, bool) {
	if n == nil || n.leaf {
		return nil, false
	}
	nodes, ok := n.children[name]
	if !ok || len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// All returns every child with the given tag name, in document order.
func (n *Node) All(name string) []*Node {
	if n == nil || n.leaf {
		return nil
	}
	return n.children[name]
}

// Path descends through the named children and returns the final node.
// The lookup fails softly: any missing or leaf intermediate yields
// ok=false.
func (n *Node) Path(names ...string) (*Node, bool) {
	current := n
	for _, name := range names {
		next, ok := current.Get(name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// FlattenValue returns the node's scalar value; for containers it
// concatenates all leaf descendants in document order. Structured
// fields such as composite FITIDs collapse into one stable string.
func (n *Node) FlattenValue() string {
	if n == nil {
		return ""
	}
	if n.leaf {
		return n.value
	}
	var b strings.Builder
	for _, key := range n.keys {
		for _, child := range n.children[key] {
			b.WriteString(child.FlattenValue())
		}
	}
	return b.String()
}

// HasEnvelope reports whether the sanitized text carries both the
// opening and closing top-level document markers. Files without the
// envelope are not statements at all and are rejected outright, with
// no fallback extraction attempted.
func HasEnvelope(text string) bool {
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "<OFX>") && strings.Contains(upper, "</OFX>")
}

// ParseDocument builds the tag tree from sanitized statement text.
// The parser is deliberately lenient: unknown closing tags are ignored,
// unclosed containers are closed implicitly at end of input, and tag
// names are case-folded to upper case. It never fails; text with no
// recognizable tags produces an empty root.
func ParseDocument(text string) *Node {
	root := newContainer()
	stack := []*Node{root}
	names := []string{""}

	i := 0
	for i < len(text) {
		open := strings.IndexByte(text[i:], '<')
		if open < 0 {
			break
		}
		open += i
		end := strings.IndexByte(text[open:], '>')
		if end < 0 {
			break
		}
		end += open
		tag := strings.TrimSpace(text[open+1 : end])
		i = end + 1
		if tag == "" {
			continue
		}

		if strings.HasPrefix(tag, "/") {
			// Pop to the matching open container; an unmatched closer
			// (e.g. the explicit closer of an already-finished leaf)
			// is ignored.
			name := strings.ToUpper(strings.TrimSpace(tag[1:]))
			for depth := len(stack) - 1; depth > 0; depth-- {
				if names[depth] == name {
					stack = stack[:depth]
					names = names[:depth]
					break
				}
			}
			continue
		}

		name := strings.ToUpper(tag)
		content := text[i:]
		if next := strings.IndexByte(content, '<'); next >= 0 {
			content = content[:next]
		}
		content = strings.TrimSpace(content)

		parent := stack[len(stack)-1]
		if content != "" {
			parent.add(name, &Node{value: content, leaf: true})
			continue
		}
		child := newContainer()
		parent.add(name, child)
		stack = append(stack, child)
		names = append(names, name)
	}

	return root
}

// transactionListPaths are the known traversals from the document root
// to a statement's transaction list: the bank statement response first,
// then the credit card variant.
var transactionListPaths = [][]string{
	{"OFX", "BANKMSGSRSV1", "STMTTRNRS", "STMTRS", "BANKTRANLIST"},
	{"OFX", "CREDITCARDMSGSRSV1", "CCSTMTTRNRS", "CCSTMTRS", "BANKTRANLIST"},
}

// TransactionNodes walks the known statement paths and returns the raw
// transaction blocks. ok=false signals that no traversal reached a list
// with at least one transaction, which callers treat as "try the flat
// extractor", not as a hard failure.
func TransactionNodes(doc *Node) ([]*Node, bool) {
	for _, path := range transactionListPaths {
		list, ok := doc.Path(path...)
		if !ok {
			continue
		}
		if txns := list.All("STMTTRN"); len(txns) > 0 {
			return txns, true
		}
	}
	return nil, false
}

// RawTransaction is one transaction block as read from the file, before
// normalization. All fields are raw text; interpretation (sign, date
// format, fallbacks) happens downstream. Nodes live only for the span
// of a single ingestion.
type RawTransaction struct {
	Amount   string // signed decimal text, e.g. "-150.00"
	Memo     string // may be the placeholder when the file has none
	Posted   string // posted-date text in whatever encoding the bank used
	FitID    string // financial institution transaction id
	TypeHint string // bank-declared type, informational only
}

// NodeTransaction reads one STMTTRN block of the tag tree into a raw
// transaction. Missing fields stay empty except the memo, which falls
// back to the NAME tag and then to the placeholder.
func NodeTransaction(n *Node) RawTransaction {
	raw := RawTransaction{Memo: PlaceholderDescription}
	if v, ok := n.Get("TRNAMT"); ok {
		raw.Amount = strings.TrimSpace(v.FlattenValue())
	}
	if v, ok := n.Get("MEMO"); ok && strings.TrimSpace(v.FlattenValue()) != "" {
		raw.Memo = strings.TrimSpace(v.FlattenValue())
	} else if v, ok := n.Get("NAME"); ok && strings.TrimSpace(v.FlattenValue()) != "" {
		raw.Memo = strings.TrimSpace(v.FlattenValue())
	}
	if v, ok := n.Get("DTPOSTED"); ok {
		raw.Posted = strings.TrimSpace(v.FlattenValue())
	}
	if v, ok := n.Get("FITID"); ok {
		raw.FitID = strings.TrimSpace(v.FlattenValue())
	}
	if v, ok := n.Get("TRNTYPE"); ok {
		raw.TypeHint = strings.TrimSpace(v.FlattenValue())
	}
	return raw
}
