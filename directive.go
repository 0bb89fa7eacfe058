package hwtbuild

import (
	"bufio"
	"fmt"
	"io"
)

// DirectiveKind identifies an instruction to the host build system.
type DirectiveKind int

const (
	// LinkSearch adds a library search path.
	LinkSearch DirectiveKind = iota
	// LinkLib links a named library.
	LinkLib
	// Cfg sets a conditional compilation flag.
	Cfg
	// RerunIfChanged registers a file whose change reruns the build script.
	RerunIfChanged
)

var directiveKeys = map[DirectiveKind]string{
	LinkSearch:     "rustc-link-search",
	LinkLib:        "rustc-link-lib",
	Cfg:            "rustc-cfg",
	RerunIfChanged: "rerun-if-changed",
}

func (k DirectiveKind) String() string {
	if key, ok := directiveKeys[k]; ok {
		return key
	}
	return fmt.Sprintf("DirectiveKind(%d)", int(k))
}

// Directive is one line of build-script output.
type Directive struct {
	Kind  DirectiveKind
	Value string
}

// String renders the directive in Cargo's build-script syntax.
func (d Directive) String() string {
	return fmt.Sprintf("cargo:%s=%s", d.Kind, d.Value)
}

// Directives accumulates directives in emission order. Nothing is written to
// the host until WriteTo is called.
type Directives struct {
	items []Directive
}

func (d *Directives) add(kind DirectiveKind, value string) {
	d.items = append(d.items, Directive{Kind: kind, Value: value})
}

// LinkSearch appends a rustc-link-search directive.
func (d *Directives) LinkSearch(path string) { d.add(LinkSearch, path) }

// LinkStatic appends a rustc-link-lib directive for a static library.
func (d *Directives) LinkStatic(name string) { d.add(LinkLib, "static="+name) }

// Cfg appends a rustc-cfg directive.
func (d *Directives) Cfg(flag string) { d.add(Cfg, flag) }

// RerunIfChanged appends a rerun-if-changed directive.
func (d *Directives) RerunIfChanged(path string) { d.add(RerunIfChanged, path) }

// Items returns a copy of the accumulated directives.
func (d *Directives) Items() []Directive {
	return append([]Directive{}, d.items...)
}

// Count returns how many directives equal want.
func (d *Directives) Count(want Directive) int {
	n := 0
	for _, item := range d.items {
		if item == want {
			n++
		}
	}
	return n
}

// Of returns the directives of the given kind, in order.
func (d *Directives) Of(kind DirectiveKind) []Directive {
	var out []Directive
	for _, item := range d.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// WriteTo serializes all directives, one per line.
func (d *Directives) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, item := range d.items {
		n, err := fmt.Fprintln(bw, item.String())
		written += int64(n)
		if err != nil {
			return written, opError("emit directives", "", ErrDirectiveEmission, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, opError("emit directives", "", ErrDirectiveEmission, err)
	}
	return written, nil
}
