package highlight

import (
	"html"
	"strings"
)

// RenderHTML tokenizes src and renders it as HTML span markup in one
// pass. Every span's text is escaped independently, so the output is
// always well-formed no matter what the input contains.
//
// Output shape (matching the front-end stylesheet):
//
//	<span class="token keyword">const</span> x <span class="token operator">=</span> ...
func RenderHTML(src string) string {
	tokens := Tokenize(src)

	var b strings.Builder
	b.Grow(len(src) + len(src)/2)

	for _, tok := range tokens {
		text := html.EscapeString(src[tok.Start:tok.End])
		if class := tok.Kind.Class(); class != "" {
			b.WriteString(`<span class="token `)
			b.WriteString(class)
			b.WriteString(`">`)
			b.WriteString(text)
			b.WriteString(`</span>`)
		} else {
			b.WriteString(text)
		}
	}

	return b.String()
}
