package highlight

import (
	"strings"
	"testing"
)

// kindsOf returns the non-text token texts keyed by kind, for assertions
// that don't care about exact offsets.
func kindsOf(t *testing.T, src string) map[Kind][]string {
	t.Helper()
	out := map[Kind][]string{}
	for _, tok := range Tokenize(src) {
		if tok.Kind != KindText {
			out[tok.Kind] = append(out[tok.Kind], src[tok.Start:tok.End])
		}
	}
	return out
}

// The stream must cover every byte exactly once, in order — that's the
// invariant that makes single-pass rendering safe.
func TestTokenize_CoversInput(t *testing.T) {
	srcs := []string{
		"",
		"const x = 42;",
		"// comment\nlet s = \"str\";",
		"weird \x00 bytes \xff here",
		"unterminated \"string",
		"/* unterminated comment",
	}

	for _, src := range srcs {
		tokens := Tokenize(src)
		var rebuilt strings.Builder
		prev := 0
		for _, tok := range tokens {
			if tok.Start != prev {
				t.Fatalf("src %q: gap or overlap at byte %d (token starts at %d)", src, prev, tok.Start)
			}
			if tok.End < tok.Start {
				t.Fatalf("src %q: inverted span %+v", src, tok)
			}
			rebuilt.WriteString(src[tok.Start:tok.End])
			prev = tok.End
		}
		if prev != len(src) {
			t.Fatalf("src %q: stream ends at byte %d, want %d", src, prev, len(src))
		}
		if rebuilt.String() != src {
			t.Fatalf("src %q: concatenated spans = %q", src, rebuilt.String())
		}
	}
}

func TestTokenize_Keywords(t *testing.T) {
	kinds := kindsOf(t, "if (x) { return true; } else { throw new Error(); }")

	want := []string{"if", "return", "true", "else", "throw", "new"}
	got := kinds[KindKeyword]
	if len(got) != len(want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// A keyword inside a string literal must stay part of the string — the
// regex version's classic failure mode.
func TestTokenize_KeywordInsideString(t *testing.T) {
	kinds := kindsOf(t, `let msg = "if you return this";`)

	if len(kinds[KindString]) != 1 || kinds[KindString][0] != `"if you return this"` {
		t.Errorf("strings = %v, want the whole literal", kinds[KindString])
	}
	for _, kw := range kinds[KindKeyword] {
		if kw == "if" || kw == "return" {
			t.Errorf("keyword %q leaked out of the string literal", kw)
		}
	}
}

func TestTokenize_KeywordInsideComment(t *testing.T) {
	kinds := kindsOf(t, "// return if true\nx = 1")

	if len(kinds[KindComment]) != 1 {
		t.Fatalf("comments = %v, want one line comment", kinds[KindComment])
	}
	if len(kinds[KindKeyword]) != 0 {
		t.Errorf("keywords %v leaked out of the comment", kinds[KindKeyword])
	}
}

func TestTokenize_BlockComment(t *testing.T) {
	kinds := kindsOf(t, "a /* multi\nline */ b")
	if len(kinds[KindComment]) != 1 || kinds[KindComment][0] != "/* multi\nline */" {
		t.Errorf("comments = %v", kinds[KindComment])
	}
}

func TestTokenize_Strings(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`x = "double"`, `"double"`},
		{`x = 'single'`, `'single'`},
		{"x = `template\nwith newline`", "`template\nwith newline`"},
		{`x = "with \" escape"`, `"with \" escape"`},
	}
	for _, tc := range cases {
		kinds := kindsOf(t, tc.src)
		if len(kinds[KindString]) != 1 || kinds[KindString][0] != tc.want {
			t.Errorf("src %q: strings = %v, want [%q]", tc.src, kinds[KindString], tc.want)
		}
	}
}

func TestTokenize_Numbers(t *testing.T) {
	kinds := kindsOf(t, "a = 42 + 3.14 + 1e-9 + 0xFF + 0b101 + 0o17")

	want := []string{"42", "3.14", "1e-9", "0xFF", "0b101", "0o17"}
	got := kinds[KindNumber]
	if len(got) != len(want) {
		t.Fatalf("numbers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("number[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenize_CallSiteAndProperty(t *testing.T) {
	kinds := kindsOf(t, "console.log(user.name)")

	if got := kinds[KindFunction]; len(got) != 1 || got[0] != "log" {
		t.Errorf("functions = %v, want [log]", got)
	}
	if got := kinds[KindProperty]; len(got) != 1 || got[0] != "name" {
		t.Errorf("properties = %v, want [name]", got)
	}
}

func TestTokenize_DeclarationsAndClasses(t *testing.T) {
	kinds := kindsOf(t, "const answer = 42;\nclass Parser extends Base {}")

	if got := kinds[KindVariable]; len(got) != 1 || got[0] != "answer" {
		t.Errorf("variables = %v, want [answer]", got)
	}
	if got := kinds[KindClassName]; len(got) != 1 || got[0] != "Parser" {
		t.Errorf("class names = %v, want [Parser]", got)
	}
}

func TestTokenize_Constants(t *testing.T) {
	kinds := kindsOf(t, "x = MAX_RETRIES + limit")

	if got := kinds[KindConstant]; len(got) != 1 || got[0] != "MAX_RETRIES" {
		t.Errorf("constants = %v, want [MAX_RETRIES]", got)
	}
}

func TestTokenize_Punctuation(t *testing.T) {
	kinds := kindsOf(t, "f(a, b);")
	if got := kinds[KindPunctuation]; len(got) != 2 {
		t.Errorf("punctuation = %v, want [, ;]", got)
	}
}

func TestRenderHTML_EscapesMarkup(t *testing.T) {
	out := RenderHTML(`let html = "<script>alert('x')</script>"`)

	if strings.Contains(out, "<script>") {
		t.Error("RenderHTML() must escape raw HTML in the input")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("RenderHTML() output missing escaped markup: %s", out)
	}
}

func TestRenderHTML_WrapsKinds(t *testing.T) {
	out := RenderHTML("const x = 1;")

	for _, want := range []string{
		`<span class="token keyword">const</span>`,
		`<span class="token variable">x</span>`,
		`<span class="token operator">=</span>`,
		`<span class="token number">1</span>`,
		`<span class="token punctuation">;</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHTML() output missing %s\ngot: %s", want, out)
		}
	}
}

// The re-matching hazard the tokenizer exists to kill: markup the
// renderer itself emits must never be treated as input. Rendering text
// that literally contains `class="token keyword"` must escape it.
func TestRenderHTML_NoSelfMatching(t *testing.T) {
	out := RenderHTML(`s = 'class="token keyword"'`)

	if strings.Count(out, `<span class="token string">`) != 1 {
		t.Errorf("string literal should render as exactly one string span: %s", out)
	}
}

func TestRenderHTML_Empty(t *testing.T) {
	if out := RenderHTML(""); out != "" {
		t.Errorf("RenderHTML(\"\") = %q, want empty", out)
	}
}
