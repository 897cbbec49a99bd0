package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/ensemble/pkg/domain"
)

// Template is a compiled prompt template. It implements domain.Template.
type Template struct {
	src      string
	segments []segment
}

type segKind int

const (
	segText segKind = iota
	segVar
	segCond
)

type segment struct {
	kind segKind
	text string // segText: literal text; segVar: variable name
	// segCond only:
	ident    string
	literal  string
	thenSegs []segment
	elseSegs []segment
}

var (
	varPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	ifPattern  = regexp.MustCompile(`^if\s+([A-Za-z_][A-Za-z0-9_]*)\s*==\s*"([^"]*)"$`)
)

// Compile parses src. It returns an error for malformed {{ }} or {% %}
// tags, unterminated blocks, and nested conditionals.
func Compile(src string) (*Template, error) {
	segs, _, err := parseSegments(src, false)
	if err != nil {
		return nil, err
	}
	return &Template{src: src, segments: segs}, nil
}

// MustCompile is like Compile but panics on error. For tests and constants.
func MustCompile(src string) *Template {
	t, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the original template text.
func (t *Template) Source() string { return t.src }

// Render substitutes variables and resolves conditional blocks against the
// given context. Missing variables render as empty strings; each one is
// reported once in notes.
func (t *Template) Render(vars map[string]domain.Value) (string, []string) {
	var sb strings.Builder
	var notes []string
	seen := map[string]bool{}
	renderSegments(&sb, t.segments, vars, &notes, seen)
	return sb.String(), notes
}

var _ domain.Template = (*Template)(nil)

func renderSegments(sb *strings.Builder, segs []segment, vars map[string]domain.Value, notes *[]string, seen map[string]bool) {
	for _, s := range segs {
		switch s.kind {
		case segText:
			sb.WriteString(s.text)
		case segVar:
			v, ok := vars[s.text]
			if !ok || v.IsNull() {
				if !seen[s.text] {
					seen[s.text] = true
					*notes = append(*notes, fmt.Sprintf("missing template variable %q", s.text))
				}
				continue
			}
			sb.WriteString(stringify(v))
		case segCond:
			if vars[s.ident].Equal(domain.String(s.literal)) {
				renderSegments(sb, s.thenSegs, vars, notes, seen)
			} else {
				renderSegments(sb, s.elseSegs, vars, notes, seen)
			}
		}
	}
}

// stringify renders a value for prompt text: bare strings stay bare,
// everything else serializes as compact JSON.
func stringify(v domain.Value) string {
	if s, ok := v.Str(); ok {
		return s
	}
	return v.String()
}

// parseSegments consumes src until EOF or, when insideCond is true, until
// an {% else %} or {% endif %} tag, which is returned to the caller via
// rest (tag included).
func parseSegments(src string, insideCond bool) (segs []segment, rest string, err error) {
	for src != "" {
		varIdx := strings.Index(src, "{{")
		tagIdx := strings.Index(src, "{%")

		// No more tags: all literal text.
		if varIdx < 0 && tagIdx < 0 {
			segs = append(segs, segment{kind: segText, text: src})
			return segs, "", nil
		}

		// Pick whichever opens first.
		if varIdx >= 0 && (tagIdx < 0 || varIdx < tagIdx) {
			if varIdx > 0 {
				segs = append(segs, segment{kind: segText, text: src[:varIdx]})
			}
			end := strings.Index(src[varIdx:], "}}")
			if end < 0 {
				return nil, "", fmt.Errorf("unterminated {{ at offset %d", varIdx)
			}
			name := strings.TrimSpace(src[varIdx+2 : varIdx+end])
			if !varPattern.MatchString(name) {
				return nil, "", fmt.Errorf("invalid substitution variable %q", name)
			}
			segs = append(segs, segment{kind: segVar, text: name})
			src = src[varIdx+end+2:]
			continue
		}

		if tagIdx > 0 {
			segs = append(segs, segment{kind: segText, text: src[:tagIdx]})
			src = src[tagIdx:]
		}

		end := strings.Index(src, "%}")
		if end < 0 {
			return nil, "", fmt.Errorf("unterminated {%% tag")
		}
		tag := strings.TrimSpace(src[2:end])
		src = src[end+2:]

		switch {
		case strings.HasPrefix(tag, "if "):
			cond, body, err := parseConditional(tag, src, insideCond)
			if err != nil {
				return nil, "", err
			}
			segs = append(segs, cond)
			src = body

		case tag == "else", tag == "endif":
			if !insideCond {
				return nil, "", fmt.Errorf("{%% %s %%} without a matching {%% if %%}", tag)
			}
			// Hand the tag back to the conditional parser.
			return segs, "{% " + tag + " %}" + src, nil

		default:
			return nil, "", fmt.Errorf("unknown template tag {%% %s %%}", tag)
		}
	}
	if insideCond {
		return nil, "", fmt.Errorf("conditional block missing {%% endif %%}")
	}
	return segs, "", nil
}

func parseConditional(tag, src string, insideCond bool) (segment, string, error) {
	if insideCond {
		return segment{}, "", fmt.Errorf("nested conditionals are not supported")
	}
	m := ifPattern.FindStringSubmatch(tag)
	if m == nil {
		return segment{}, "", fmt.Errorf(`malformed conditional %q: expected {%% if name == "literal" %%}`, tag)
	}
	cond := segment{kind: segCond, ident: m[1], literal: m[2]}

	thenSegs, rest, err := parseSegments(src, true)
	if err != nil {
		return segment{}, "", err
	}
	cond.thenSegs = thenSegs

	tag, rest = cutTag(rest)
	if tag == "else" {
		elseSegs, after, err := parseSegments(rest, true)
		if err != nil {
			return segment{}, "", err
		}
		cond.elseSegs = elseSegs
		tag, rest = cutTag(after)
	}
	if tag != "endif" {
		return segment{}, "", fmt.Errorf("conditional block missing {%% endif %%}")
	}
	return cond, rest, nil
}

// cutTag strips a leading {% tag %} (as re-emitted by parseSegments) and
// returns its name and the remainder.
func cutTag(src string) (string, string) {
	if !strings.HasPrefix(src, "{%") {
		return "", src
	}
	end := strings.Index(src, "%}")
	if end < 0 {
		return "", src
	}
	return strings.TrimSpace(src[2:end]), src[end+2:]
}

