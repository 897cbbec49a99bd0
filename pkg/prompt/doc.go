// Package prompt implements the per-state prompt templates: {{name}}
// variable substitution plus exactly one non-nesting conditional form,
//
//	{% if identifier == "literal" %} ... {% else %} ... {% endif %}
//
// with the else branch optional. Templates are compiled at workflow load
// time; nesting and malformed tags are rejected there. Rendering never
// fails: a missing variable substitutes as the empty string and is reported
// as a rendering note.
package prompt
